package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusAssigned TicketStatus = "assigned"
	StatusClosed   TicketStatus = "closed"
	StatusNew      TicketStatus = "new"
	StatusReopened TicketStatus = "reopened"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusAssigned: true,
	StatusClosed:   true,
	StatusNew:      true,
	StatusReopened: true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) IsAssigned() bool {
	return ts == StatusAssigned
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func (ts TicketStatus) IsNew() bool {
	return ts == StatusNew
}

func (ts TicketStatus) IsReopened() bool {
	return ts == StatusReopened
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// AllTicketStatuses returns the legal status values in their canonical
// order.
func AllTicketStatuses() []string {
	return []string{
		StatusAssigned.String(),
		StatusClosed.String(),
		StatusNew.String(),
		StatusReopened.String(),
	}
}
