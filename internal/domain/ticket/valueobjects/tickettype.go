package valueobjects

import "fmt"

type TicketType string

const (
	TypeDefect      TicketType = "defect"
	TypeEnhancement TicketType = "enhancement"
	TypeTask        TicketType = "task"
)

var validTicketTypes = map[TicketType]bool{
	TypeDefect:      true,
	TypeEnhancement: true,
	TypeTask:        true,
}

func (tt TicketType) String() string {
	return string(tt)
}

func (tt TicketType) IsValid() bool {
	return validTicketTypes[tt]
}

func (tt TicketType) IsDefect() bool {
	return tt == TypeDefect
}

func (tt TicketType) IsEnhancement() bool {
	return tt == TypeEnhancement
}

func (tt TicketType) IsTask() bool {
	return tt == TypeTask
}

func NewTicketType(s string) (TicketType, error) {
	tt := TicketType(s)
	if !tt.IsValid() {
		return "", fmt.Errorf("invalid ticket type: %s", s)
	}
	return tt, nil
}

// AllTicketTypes returns the legal type values in their canonical order.
func AllTicketTypes() []string {
	return []string{
		TypeDefect.String(),
		TypeEnhancement.String(),
		TypeTask.String(),
	}
}
