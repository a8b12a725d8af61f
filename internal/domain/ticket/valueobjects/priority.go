package valueobjects

import "fmt"

type Priority string

const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityNormal  Priority = "normal"
	PriorityLow     Priority = "low"
	PriorityLowest  Priority = "lowest"
)

var validPriorities = map[Priority]bool{
	PriorityHighest: true,
	PriorityHigh:    true,
	PriorityNormal:  true,
	PriorityLow:     true,
	PriorityLowest:  true,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	return validPriorities[p]
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}

// AllPriorities returns the legal priority values ordered from most to
// least urgent.
func AllPriorities() []string {
	return []string{
		PriorityHighest.String(),
		PriorityHigh.String(),
		PriorityNormal.String(),
		PriorityLow.String(),
		PriorityLowest.String(),
	}
}
