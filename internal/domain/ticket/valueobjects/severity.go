package valueobjects

import "fmt"

type Severity string

const (
	SeverityBlocker  Severity = "blocker"
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityNormal   Severity = "normal"
	SeverityMinor    Severity = "minor"
	SeverityTrivial  Severity = "trivial"
)

var validSeverities = map[Severity]bool{
	SeverityBlocker:  true,
	SeverityCritical: true,
	SeverityMajor:    true,
	SeverityNormal:   true,
	SeverityMinor:    true,
	SeverityTrivial:  true,
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) IsValid() bool {
	return validSeverities[s]
}

func NewSeverity(v string) (Severity, error) {
	s := Severity(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", v)
	}
	return s, nil
}

// AllSeverities returns the legal severity values ordered from most to
// least severe.
func AllSeverities() []string {
	return []string{
		SeverityBlocker.String(),
		SeverityCritical.String(),
		SeverityMajor.String(),
		SeverityNormal.String(),
		SeverityMinor.String(),
		SeverityTrivial.String(),
	}
}
