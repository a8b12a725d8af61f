package valueobjects

import "fmt"

// Resolution is the reason a ticket was closed. Trac also accepts an
// unset resolution as legal; that case is modelled at the schema level,
// not here.
type Resolution string

const (
	ResolutionFixed      Resolution = "fixed"
	ResolutionInvalid    Resolution = "invalid"
	ResolutionWontfix    Resolution = "wontfix"
	ResolutionDuplicate  Resolution = "duplicate"
	ResolutionWorksforme Resolution = "worksforme"
)

var validResolutions = map[Resolution]bool{
	ResolutionFixed:      true,
	ResolutionInvalid:    true,
	ResolutionWontfix:    true,
	ResolutionDuplicate:  true,
	ResolutionWorksforme: true,
}

func (r Resolution) String() string {
	return string(r)
}

func (r Resolution) IsValid() bool {
	return validResolutions[r]
}

func NewResolution(s string) (Resolution, error) {
	r := Resolution(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid resolution: %s", s)
	}
	return r, nil
}

// AllResolutions returns the legal resolution values in their canonical
// order.
func AllResolutions() []string {
	return []string{
		ResolutionFixed.String(),
		ResolutionInvalid.String(),
		ResolutionWontfix.String(),
		ResolutionDuplicate.String(),
		ResolutionWorksforme.String(),
	}
}
