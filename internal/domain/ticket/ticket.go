package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/tracgate/internal/shared/errors"
)

// Ticket is an in-memory, possibly partial view of a Trac ticket. All
// attribute fields are nullable; nil means "not set", which for an
// update translates to "leave unchanged". ID, Time and Changetime are
// assigned by the server and stay nil on locally constructed tickets.
type Ticket struct {
	ID *int

	Summary     *string
	Description *string

	Reporter *string
	Owner    *string
	Cc       *string

	Type       *string
	Status     *string
	Priority   *string
	Severity   *string
	Resolution *string

	Milestone *string
	Component *string
	Keywords  *string
	Version   *string

	Time       *time.Time
	Changetime *time.Time

	schema Schema
}

// New returns an empty ticket bound to the default schema.
func New() *Ticket {
	return &Ticket{schema: DefaultSchema()}
}

// NewWithSchema returns an empty ticket bound to a custom schema. Only
// the canonical attribute names can carry values; a custom schema
// replaces defaults and valid-value sets, it does not add fields.
func NewWithSchema(schema Schema) *Ticket {
	return &Ticket{schema: schema}
}

// ForCreation returns a ticket carrying the two fields a creation
// minimally requires.
func ForCreation(summary, description string) *Ticket {
	t := New()
	t.Summary = &summary
	t.Description = &description
	return t
}

// ForUpdate returns a ticket carrying only the ID, ready to have the
// fields to change set on it.
func ForUpdate(id int) *Ticket {
	t := New()
	t.ID = &id
	return t
}

// Schema returns the schema the ticket validates against.
func (t *Ticket) Schema() Schema {
	return t.schema
}

// CheckAttributeValidity validates the ticket's current value for the
// named attribute against the schema.
func (t *Ticket) CheckAttributeValidity(name Attribute) error {
	value, _ := t.attributeValue(name)
	return t.CheckAttributeValue(name, value)
}

// CheckAttributeValue validates a candidate value for the named
// attribute. A nil value passes for optional attributes, and for
// required ones only when the valid-value set itself admits the unset
// value. A non-nil value must be a member of the valid-value set when
// one exists.
func (t *Ticket) CheckAttributeValue(name Attribute, value *string) error {
	def, ok := t.schema.Definition(name)
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("unknown ticket attribute %q", name))
	}
	options, restricted := t.schema.Options(name)

	if value == nil {
		if def.Optional {
			return nil
		}
		if !restricted {
			return errors.NewValidationError(
				fmt.Sprintf("the value for the %s attribute must not be unset", name))
		}
		if def.NilOption {
			return nil
		}
		return errors.NewValidationError(
			fmt.Sprintf("invalid unset value for attribute %s", name),
			"valid options: "+strings.Join(options, ", "))
	}

	if restricted && !containsOption(options, *value) {
		return errors.NewValidationError(
			fmt.Sprintf("invalid value %q for attribute %s", *value, name),
			"valid options: "+strings.Join(options, ", "))
	}
	return nil
}

// CreationValueMap derives the attribute map for a ticket.create call.
// Summary and description travel as separate positional arguments, so
// they are validated for presence but excluded from the map. Optional
// unset attributes are omitted; required unset ones fall back to their
// schema default before validation. The result never contains an entry
// for an unset value.
func (t *Ticket) CreationValueMap() (map[string]string, error) {
	valueMap := make(map[string]string)

	for _, name := range t.schema.Attributes() {
		value, known := t.attributeValue(name)
		if !known {
			continue
		}

		if name == AttrSummary || name == AttrDescription {
			if err := t.CheckAttributeValidity(name); err != nil {
				return nil, err
			}
			continue
		}

		def, _ := t.schema.Definition(name)
		if value == nil {
			if def.Optional {
				continue
			}
			value = def.Default
		}

		if err := t.CheckAttributeValue(name, value); err != nil {
			return nil, err
		}
		if value != nil {
			valueMap[name.String()] = *value
		}
	}

	return valueMap, nil
}

// UpdateValueMap derives the attribute map for a ticket.update call:
// every set attribute is validated and included, unset ones are left
// out. A ticket with nothing set yields an empty map, meaning "no
// changes".
func (t *Ticket) UpdateValueMap() (map[string]string, error) {
	valueMap := make(map[string]string)

	for _, name := range t.schema.Attributes() {
		value, known := t.attributeValue(name)
		if !known || value == nil {
			continue
		}
		if err := t.CheckAttributeValue(name, value); err != nil {
			return nil, err
		}
		valueMap[name.String()] = *value
	}

	return valueMap, nil
}

// SetAttribute sets the named attribute. Unknown names report a
// not-found error.
func (t *Ticket) SetAttribute(name Attribute, value *string) error {
	field, ok := t.attributeField(name)
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("unknown ticket attribute %q", name))
	}
	*field = value
	return nil
}

// Attribute returns the current value of the named attribute. Unknown
// names report a not-found error.
func (t *Ticket) Attribute(name Attribute) (*string, error) {
	value, ok := t.attributeValue(name)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown ticket attribute %q", name))
	}
	return value, nil
}

// Equal reports whether two tickets identify the same server-side
// ticket, which is decided by ID alone. Tickets without an ID never
// compare equal, not even to themselves: an unsaved ticket has no
// identity yet.
func (t *Ticket) Equal(other *Ticket) bool {
	if other == nil || t.ID == nil || other.ID == nil {
		return false
	}
	return *t.ID == *other.ID
}

func (t *Ticket) String() string {
	id := "unsaved"
	if t.ID != nil {
		id = fmt.Sprintf("%d", *t.ID)
	}
	summary := ""
	if t.Summary != nil {
		summary = *t.Summary
	}
	return fmt.Sprintf("ticket %s: %s", id, summary)
}

func (t *Ticket) attributeValue(name Attribute) (*string, bool) {
	field, ok := t.attributeField(name)
	if !ok {
		return nil, false
	}
	return *field, true
}

func (t *Ticket) attributeField(name Attribute) (**string, bool) {
	switch name {
	case AttrSummary:
		return &t.Summary, true
	case AttrDescription:
		return &t.Description, true
	case AttrReporter:
		return &t.Reporter, true
	case AttrOwner:
		return &t.Owner, true
	case AttrCc:
		return &t.Cc, true
	case AttrType:
		return &t.Type, true
	case AttrStatus:
		return &t.Status, true
	case AttrPriority:
		return &t.Priority, true
	case AttrSeverity:
		return &t.Severity, true
	case AttrResolution:
		return &t.Resolution, true
	case AttrMilestone:
		return &t.Milestone, true
	case AttrComponent:
		return &t.Component, true
	case AttrVersion:
		return &t.Version, true
	case AttrKeywords:
		return &t.Keywords, true
	}
	return nil, false
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
