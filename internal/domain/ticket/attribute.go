package ticket

import (
	vo "github.com/orris-inc/tracgate/internal/domain/ticket/valueobjects"
)

// Attribute names a ticket field. The set of attributes Trac knows is
// closed; every field of the Ticket entity maps to exactly one of them.
type Attribute string

const (
	AttrSummary     Attribute = "summary"
	AttrDescription Attribute = "description"
	AttrReporter    Attribute = "reporter"
	AttrOwner       Attribute = "owner"
	AttrCc          Attribute = "cc"
	AttrType        Attribute = "type"
	AttrStatus      Attribute = "status"
	AttrPriority    Attribute = "priority"
	AttrSeverity    Attribute = "severity"
	AttrResolution  Attribute = "resolution"
	AttrMilestone   Attribute = "milestone"
	AttrComponent   Attribute = "component"
	AttrVersion     Attribute = "version"
	AttrKeywords    Attribute = "keywords"
)

func (a Attribute) String() string {
	return string(a)
}

// Definition describes one attribute: its default value, whether an
// unset value is acceptable, and the legal values (nil = unrestricted).
// NilOption marks the unset value itself as a member of the valid set;
// Trac treats an empty resolution as a legal resolution.
type Definition struct {
	Default   *string
	Optional  bool
	Options   []string
	NilOption bool
}

// Schema is an immutable lookup from attribute name to its definition
// and from attribute name to its valid-value set. Tickets take a Schema
// at construction; DefaultSchema covers a stock Trac installation and a
// custom Schema replaces it wherever an installation defines its own
// option sets.
type Schema struct {
	defs  map[Attribute]Definition
	names []Attribute
}

// NewSchema builds a schema from explicit definitions. The iteration
// order of Attributes follows the canonical attribute order for names
// the default schema knows, with any extra names appended in map order.
func NewSchema(defs map[Attribute]Definition) Schema {
	copied := make(map[Attribute]Definition, len(defs))
	for name, def := range defs {
		copied[name] = def
	}

	var names []Attribute
	for _, name := range attributeOrder {
		if _, ok := copied[name]; ok {
			names = append(names, name)
		}
	}
	for name := range copied {
		if !isCanonical(name) {
			names = append(names, name)
		}
	}

	return Schema{defs: copied, names: names}
}

// Definition returns the definition for the given attribute name.
func (s Schema) Definition(name Attribute) (Definition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// Options returns the valid-value set for the given attribute, with
// restricted reporting whether a set exists at all. An attribute without
// a set accepts any value.
func (s Schema) Options(name Attribute) (options []string, restricted bool) {
	def, ok := s.defs[name]
	if !ok || def.Options == nil {
		return nil, false
	}
	return def.Options, true
}

// Attributes returns every attribute name the schema defines, in a
// stable order.
func (s Schema) Attributes() []Attribute {
	return s.names
}

// Len returns the number of defined attributes.
func (s Schema) Len() int {
	return len(s.defs)
}

var attributeOrder = []Attribute{
	AttrSummary,
	AttrDescription,
	AttrReporter,
	AttrOwner,
	AttrCc,
	AttrType,
	AttrStatus,
	AttrPriority,
	AttrSeverity,
	AttrResolution,
	AttrMilestone,
	AttrComponent,
	AttrVersion,
	AttrKeywords,
}

func isCanonical(name Attribute) bool {
	for _, n := range attributeOrder {
		if n == name {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}

var defaultSchema = NewSchema(map[Attribute]Definition{
	AttrSummary:     {},
	AttrDescription: {},
	AttrReporter:    {Optional: true}, // trac fills in the login name
	AttrOwner:       {Optional: true}, // trac fills in the login name
	AttrCc:          {Optional: true},
	AttrType: {
		Default: strPtr(vo.TypeTask.String()),
		Options: vo.AllTicketTypes(),
	},
	AttrStatus: {
		Default:  strPtr(vo.StatusNew.String()),
		Optional: true,
		Options:  vo.AllTicketStatuses(),
	},
	AttrPriority: {
		Default: strPtr(vo.PriorityNormal.String()),
		Options: vo.AllPriorities(),
	},
	AttrSeverity: {
		Default: strPtr(vo.SeverityNormal.String()),
		Options: vo.AllSeverities(),
	},
	AttrResolution: {
		Options:   vo.AllResolutions(),
		NilOption: true,
	},
	AttrMilestone: {Optional: true},
	AttrComponent: {Default: strPtr("Other")},
	AttrVersion:   {Optional: true},
	AttrKeywords:  {Optional: true},
})

// DefaultSchema returns the built-in schema for a stock Trac
// installation.
func DefaultSchema() Schema {
	return defaultSchema
}
