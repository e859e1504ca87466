package schema

// IdentityField is the implicit identity field every record may declare.
// Storage layers supply it, so table schemas never carry it.
const IdentityField = "id"

// Model is the normalized intermediate model built from one source text.
// It is rebuilt from scratch on every run and never mutated afterwards.
type Model struct {
	Enums   map[string]EnumDecl   `json:"enums"`
	Records map[string]RecordDecl `json:"records"`

	// Declaration order of enums and records, used by every emitter so that
	// output does not depend on map iteration.
	EnumOrder   []string `json:"enumOrder"`
	RecordOrder []string `json:"recordOrder"`
}

// EnumDecl represents an enum block
type EnumDecl struct {
	Name   string      `json:"name"`
	Values []EnumValue `json:"values"`
}

// EnumValue represents a single KEY = "VALUE" pair inside an enum
type EnumValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RecordDecl represents a flat record-type block
type RecordDecl struct {
	Name   string      `json:"name"`
	Fields []FieldDecl `json:"fields"`
}

// FieldDecl represents one field line inside a record
type FieldDecl struct {
	Name     string   `json:"name"`
	RawType  string   `json:"rawType"`
	Optional bool     `json:"optional"`
	Default  *Literal `json:"default,omitempty"`
	Line     int      `json:"line"`
}

// LiteralKind identifies the kind of a declared default literal
type LiteralKind string

const (
	LiteralString  LiteralKind = "string"
	LiteralNumber  LiteralKind = "number"
	LiteralBoolean LiteralKind = "boolean"
)

// Literal is a declared default value
type Literal struct {
	Kind   LiteralKind `json:"kind"`
	String string      `json:"string,omitempty"`
	Number float64     `json:"number,omitempty"`
	Bool   bool        `json:"bool,omitempty"`
}

// Value returns the literal as a plain Go value (string, float64 or bool).
func (l Literal) Value() any {
	switch l.Kind {
	case LiteralNumber:
		return l.Number
	case LiteralBoolean:
		return l.Bool
	default:
		return l.String
	}
}

// EnumList returns enums in declaration order
func (m *Model) EnumList() []EnumDecl {
	out := make([]EnumDecl, 0, len(m.EnumOrder))
	for _, name := range m.EnumOrder {
		out = append(out, m.Enums[name])
	}
	return out
}

// RecordList returns records in declaration order
func (m *Model) RecordList() []RecordDecl {
	out := make([]RecordDecl, 0, len(m.RecordOrder))
	for _, name := range m.RecordOrder {
		out = append(out, m.Records[name])
	}
	return out
}

// Field looks up a field of a record by name
func (r RecordDecl) Field(name string) (FieldDecl, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDecl{}, false
}

// First returns the first declared value of the enum
func (e EnumDecl) First() string {
	if len(e.Values) == 0 {
		return ""
	}
	return e.Values[0].Value
}

// Strings returns the enum values in declaration order
func (e EnumDecl) Strings() []string {
	out := make([]string, len(e.Values))
	for i, v := range e.Values {
		out[i] = v.Value
	}
	return out
}

func newModel() *Model {
	return &Model{
		Enums:       map[string]EnumDecl{},
		Records:     map[string]RecordDecl{},
		EnumOrder:   []string{},
		RecordOrder: []string{},
	}
}

// addEnum registers an enum, rejecting names already used by any declaration
func (m *Model) addEnum(e EnumDecl, line int) error {
	if m.declared(e.Name) {
		return newExtractionError(ErrDuplicateDecl, e.Name, line, "declaration %q already exists", e.Name)
	}
	m.Enums[e.Name] = e
	m.EnumOrder = append(m.EnumOrder, e.Name)
	return nil
}

// addRecord registers a record, rejecting names already used by any declaration
func (m *Model) addRecord(r RecordDecl, line int) error {
	if m.declared(r.Name) {
		return newExtractionError(ErrDuplicateDecl, r.Name, line, "declaration %q already exists", r.Name)
	}
	m.Records[r.Name] = r
	m.RecordOrder = append(m.RecordOrder, r.Name)
	return nil
}

func (m *Model) declared(name string) bool {
	_, isEnum := m.Enums[name]
	_, isRecord := m.Records[name]
	return isEnum || isRecord
}
