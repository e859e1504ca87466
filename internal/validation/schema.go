// Package validation compiles mapped descriptors into runtime structural
// validators with derived validate and parse helpers per record.
package validation

import (
	"fmt"
	"regexp"

	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// EnumValidator accepts exactly the declared literals of an enum
type EnumValidator struct {
	Name     string
	Literals []string
}

// Accepts reports whether v is one of the declared literals
func (e *EnumValidator) Accepts(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, lit := range e.Literals {
		if lit == s {
			return true
		}
	}
	return false
}

// FieldValidator is the compiled validator of one field: a base type followed by
// constraints in canonical order, optionally wrapped as absent-permitted
type FieldValidator struct {
	Name        string
	Type        mapper.SemanticType
	Constraints []mapper.Constraint
	Optional    bool

	enum     *EnumValidator
	patterns []*regexp.Regexp
}

// RecordValidator is the compiled structural validator of one record
type RecordValidator struct {
	Name   string
	Fields []*FieldValidator
}

// Schema is the compiled validation schema of a model
type Schema struct {
	enums       []*EnumValidator
	records     []*RecordValidator
	enumIndex   map[string]*EnumValidator
	recordIndex map[string]*RecordValidator
}

// ValidateName returns the helper name of a record's validate function
func ValidateName(record string) string {
	return "validate" + record
}

// ParseName returns the helper name of a record's parse function
func ParseName(record string) string {
	return "parse" + record
}

// Compile builds validators for every enum and record of the model. Unlike the
// table schema, the identity field is kept, as a required plain string.
func Compile(model *schema.Model, descriptors mapper.Descriptors) (*Schema, error) {
	for name := range descriptors {
		if _, ok := model.Records[name]; !ok {
			return nil, fmt.Errorf("descriptors reference unknown record %q", name)
		}
	}

	s := &Schema{
		enumIndex:   map[string]*EnumValidator{},
		recordIndex: map[string]*RecordValidator{},
	}

	for _, enum := range model.EnumList() {
		ev := &EnumValidator{Name: enum.Name, Literals: enum.Strings()}
		s.enums = append(s.enums, ev)
		s.enumIndex[enum.Name] = ev
	}

	for _, record := range model.RecordList() {
		fields, ok := descriptors[record.Name]
		if !ok {
			return nil, fmt.Errorf("record %q has no descriptors", record.Name)
		}

		rv := &RecordValidator{Name: record.Name}
		for _, d := range fields {
			if _, ok := record.Field(d.Name); !ok {
				return nil, fmt.Errorf("descriptor %q is not a field of record %q", d.Name, record.Name)
			}
			fv, err := s.compileField(d)
			if err != nil {
				return nil, fmt.Errorf("record %q: %w", record.Name, err)
			}
			rv.Fields = append(rv.Fields, fv)
		}

		s.records = append(s.records, rv)
		s.recordIndex[record.Name] = rv
	}

	return s, nil
}

func (s *Schema) compileField(d mapper.FieldDescriptor) (*FieldValidator, error) {
	if d.Name == schema.IdentityField {
		return &FieldValidator{Name: d.Name, Type: mapper.SemanticType{Kind: mapper.String}}, nil
	}

	fv := &FieldValidator{
		Name:        d.Name,
		Type:        d.Type,
		Constraints: d.Constraints,
		Optional:    d.Optional,
	}

	if d.Type.Kind == mapper.EnumRef {
		ev, ok := s.enumIndex[d.Type.Enum]
		if !ok {
			return nil, fmt.Errorf("field %q references unknown enum %q", d.Name, d.Type.Enum)
		}
		fv.enum = ev
	}

	for _, c := range d.Constraints {
		if c.Kind != mapper.KindPattern {
			continue
		}
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field %q: invalid pattern: %w", d.Name, err)
		}
		fv.patterns = append(fv.patterns, re)
	}

	return fv, nil
}

// Enums returns the enum validators in declaration order
func (s *Schema) Enums() []*EnumValidator {
	return append([]*EnumValidator(nil), s.enums...)
}

// Records returns the record validators in declaration order
func (s *Schema) Records() []*RecordValidator {
	return append([]*RecordValidator(nil), s.records...)
}

// Enum looks up an enum validator
func (s *Schema) Enum(name string) (*EnumValidator, bool) {
	ev, ok := s.enumIndex[name]
	return ev, ok
}

// Record looks up a record validator
func (s *Schema) Record(name string) (*RecordValidator, bool) {
	rv, ok := s.recordIndex[name]
	return rv, ok
}

// ValidateFunc validates a pre-typed value
type ValidateFunc func(value map[string]any) error

// ParseFunc decodes and validates untyped external input
type ParseFunc func(input any) (map[string]any, error)

// ValidateFunc returns the helper named validate<Record>
func (s *Schema) ValidateFunc(name string) (ValidateFunc, bool) {
	for _, rv := range s.records {
		if ValidateName(rv.Name) == name {
			return rv.Validate, true
		}
	}
	return nil, false
}

// ParseFunc returns the helper named parse<Record>
func (s *Schema) ParseFunc(name string) (ParseFunc, bool) {
	for _, rv := range s.records {
		if ParseName(rv.Name) == name {
			return rv.Parse, true
		}
	}
	return nil, false
}

// Helpers lists the helper names in record declaration order, validate before parse
func (s *Schema) Helpers() []string {
	names := make([]string, 0, 2*len(s.records))
	for _, rv := range s.records {
		names = append(names, ValidateName(rv.Name))
	}
	for _, rv := range s.records {
		names = append(names, ParseName(rv.Name))
	}
	return names
}
