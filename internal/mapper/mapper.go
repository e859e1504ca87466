// Package mapper turns declared fields into target-neutral descriptors:
// semantic type, default value, optionality and inferred constraints.
package mapper

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/schemagen/internal/schema"
)

// Kind is the semantic type of a field
type Kind string

const (
	String  Kind = "string"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	EnumRef Kind = "enum"
)

// SemanticType is a Kind plus the referenced enum name for EnumRef
type SemanticType struct {
	Kind Kind   `json:"kind"`
	Enum string `json:"enum,omitempty"`
}

// FieldDescriptor is the mapped form of one declared field
type FieldDescriptor struct {
	Name        string       `json:"name"`
	Type        SemanticType `json:"type"`
	Optional    bool         `json:"optional"`
	Default     any          `json:"default"`
	Constraints []Constraint `json:"constraints,omitempty"`

	// Fallback marks a raw type that was not recognized and degraded to String
	Fallback bool `json:"fallback,omitempty"`
}

// Descriptors maps a record name to its field descriptors in declaration order.
// The identity field is included; emitters decide whether to emit it.
type Descriptors map[string][]FieldDescriptor

// MapField maps one declared field. It never fails: unrecognized raw types
// degrade to String with no constraints.
func MapField(field schema.FieldDecl, enums map[string]schema.EnumDecl) FieldDescriptor {
	d := FieldDescriptor{
		Name:     field.Name,
		Optional: field.Optional,
	}

	switch schema.Classify(field.RawType, enums) {
	case schema.ClassNumber:
		d.Type = SemanticType{Kind: Number}
		d.Default = float64(0)
	case schema.ClassBoolean:
		d.Type = SemanticType{Kind: Boolean}
		d.Default = false
	case schema.ClassEnum:
		d.Type = SemanticType{Kind: EnumRef, Enum: field.RawType}
		d.Default = enums[field.RawType].First()
	case schema.ClassDateTime:
		d.Type = SemanticType{Kind: String}
		d.Default = ""
	case schema.ClassString:
		d.Type = SemanticType{Kind: String}
		d.Default = ""
	default:
		d.Type = SemanticType{Kind: String}
		d.Default = ""
		d.Fallback = true
	}

	if field.Default != nil {
		d.Default = field.Default.Value()
	}

	if !d.Fallback {
		d.Constraints = inferConstraints(field, d.Type, enums)
	}

	return d
}

// inferConstraints derives constraints from the field name and type, returned in
// canonical order: length, then pattern, then numeric range
func inferConstraints(field schema.FieldDecl, typ SemanticType, enums map[string]schema.EnumDecl) []Constraint {
	var constraints []Constraint
	class := schema.Classify(field.RawType, enums)

	if class == schema.ClassString {
		switch {
		case field.Name == "title":
			constraints = append(constraints, MinLength(1), MaxLength(200))
		case field.Name == "description":
			constraints = append(constraints, MaxLength(1000))
		case strings.HasSuffix(field.Name, "Id"):
			constraints = append(constraints, MinLength(1), MaxLength(50))
		}
	}

	if class == schema.ClassDateTime {
		constraints = append(constraints, Pattern(DateTimePattern))
	}

	if typ.Kind == Number && field.Name == "priority" {
		constraints = append(constraints, Range(0, 4))
	}

	sortCanonical(constraints)
	return constraints
}

// MapModel maps every record of the model. Fallbacks are logged as warnings.
func MapModel(m *schema.Model, logger zerolog.Logger) Descriptors {
	out := make(Descriptors, len(m.Records))

	for _, name := range m.RecordOrder {
		record := m.Records[name]
		fields := make([]FieldDescriptor, 0, len(record.Fields))
		for _, f := range record.Fields {
			d := MapField(f, m.Enums)
			if d.Fallback {
				logger.Warn().
					Str("record", name).
					Str("field", f.Name).
					Str("rawType", f.RawType).
					Msg("UnsupportedTypeFallback: unrecognized type mapped to string")
			}
			fields = append(fields, d)
		}
		out[name] = fields
	}

	return out
}
