// Package jsonschema renders the mapped model as a JSON Schema document with one
// $defs entry per enum and per record.
package jsonschema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/okra-platform/schemagen/internal/codegen/writer"
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// Draft is the dialect declared by generated documents
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Generator renders a JSON Schema document
type Generator struct {
	id string
}

// NewGenerator creates a new JSON Schema generator; id becomes the document $id
// when set
func NewGenerator(id string) *Generator {
	return &Generator{id: id}
}

// Name returns the name of the target
func (g *Generator) Name() string {
	return "jsonschema"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".json"
}

// Generate builds the document and marshals it with two-space indentation
func (g *Generator) Generate(model *schema.Model, descriptors mapper.Descriptors) ([]byte, error) {
	doc, err := g.Build(model, descriptors)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return append(data, '\n'), nil
}

// Build returns the document as a schema value
func (g *Generator) Build(model *schema.Model, descriptors mapper.Descriptors) (*jsonschema.Schema, error) {
	for name := range descriptors {
		if _, ok := model.Records[name]; !ok {
			return nil, fmt.Errorf("descriptors reference unknown record %q", name)
		}
	}

	doc := &jsonschema.Schema{
		Schema:      Draft,
		ID:          g.id,
		Description: writer.Header,
		Defs:        map[string]*jsonschema.Schema{},
	}

	for _, enum := range model.EnumList() {
		values := make([]any, len(enum.Values))
		for i, v := range enum.Values {
			values[i] = v.Value
		}
		doc.Defs[enum.Name] = &jsonschema.Schema{
			Title: enum.Name,
			Type:  "string",
			Enum:  values,
		}
	}

	for _, record := range model.RecordList() {
		fields, ok := descriptors[record.Name]
		if !ok {
			return nil, fmt.Errorf("record %q has no descriptors", record.Name)
		}

		def := &jsonschema.Schema{
			Title:      record.Name,
			Type:       "object",
			Properties: make(map[string]*jsonschema.Schema, len(fields)),
			Required:   []string{},
		}
		for _, d := range fields {
			if _, ok := record.Field(d.Name); !ok {
				return nil, fmt.Errorf("descriptor %q is not a field of record %q", d.Name, record.Name)
			}
			prop, err := property(d)
			if err != nil {
				return nil, fmt.Errorf("record %q: %w", record.Name, err)
			}
			def.Properties[d.Name] = prop
			if !d.Optional || d.Name == schema.IdentityField {
				def.Required = append(def.Required, d.Name)
			}
		}
		doc.Defs[record.Name] = def
	}

	return doc, nil
}

func property(d mapper.FieldDescriptor) (*jsonschema.Schema, error) {
	if d.Name == schema.IdentityField {
		return &jsonschema.Schema{Type: "string"}, nil
	}

	var p *jsonschema.Schema
	switch d.Type.Kind {
	case mapper.Number:
		p = &jsonschema.Schema{Type: "number"}
	case mapper.Boolean:
		p = &jsonschema.Schema{Type: "boolean"}
	case mapper.EnumRef:
		p = &jsonschema.Schema{Ref: "#/$defs/" + d.Type.Enum}
	default:
		p = &jsonschema.Schema{Type: "string"}
	}

	for _, c := range d.Constraints {
		switch c.Kind {
		case mapper.KindMinLength:
			p.MinLength = intPtr(c.Length)
		case mapper.KindMaxLength:
			p.MaxLength = intPtr(c.Length)
		case mapper.KindPattern:
			p.Pattern = c.Pattern
		case mapper.KindRange:
			p.Minimum = floatPtr(c.Min)
			p.Maximum = floatPtr(c.Max)
		}
	}

	if d.Default != nil {
		raw, err := json.Marshal(d.Default)
		if err != nil {
			return nil, fmt.Errorf("field %q: invalid default: %w", d.Name, err)
		}
		p.Default = raw
	}

	return p, nil
}

func intPtr(n int) *int {
	return &n
}

func floatPtr(f float64) *float64 {
	return &f
}
