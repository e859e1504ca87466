// Package effect renders the compiled validation schema as Effect Schema
// TypeScript, with validate and parse helpers for every record.
package effect

import (
	"fmt"
	"strings"

	"github.com/okra-platform/schemagen/internal/codegen/writer"
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
	"github.com/okra-platform/schemagen/internal/validation"
)

// DefaultImport is the module the Schema namespace is imported from
const DefaultImport = "effect"

// Generator renders Effect Schema TypeScript
type Generator struct {
	importPath string
}

// NewGenerator creates a new Effect Schema generator. An empty import path
// selects DefaultImport.
func NewGenerator(importPath string) *Generator {
	if importPath == "" {
		importPath = DefaultImport
	}
	return &Generator{importPath: importPath}
}

// Name returns the name of the target
func (g *Generator) Name() string {
	return "effect"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// Generate compiles the validation schema and renders it
func (g *Generator) Generate(model *schema.Model, descriptors mapper.Descriptors) ([]byte, error) {
	s, err := validation.Compile(model, descriptors)
	if err != nil {
		return nil, err
	}
	return g.Render(s), nil
}

// Render renders a compiled validation schema
func (g *Generator) Render(s *validation.Schema) []byte {
	w := writer.NewWriter("  ")

	w.WriteComment(writer.Header)
	w.BlankLine()
	w.WriteLinef("import { Schema as S } from %q;", g.importPath)

	enums := s.Enums()
	if len(enums) > 0 {
		w.BlankLine()
		w.WriteComment("Enum schemas")
		for _, e := range enums {
			literals := make([]string, len(e.Literals))
			for i, lit := range e.Literals {
				literals[i] = fmt.Sprintf("S.Literal(%s)", quote(lit))
			}
			w.WriteLinef("export const %s = S.Union(%s);", schemaName(e.Name), strings.Join(literals, ", "))
			w.WriteLinef("export type %s = S.Schema.Type<typeof %s>;", e.Name, schemaName(e.Name))
		}
	}

	records := s.Records()
	for _, r := range records {
		w.BlankLine()
		w.WriteBlock(fmt.Sprintf("export const %s = S.Struct({", schemaName(r.Name)), "});", func() {
			for _, f := range r.Fields {
				w.WriteLinef("%s: %s,", f.Name, fieldExpr(f))
			}
		})
		w.BlankLine()
		w.WriteLinef("export type %s = S.Schema.Type<typeof %s>;", r.Name, schemaName(r.Name))
		w.WriteLinef("export type %sEncoded = S.Schema.Encoded<typeof %s>;", r.Name, schemaName(r.Name))
	}

	if len(records) > 0 {
		w.BlankLine()
		w.WriteComment("Validation helpers")
		for _, r := range records {
			w.WriteLinef("export const %s = S.validateSync(%s, { errors: \"all\" });", validation.ValidateName(r.Name), schemaName(r.Name))
		}
		w.BlankLine()
		w.WriteComment("Parse helpers (decode from external data)")
		for _, r := range records {
			w.WriteLinef("export const %s = S.decodeUnknownSync(%s, { errors: \"all\" });", validation.ParseName(r.Name), schemaName(r.Name))
		}
	}

	return w.Bytes()
}

func schemaName(name string) string {
	return name + "Schema"
}

// fieldExpr renders base type, constraint pipe and optional wrapper
func fieldExpr(f *validation.FieldValidator) string {
	var base string
	switch f.Type.Kind {
	case mapper.Number:
		base = "S.Number"
	case mapper.Boolean:
		base = "S.Boolean"
	case mapper.EnumRef:
		base = schemaName(f.Type.Enum)
	default:
		base = "S.String"
	}

	if len(f.Constraints) > 0 {
		filters := make([]string, len(f.Constraints))
		for i, c := range f.Constraints {
			filters[i] = filterExpr(c)
		}
		base = fmt.Sprintf("%s.pipe(%s)", base, strings.Join(filters, ", "))
	}

	if f.Optional {
		return fmt.Sprintf("S.optional(%s)", base)
	}
	return base
}

func filterExpr(c mapper.Constraint) string {
	switch c.Kind {
	case mapper.KindMinLength:
		return fmt.Sprintf("S.minLength(%d)", c.Length)
	case mapper.KindMaxLength:
		return fmt.Sprintf("S.maxLength(%d)", c.Length)
	case mapper.KindPattern:
		return fmt.Sprintf("S.pattern(%s)", RegexLiteral(c.Pattern))
	case mapper.KindRange:
		return fmt.Sprintf("S.between(%s, %s)", mapper.FormatNumber(c.Min), mapper.FormatNumber(c.Max))
	default:
		return ""
	}
}

// RegexLiteral renders a pattern as a JavaScript regular-expression literal
func RegexLiteral(pattern string) string {
	var b strings.Builder
	b.WriteByte('/')
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('/')
	return b.String()
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
