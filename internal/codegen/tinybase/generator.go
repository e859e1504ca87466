package tinybase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okra-platform/schemagen/internal/codegen/writer"
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// Mode selects how tables are laid out in the artifact
type Mode string

const (
	// ModeNested inlines every table in one literal
	ModeNested Mode = "nested"

	// ModeTemplated renders each table as its own named literal and references
	// them by name from the combining literal
	ModeTemplated Mode = "templated"
)

// DefaultExportName is the name of the exported schema constant
const DefaultExportName = "tablesSchema"

// ParseMode parses a mode name; empty selects ModeNested
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNested:
		return ModeNested, nil
	case ModeTemplated:
		return ModeTemplated, nil
	default:
		return "", fmt.Errorf("unknown tinybase mode %q (supported: nested, templated)", s)
	}
}

// Generator renders the table schema as TypeScript
type Generator struct {
	exportName string
	mode       Mode
}

// NewGenerator creates a new table-schema generator
func NewGenerator(exportName string) *Generator {
	if exportName == "" {
		exportName = DefaultExportName
	}
	return &Generator{
		exportName: exportName,
		mode:       ModeNested,
	}
}

// WithMode configures the rendering strategy
func (g *Generator) WithMode(mode Mode) *Generator {
	g.mode = mode
	return g
}

// Name returns the name of the target
func (g *Generator) Name() string {
	return "tinybase"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// Generate builds the table schema and renders it
func (g *Generator) Generate(model *schema.Model, descriptors mapper.Descriptors) ([]byte, error) {
	s, err := Build(model, descriptors)
	if err != nil {
		return nil, err
	}
	return g.Render(s), nil
}

// Render renders a built schema with the configured mode. Both modes share the
// cell renderer, so they carry identical table content.
func (g *Generator) Render(s *Schema) []byte {
	w := writer.NewWriter("  ")

	w.WriteComment(writer.Header)
	w.BlankLine()

	switch g.mode {
	case ModeTemplated:
		refs := make([]string, 0, len(s.tables))
		for _, t := range s.tables {
			w.WriteBlock(fmt.Sprintf("export const %s = {", tableConstName(t)), "} as const;", func() {
				writeCells(w, t)
			})
			w.BlankLine()
			refs = append(refs, fmt.Sprintf("%s: %s", t.Name, tableConstName(t)))
		}
		w.WriteList(fmt.Sprintf("export const %s = {", g.exportName), "} as const;", refs)
	default:
		w.WriteBlock(fmt.Sprintf("export const %s = {", g.exportName), "} as const;", func() {
			for _, t := range s.tables {
				w.WriteBlock(t.Name+": {", "},", func() {
					writeCells(w, t)
				})
			}
		})
	}

	typeName := strings.ToUpper(g.exportName[:1]) + g.exportName[1:]
	w.BlankLine()
	w.WriteLinef("export type %s = typeof %s;", typeName, g.exportName)
	w.BlankLine()
	w.WriteBlock(fmt.Sprintf("export function create%s(): %s {", typeName, typeName), "}", func() {
		w.WriteLinef("return %s;", g.exportName)
	})

	return w.Bytes()
}

func writeCells(w *writer.Writer, t Table) {
	for _, c := range t.Cells {
		w.WriteLine(renderCell(c))
	}
}

// renderCell renders `name: { type: "...", default: ... },`
func renderCell(c Cell) string {
	return fmt.Sprintf("%s: { type: %q, default: %s },", c.Name, string(c.Type), Literal(c.Default))
}

func tableConstName(t Table) string {
	return t.Name + "Table"
}

// Literal renders a default value as a TypeScript literal
func Literal(v any) string {
	switch val := v.(type) {
	case string:
		b, _ := json.Marshal(val)
		return string(b)
	case float64:
		return mapper.FormatNumber(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "undefined"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "undefined"
		}
		return string(b)
	}
}
