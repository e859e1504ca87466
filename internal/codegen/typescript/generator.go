package typescript

import (
	"strconv"

	"github.com/okra-platform/schemagen/internal/codegen/writer"
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// Generator renders the intermediate model back as canonical TypeScript
// declarations: one enum block per enum and one flat record block per record.
// The output is accepted by schema.Extract and extracts to the same model, which
// makes it the normal form for sources converted from GraphQL.
type Generator struct {
	namespace  string
	interfaces bool // If true, emit `export interface` instead of `export type`
}

// NewGenerator creates a new TypeScript declaration generator. A non-empty
// namespace wraps every declaration in `export namespace <name> { ... }`.
func NewGenerator(namespace string) *Generator {
	return &Generator{
		namespace:  namespace,
		interfaces: false,
	}
}

// WithInterfaces configures the generator to produce interfaces instead of type aliases
func (g *Generator) WithInterfaces(useInterfaces bool) *Generator {
	g.interfaces = useInterfaces
	return g
}

// Name returns the name of the target
func (g *Generator) Name() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// Generate renders enum and record declarations in declaration order.
// Descriptors are not needed; the declarations carry raw types.
func (g *Generator) Generate(model *schema.Model, _ mapper.Descriptors) ([]byte, error) {
	w := writer.NewWriter("  ") // TypeScript typically uses 2 spaces

	w.WriteComment(writer.Header)
	w.BlankLine()

	if g.namespace != "" {
		w.WriteLinef("export namespace %s {", g.namespace)
		w.Indent()
	}

	for _, enum := range model.EnumList() {
		g.generateEnum(w, enum)
		w.BlankLine()
	}

	records := model.RecordList()
	for i, record := range records {
		g.generateRecord(w, record)
		if i < len(records)-1 {
			w.BlankLine()
		}
	}

	if g.namespace != "" {
		w.Dedent()
		w.WriteLine("}")
	}

	return w.Bytes(), nil
}

// generateEnum generates a string enum and its type guard
func (g *Generator) generateEnum(w *writer.Writer, enum schema.EnumDecl) {
	w.WriteBlock("export enum "+enum.Name+" {", "}", func() {
		for _, v := range enum.Values {
			w.WriteLinef("%s = %s,", v.Key, quote(v.Value))
		}
	})

	w.BlankLine()
	w.WriteBlock("export function is"+enum.Name+"(value: unknown): value is "+enum.Name+" {", "}", func() {
		w.WriteLinef("return Object.values(%s).includes(value as %s);", enum.Name, enum.Name)
	})
}

// generateRecord generates a flat type alias or interface; declared defaults
// become trailing @default comments
func (g *Generator) generateRecord(w *writer.Writer, record schema.RecordDecl) {
	opener := "export type " + record.Name + " = {"
	closer := "};"
	if g.interfaces {
		opener = "export interface " + record.Name + " {"
		closer = "}"
	}

	w.WriteBlock(opener, closer, func() {
		for _, field := range record.Fields {
			optional := ""
			if field.Optional {
				optional = "?"
			}
			if field.Default != nil {
				w.WriteLinef("%s%s: %s; // @default %s", field.Name, optional, field.RawType, literal(*field.Default))
				continue
			}
			w.WriteLinef("%s%s: %s;", field.Name, optional, field.RawType)
		}
	})
}

func literal(l schema.Literal) string {
	switch l.Kind {
	case schema.LiteralNumber:
		return mapper.FormatNumber(l.Number)
	case schema.LiteralBoolean:
		return strconv.FormatBool(l.Bool)
	default:
		return quote(l.String)
	}
}

func quote(s string) string {
	return strconv.Quote(s)
}
