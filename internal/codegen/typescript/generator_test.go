package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/schemagen/internal/schema"
)

// Test plan:
// 1. Declarations render in canonical form
// 2. Output extracts back to the same model, from TypeScript and GraphQL sources
// 3. Namespaces and interfaces still extract
// 4. Defaults survive as @default comments

const issueSource = `export enum IssueState {
  Backlog = "Backlog",
  Todo = "Todo"
}

export type Issue = {
  id: string;
  title: string;
  description?: string;
  status: IssueState; // @default "Todo"
  priority: number; // @default 2
  archived?: boolean; // @default false
}
`

func extract(t *testing.T, source string) *schema.Model {
	t.Helper()
	model, err := schema.Extract(source)
	require.NoError(t, err)
	return model
}

// stripLines drops source line numbers, which legitimately differ between forms
func stripLines(m *schema.Model) *schema.Model {
	for name, r := range m.Records {
		fields := make([]schema.FieldDecl, len(r.Fields))
		for i, f := range r.Fields {
			f.Line = 0
			fields[i] = f
		}
		r.Fields = fields
		m.Records[name] = r
	}
	return m
}

func TestGenerator_Canonical(t *testing.T) {
	code, err := NewGenerator("").Generate(extract(t, issueSource), nil)
	require.NoError(t, err)

	expected := `// Code generated by schemagen. DO NOT EDIT.

export enum IssueState {
  Backlog = "Backlog",
  Todo = "Todo",
}

export function isIssueState(value: unknown): value is IssueState {
  return Object.values(IssueState).includes(value as IssueState);
}

export type Issue = {
  id: string;
  title: string;
  description?: string;
  status: IssueState; // @default "Todo"
  priority: number; // @default 2
  archived?: boolean; // @default false
};
`
	assert.Equal(t, expected, string(code))
}

func TestGenerator_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		gen  *Generator
	}{
		{"type aliases", NewGenerator("")},
		{"interfaces", NewGenerator("").WithInterfaces(true)},
		{"namespace", NewGenerator("Models")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := extract(t, issueSource)
			code, err := tt.gen.Generate(original, nil)
			require.NoError(t, err)

			again := extract(t, string(code))
			assert.Equal(t, stripLines(original), stripLines(again))
		})
	}
}

func TestGenerator_FromGraphQL(t *testing.T) {
	sdl := `enum Priority { LOW HIGH }
type Task {
  id: ID!
  label: String!
  level: Priority!
  due: DateTime
}`
	fromGraphQL, err := schema.ExtractGraphQL(sdl)
	require.NoError(t, err)

	code, err := NewGenerator("").Generate(fromGraphQL, nil)
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, `LOW = "LOW",`)
	assert.Contains(t, result, "  due?: utcDateTime;\n")

	assert.Equal(t, stripLines(fromGraphQL), stripLines(extract(t, result)))
}

func TestGenerator_Interfaces(t *testing.T) {
	code, err := NewGenerator("").WithInterfaces(true).Generate(extract(t, issueSource), nil)
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "export interface Issue {")
	assert.NotContains(t, result, "export type Issue = {")
}

func TestGenerator_Metadata(t *testing.T) {
	g := NewGenerator("")
	assert.Equal(t, "typescript", g.Name())
	assert.Equal(t, ".ts", g.FileExtension())
}
