package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan:
// 1. Enum blocks keep value order and reject duplicate keys/values
// 2. Record blocks keep field order, optional markers and trailing separators
// 3. Blank and comment-only lines are ignored
// 4. Forward references to enums declared later resolve
// 5. Unresolved references, duplicate declarations and malformed lines fail
// 6. @default comments are parsed and checked against the field type

const issueTrackerSource = `// Generated by the IDL compiler

export type Issue = {
  id: string;
  title: string;
  // free text
  description?: string;
  status: IssueState;
  priority: number;
  assignee?: string;
  projectId: string;
  createdAt: utcDateTime;
  updatedAt: utcDateTime;
};

export enum IssueState {
  Backlog = "Backlog",
  Todo = "Todo",
  InProgress = "InProgress",
  Done = "Done",
  Cancelled = "Cancelled",
}

export type Project = {
  id: string;
  name: string;
  description?: string;
};
`

func TestExtract_IssueTracker(t *testing.T) {
	// Test: full source with a forward enum reference
	model, err := Extract(issueTrackerSource)
	require.NoError(t, err)

	assert.Equal(t, []string{"IssueState"}, model.EnumOrder)
	assert.Equal(t, []string{"Issue", "Project"}, model.RecordOrder)

	state := model.Enums["IssueState"]
	assert.Equal(t, []string{"Backlog", "Todo", "InProgress", "Done", "Cancelled"}, state.Strings())
	assert.Equal(t, "Backlog", state.First())

	issue := model.Records["Issue"]
	names := make([]string, 0, len(issue.Fields))
	for _, f := range issue.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "title", "description", "status", "priority", "assignee", "projectId", "createdAt", "updatedAt"}, names)

	desc, ok := issue.Field("description")
	require.True(t, ok)
	assert.True(t, desc.Optional)
	assert.Equal(t, "string", desc.RawType)

	status, ok := issue.Field("status")
	require.True(t, ok)
	assert.False(t, status.Optional)
	assert.Equal(t, "IssueState", status.RawType)
	assert.Equal(t, 8, status.Line)
}

func TestExtract_TrailingSeparators(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantType string
		optional bool
	}{
		{name: "semicolon", line: "title: string;", wantName: "title", wantType: "string"},
		{name: "comma", line: "title: string,", wantName: "title", wantType: "string"},
		{name: "no terminator", line: "title: string", wantName: "title", wantType: "string"},
		{name: "optional", line: "assignee?: string;", wantName: "assignee", wantType: "string", optional: true},
		{name: "readonly", line: "readonly count: number;", wantName: "count", wantType: "number"},
		{name: "union type", line: `kind: "a" | "b";`, wantName: "kind", wantType: `"a" | "b"`},
		{name: "trailing comment", line: "count: number; // how many", wantName: "count", wantType: "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Extract("export type Thing = {\n  " + tt.line + "\n};\n")
			require.NoError(t, err)

			fields := model.Records["Thing"].Fields
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantName, fields[0].Name)
			assert.Equal(t, tt.wantType, fields[0].RawType)
			assert.Equal(t, tt.optional, fields[0].Optional)
		})
	}
}

func TestExtract_SingleLineBlocks(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		fields []string
		types  []string
	}{
		{
			name:   "semicolons",
			input:  "export type Pixel = { color: string; x: number; y: number }",
			fields: []string{"color", "x", "y"},
			types:  []string{"string", "number", "number"},
		},
		{
			name:   "commas",
			input:  "export type P = { a: string, b: number }\n",
			fields: []string{"a", "b"},
			types:  []string{"string", "number"},
		},
		{
			name:   "mixed separators with optional fields",
			input:  "export type P = { a?: string, b: boolean; c?: number, }",
			fields: []string{"a", "b", "c"},
			types:  []string{"string", "boolean", "number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Extract(tt.input)
			require.NoError(t, err)

			var names, types []string
			for _, f := range model.Records[model.RecordOrder[0]].Fields {
				names = append(names, f.Name)
				types = append(types, f.RawType)
			}
			assert.Equal(t, tt.fields, names)
			assert.Equal(t, tt.types, types)
		})
	}

	t.Run("single-line enum", func(t *testing.T) {
		model, err := Extract(`export enum Color { Red = "red", Green = 'green' }
export type Pixel = { color: Color; x: number }`)
		require.NoError(t, err)
		assert.Equal(t, []string{"red", "green"}, model.Enums["Color"].Strings())
	})
}

func TestExtract_TrailingLineComments(t *testing.T) {
	// Test: trailing comments on enum members and fields, braces inside comments,
	// and // inside quoted values
	input := `export enum Site {
  Home = "https://example.com", // landing page
  Docs = "docs", // see { docs }
}
export type Page = { // a page }
  site: Site; // @default "docs"
  path: string; // e.g. /a/{id}
};
`
	model, err := Extract(input)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com", "docs"}, model.Enums["Site"].Strings())

	page := model.Records["Page"]
	require.Len(t, page.Fields, 2)
	assert.Equal(t, "site", page.Fields[0].Name)
	require.NotNil(t, page.Fields[0].Default)
	assert.Equal(t, "docs", page.Fields[0].Default.Value())
	assert.Equal(t, "path", page.Fields[1].Name)
	assert.Equal(t, "string", page.Fields[1].RawType)
	assert.Equal(t, 7, page.Fields[1].Line)
}

func TestExtract_InterfaceBlocks(t *testing.T) {
	model, err := Extract("export interface User {\n  id: string;\n  active: boolean;\n}\n")
	require.NoError(t, err)
	require.Contains(t, model.Records, "User")
	assert.Len(t, model.Records["User"].Fields, 2)
}

func TestExtract_Defaults(t *testing.T) {
	model, err := Extract(`export enum Level { Low = "low", High = "high" }
export type Task = {
  title: string; // @default "untitled"
  level: Level; // @default "high"
  weight: number; // @default 2.5
  done: boolean; // @default true
};`)
	require.NoError(t, err)

	task := model.Records["Task"]
	expected := map[string]any{"title": "untitled", "level": "high", "weight": 2.5, "done": true}
	for _, f := range task.Fields {
		require.NotNil(t, f.Default, f.Name)
		assert.Equal(t, expected[f.Name], f.Default.Value(), f.Name)
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind error
		contains string
	}{
		{
			name:     "unresolved enum",
			input:    "export type Issue = {\n  status: IssueStatus;\n};",
			wantKind: ErrUnresolvedType,
			contains: `undeclared enum "IssueStatus"`,
		},
		{
			name:     "record reference",
			input:    "export type A = {\n  id: string;\n};\nexport type B = {\n  a: A;\n};",
			wantKind: ErrUnresolvedType,
			contains: "only enums may be referenced",
		},
		{
			name:     "duplicate record",
			input:    "export type A = {\n  id: string;\n};\nexport type A = {\n  id: string;\n};",
			wantKind: ErrDuplicateDecl,
		},
		{
			name:     "enum and record share a name",
			input:    "export enum A { X = \"x\" }\nexport type A = {\n  id: string;\n};",
			wantKind: ErrDuplicateDecl,
		},
		{
			name:     "duplicate enum key",
			input:    "export enum A { X = \"x\", X = \"y\" }\nexport type B = {\n  a: A;\n};",
			wantKind: ErrDuplicateEnumKey,
		},
		{
			name:     "duplicate enum value",
			input:    "export enum A { X = \"x\", Y = \"x\" }\nexport type B = {\n  a: A;\n};",
			wantKind: ErrDuplicateEnumKey,
		},
		{
			name:     "numeric enum member",
			input:    "export enum A { X = 1 }\nexport type B = {\n  a: A;\n};",
			wantKind: ErrMalformedField,
		},
		{
			name:     "duplicate field",
			input:    "export type A = {\n  name: string;\n  name: string;\n};",
			wantKind: ErrDuplicateField,
		},
		{
			name:     "untokenizable line",
			input:    "export type A = {\n  name string;\n};",
			wantKind: ErrMalformedField,
			contains: "line 2",
		},
		{
			name:     "nested object",
			input:    "export type A = {\n  meta: { a: string };\n};",
			wantKind: ErrMalformedField,
		},
		{
			name:     "default of wrong type",
			input:    "export type A = {\n  count: number; // @default \"x\"\n};",
			wantKind: ErrInvalidDefault,
		},
		{
			name:     "default outside enum",
			input:    "export enum S { A = \"a\" }\nexport type A = {\n  s: S; // @default \"b\"\n};",
			wantKind: ErrInvalidDefault,
		},
		{
			name:     "infinite default",
			input:    "export type A = {\n  n: number; // @default Infinity\n};",
			wantKind: ErrInvalidDefault,
			contains: "not a finite number",
		},
		{
			name:     "negative infinite default",
			input:    "export type A = {\n  n: number; // @default -Inf\n};",
			wantKind: ErrInvalidDefault,
		},
		{
			name:     "NaN default",
			input:    "export type A = {\n  n: number; // @default NaN\n};",
			wantKind: ErrInvalidDefault,
		},
		{
			name:     "no records",
			input:    "export enum S { A = \"a\" }",
			wantKind: ErrInvalidSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Extract(tt.input)
			require.Error(t, err)
			assert.Nil(t, model)

			var extractionErr *ExtractionError
			require.True(t, errors.As(err, &extractionErr))
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	enums := map[string]EnumDecl{"IssueState": {Name: "IssueState"}, "numberFormat": {Name: "numberFormat"}}

	tests := []struct {
		raw  string
		want TypeClass
	}{
		{"string", ClassString},
		{"number", ClassNumber},
		{"int32", ClassNumber},
		{"number[]", ClassNumber},
		{"boolean", ClassBoolean},
		{"IssueState", ClassEnum},
		{"numberFormat", ClassEnum},
		{"utcDateTime", ClassDateTime},
		{"Date", ClassDateTime},
		{"string[]", ClassUnsupported},
		{"any", ClassUnsupported},
		{`"a" | "b"`, ClassUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw, enums))
		})
	}
}
