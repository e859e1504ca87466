package tinybase

import (
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// Test plan:
// 1. Issue example produces exactly title/status/priority with the right defaults
// 2. Identity field is omitted, declaration order kept
// 3. Nested and templated modes carry identical cells in identical order
// 4. Descriptors for unknown records/fields are rejected
// 5. Output is byte-identical across runs

const issueSource = `export enum IssueState { Backlog = "Backlog", Todo = "Todo" }
export type Issue = {
  id: string;
  title: string;
  status: IssueState;
  priority: number;
};
export type Project = {
  id: string;
  name: string;
  archived?: boolean;
};
`

func build(t *testing.T, source string) (*schema.Model, mapper.Descriptors) {
	t.Helper()
	model, err := schema.Extract(source)
	require.NoError(t, err)
	return model, mapper.MapModel(model, zerolog.Nop())
}

func TestBuild_IssueExample(t *testing.T) {
	model, descriptors := build(t, issueSource)

	s, err := Build(model, descriptors)
	require.NoError(t, err)

	tables := s.AsMap()
	assert.Equal(t, map[string]Cell{
		"title":    {Name: "title", Type: CellString, Default: ""},
		"status":   {Name: "status", Type: CellString, Default: "Backlog"},
		"priority": {Name: "priority", Type: CellNumber, Default: float64(0)},
	}, tables["issue"])

	project, ok := s.Table("project")
	require.True(t, ok)
	assert.Equal(t, "Project", project.Record)
	require.Len(t, project.Cells, 2)
	assert.Equal(t, "name", project.Cells[0].Name)
	assert.Equal(t, Cell{Name: "archived", Type: CellBoolean, Default: false}, project.Cells[1])

	_, ok = s.Table("Issue")
	assert.False(t, ok)
}

func TestBuild_FieldOrderWithoutIdentity(t *testing.T) {
	model, descriptors := build(t, issueSource)

	s, err := Build(model, descriptors)
	require.NoError(t, err)

	for _, table := range s.Tables() {
		record := model.Records[table.Record]
		var declared []string
		for _, f := range record.Fields {
			if f.Name != "id" {
				declared = append(declared, f.Name)
			}
		}
		var emitted []string
		for _, c := range table.Cells {
			emitted = append(emitted, c.Name)
		}
		assert.Equal(t, declared, emitted, table.Name)
	}
}

func TestBuild_EnumDefaultIsFirstValue(t *testing.T) {
	model, descriptors := build(t, issueSource)

	// A declared default on the descriptor does not survive enum erasure
	fields := descriptors["Issue"]
	for i := range fields {
		if fields[i].Name == "status" {
			fields[i].Default = "Todo"
		}
	}

	s, err := Build(model, descriptors)
	require.NoError(t, err)
	assert.Equal(t, "Backlog", s.AsMap()["issue"]["status"].Default)
}

func TestBuild_RejectsUnknownRecordsAndFields(t *testing.T) {
	model, descriptors := build(t, issueSource)

	t.Run("unknown record", func(t *testing.T) {
		d := mapper.Descriptors{}
		for k, v := range descriptors {
			d[k] = v
		}
		d["Ghost"] = []mapper.FieldDescriptor{{Name: "x", Type: mapper.SemanticType{Kind: mapper.String}}}
		_, err := Build(model, d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown record "Ghost"`)
	})

	t.Run("unknown field", func(t *testing.T) {
		d := mapper.Descriptors{}
		for k, v := range descriptors {
			d[k] = v
		}
		d["Project"] = append(append([]mapper.FieldDescriptor{}, d["Project"]...), mapper.FieldDescriptor{Name: "ghost"})
		_, err := Build(model, d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"ghost" is not a field of record "Project"`)
	})

	t.Run("missing record", func(t *testing.T) {
		d := mapper.Descriptors{"Issue": descriptors["Issue"]}
		_, err := Build(model, d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `record "Project" has no descriptors`)
	})
}

func TestBuild_TableNameCollision(t *testing.T) {
	model, descriptors := build(t, "export type Issue = {\n  a: string;\n};\nexport type ISSUE = {\n  b: string;\n};")
	_, err := Build(model, descriptors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `both map to table "issue"`)
}

func TestGenerator_NestedMode(t *testing.T) {
	model, descriptors := build(t, issueSource)

	code, err := NewGenerator("").Generate(model, descriptors)
	require.NoError(t, err)

	expected := `// Code generated by schemagen. DO NOT EDIT.

export const tablesSchema = {
  issue: {
    title: { type: "string", default: "" },
    status: { type: "string", default: "Backlog" },
    priority: { type: "number", default: 0 },
  },
  project: {
    name: { type: "string", default: "" },
    archived: { type: "boolean", default: false },
  },
} as const;

export type TablesSchema = typeof tablesSchema;

export function createTablesSchema(): TablesSchema {
  return tablesSchema;
}
`
	assert.Equal(t, expected, string(code))
}

func TestGenerator_TemplatedMode(t *testing.T) {
	model, descriptors := build(t, issueSource)

	code, err := NewGenerator("storeSchema").WithMode(ModeTemplated).Generate(model, descriptors)
	require.NoError(t, err)

	result := string(code)
	assert.Contains(t, result, "export const issueTable = {\n  title: { type: \"string\", default: \"\" },")
	assert.Contains(t, result, "export const projectTable = {")
	assert.Contains(t, result, "export const storeSchema = {\n  issue: issueTable,\n  project: projectTable,\n} as const;")
	assert.Contains(t, result, "export type StoreSchema = typeof storeSchema;")
	assert.NotContains(t, result, "id:")
}

// cellLines extracts every rendered cell in order, independent of layout
var cellLineRegex = regexp.MustCompile(`(?m)^\s*(\w+: \{ type: "[a-z]+", default: .* \}),$`)

func cellsOf(code string) []string {
	var out []string
	for _, m := range cellLineRegex.FindAllStringSubmatch(code, -1) {
		out = append(out, m[1])
	}
	return out
}

func TestGenerator_ModesAgree(t *testing.T) {
	// Test: both modes carry the same cells in the same order, table by table
	model, descriptors := build(t, issueSource)

	nested, err := NewGenerator("").WithMode(ModeNested).Generate(model, descriptors)
	require.NoError(t, err)
	templated, err := NewGenerator("").WithMode(ModeTemplated).Generate(model, descriptors)
	require.NoError(t, err)

	nestedCells := cellsOf(string(nested))
	assert.Len(t, nestedCells, 5)
	assert.Equal(t, nestedCells, cellsOf(string(templated)))

	// Table references in the templated output follow the nested table order
	nestedTables := regexp.MustCompile(`(?m)^  (\w+): \{$`).FindAllStringSubmatch(string(nested), -1)
	var order []string
	for _, m := range nestedTables {
		order = append(order, m[1])
	}
	assert.Equal(t, []string{"issue", "project"}, order)
	assert.True(t, strings.Index(string(templated), "issue: issueTable") < strings.Index(string(templated), "project: projectTable"))
}

func TestGenerator_Deterministic(t *testing.T) {
	for _, mode := range []Mode{ModeNested, ModeTemplated} {
		model, descriptors := build(t, issueSource)
		first, err := NewGenerator("").WithMode(mode).Generate(model, descriptors)
		require.NoError(t, err)

		model, descriptors = build(t, issueSource)
		second, err := NewGenerator("").WithMode(mode).Generate(model, descriptors)
		require.NoError(t, err)

		assert.Equal(t, first, second, string(mode))
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeNested, mode)

	mode, err = ParseMode("templated")
	require.NoError(t, err)
	assert.Equal(t, ModeTemplated, mode)

	_, err = ParseMode("ast")
	assert.Error(t, err)
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, `""`, Literal(""))
	assert.Equal(t, `"say \"hi\""`, Literal(`say "hi"`))
	assert.Equal(t, "0", Literal(float64(0)))
	assert.Equal(t, "2.5", Literal(2.5))
	assert.Equal(t, "false", Literal(false))
}
