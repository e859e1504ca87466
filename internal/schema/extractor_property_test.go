package schema

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan for property-based testing:
// 1. Randomly generated declarations extract back to the model they were rendered from
// 2. Extraction is deterministic across repeated runs
// 3. Removing a referenced enum always fails with ErrUnresolvedType

func TestExtract_PropertyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := range 100 {
		t.Run(fmt.Sprintf("random_model_%d", i), func(t *testing.T) {
			want := generateRandomModel(rng)
			source := renderTypeScript(want, rng.Intn(2) == 0)

			got, err := Extract(source)
			require.NoError(t, err, source)

			assert.Equal(t, want.EnumOrder, got.EnumOrder)
			assert.Equal(t, want.RecordOrder, got.RecordOrder)
			assert.Equal(t, want.Enums, got.Enums)
			for _, name := range want.RecordOrder {
				wantFields := want.Records[name].Fields
				gotFields := got.Records[name].Fields
				require.Len(t, gotFields, len(wantFields))
				for j := range wantFields {
					assert.Equal(t, wantFields[j].Name, gotFields[j].Name)
					assert.Equal(t, wantFields[j].RawType, gotFields[j].RawType)
					assert.Equal(t, wantFields[j].Optional, gotFields[j].Optional)
				}
			}

			again, err := Extract(source)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestExtract_PropertyMissingEnum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := range 50 {
		model := generateRandomModel(rng)
		if len(model.EnumOrder) == 0 {
			continue
		}
		source := renderTypeScript(model, false)

		// Force a reference to the first enum, then drop its declaration
		enumName := model.EnumOrder[0]
		source += fmt.Sprintf("\nexport type Ref%d = {\n  ref: %s;\n};\n", i, enumName)
		block := renderEnum(model.Enums[enumName])
		source = strings.Replace(source, block, "", 1)

		_, err := Extract(source)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnresolvedType)
	}
}

func generateRandomModel(rng *rand.Rand) *Model {
	m := newModel()

	for i := range rng.Intn(3) {
		e := EnumDecl{Name: fmt.Sprintf("Enum%d", i)}
		for j := range 1 + rng.Intn(4) {
			e.Values = append(e.Values, EnumValue{Key: fmt.Sprintf("K%d", j), Value: fmt.Sprintf("v%d_%d", i, j)})
		}
		m.Enums[e.Name] = e
		m.EnumOrder = append(m.EnumOrder, e.Name)
	}

	types := []string{"string", "number", "boolean", "utcDateTime", "int32"}
	types = append(types, m.EnumOrder...)

	for i := range 1 + rng.Intn(3) {
		r := RecordDecl{Name: fmt.Sprintf("Record%d", i)}
		for j := range 1 + rng.Intn(6) {
			r.Fields = append(r.Fields, FieldDecl{
				Name:     fmt.Sprintf("field%d", j),
				RawType:  types[rng.Intn(len(types))],
				Optional: rng.Intn(3) == 0,
			})
		}
		m.Records[r.Name] = r
		m.RecordOrder = append(m.RecordOrder, r.Name)
	}

	return m
}

func renderEnum(e EnumDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "export enum %s {\n", e.Name)
	for _, v := range e.Values {
		fmt.Fprintf(&sb, "  %s = %q,\n", v.Key, v.Value)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// renderTypeScript renders a model the way the IDL compiler would, optionally
// placing records before the enums they reference
func renderTypeScript(m *Model, recordsFirst bool) string {
	var enums, records strings.Builder
	for _, name := range m.EnumOrder {
		enums.WriteString(renderEnum(m.Enums[name]))
		enums.WriteString("\n")
	}
	for _, name := range m.RecordOrder {
		fmt.Fprintf(&records, "export type %s = {\n", name)
		records.WriteString("  // fields\n\n")
		for _, f := range m.Records[name].Fields {
			opt := ""
			if f.Optional {
				opt = "?"
			}
			fmt.Fprintf(&records, "  %s%s: %s;\n", f.Name, opt, f.RawType)
		}
		records.WriteString("};\n\n")
	}

	if recordsFirst {
		return records.String() + enums.String()
	}
	return enums.String() + records.String()
}
