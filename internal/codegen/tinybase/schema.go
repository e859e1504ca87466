// Package tinybase emits the table schema consumed by the reactive store.
package tinybase

import (
	"fmt"
	"strings"

	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// CellType is the store cell type
type CellType string

const (
	CellString  CellType = "string"
	CellNumber  CellType = "number"
	CellBoolean CellType = "boolean"
)

// Cell is the store definition of one field
type Cell struct {
	Name    string   `json:"-"`
	Type    CellType `json:"type"`
	Default any      `json:"default"`
}

// Table is the store definition of one record
type Table struct {
	Name   string `json:"-"`
	Record string `json:"-"`
	Cells  []Cell `json:"-"`
}

// Schema is the immutable table-schema artifact. Consumers receive it from
// Build and pass it to their store initialization explicitly.
type Schema struct {
	tables []Table
	index  map[string]int
}

// Build derives the table schema. Tables are keyed by lower-cased record name and
// keep field declaration order; the identity field is omitted and enum references
// are erased to plain strings defaulting to the enum's first value.
func Build(model *schema.Model, descriptors mapper.Descriptors) (*Schema, error) {
	for name := range descriptors {
		if _, ok := model.Records[name]; !ok {
			return nil, fmt.Errorf("descriptors reference unknown record %q", name)
		}
	}

	s := &Schema{index: map[string]int{}}
	for _, record := range model.RecordList() {
		fields, ok := descriptors[record.Name]
		if !ok {
			return nil, fmt.Errorf("record %q has no descriptors", record.Name)
		}

		table := Table{
			Name:   strings.ToLower(record.Name),
			Record: record.Name,
			Cells:  []Cell{},
		}
		if _, dup := s.index[table.Name]; dup {
			return nil, fmt.Errorf("records %q and %q both map to table %q", s.tables[s.index[table.Name]].Record, record.Name, table.Name)
		}

		for _, d := range fields {
			if _, ok := record.Field(d.Name); !ok {
				return nil, fmt.Errorf("descriptor %q is not a field of record %q", d.Name, record.Name)
			}
			if d.Name == schema.IdentityField {
				continue
			}
			cell, err := cellFor(d, model)
			if err != nil {
				return nil, fmt.Errorf("record %q: %w", record.Name, err)
			}
			table.Cells = append(table.Cells, cell)
		}

		s.index[table.Name] = len(s.tables)
		s.tables = append(s.tables, table)
	}

	return s, nil
}

func cellFor(d mapper.FieldDescriptor, model *schema.Model) (Cell, error) {
	cell := Cell{Name: d.Name, Default: d.Default}

	switch d.Type.Kind {
	case mapper.Number:
		cell.Type = CellNumber
	case mapper.Boolean:
		cell.Type = CellBoolean
	case mapper.EnumRef:
		enum, ok := model.Enums[d.Type.Enum]
		if !ok {
			return Cell{}, fmt.Errorf("field %q references unknown enum %q", d.Name, d.Type.Enum)
		}
		// Enum identity is erased: the store only knows strings
		cell.Type = CellString
		cell.Default = enum.First()
	default:
		cell.Type = CellString
	}

	return cell, nil
}

// Tables returns the tables in declaration order
func (s *Schema) Tables() []Table {
	out := make([]Table, len(s.tables))
	for i, t := range s.tables {
		out[i] = Table{Name: t.Name, Record: t.Record, Cells: append([]Cell(nil), t.Cells...)}
	}
	return out
}

// Table looks up a table by its lower-cased name
func (s *Schema) Table(name string) (Table, bool) {
	i, ok := s.index[name]
	if !ok {
		return Table{}, false
	}
	t := s.tables[i]
	return Table{Name: t.Name, Record: t.Record, Cells: append([]Cell(nil), t.Cells...)}, true
}

// AsMap returns the plain-data view consumers depend on:
// table name -> field name -> {type, default}
func (s *Schema) AsMap() map[string]map[string]Cell {
	out := make(map[string]map[string]Cell, len(s.tables))
	for _, t := range s.tables {
		cells := make(map[string]Cell, len(t.Cells))
		for _, c := range t.Cells {
			cells[c.Name] = c
		}
		out[t.Name] = cells
	}
	return out
}
