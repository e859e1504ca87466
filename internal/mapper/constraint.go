package mapper

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// DateTimePattern is the ISO-8601 date-time pattern applied to date/time fields
const DateTimePattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`

// ConstraintKind names a constraint
type ConstraintKind string

const (
	KindMinLength ConstraintKind = "minLength"
	KindMaxLength ConstraintKind = "maxLength"
	KindPattern   ConstraintKind = "pattern"
	KindRange     ConstraintKind = "numericRange"
)

// rank gives the canonical emission order
var rank = map[ConstraintKind]int{
	KindMinLength: 0,
	KindMaxLength: 1,
	KindPattern:   2,
	KindRange:     3,
}

// Constraint is additive metadata on a field; it never changes type or default
type Constraint struct {
	Kind    ConstraintKind `json:"kind"`
	Length  int            `json:"length,omitempty"`
	Pattern string         `json:"pattern,omitempty"`
	Min     float64        `json:"min"`
	Max     float64        `json:"max"`
}

// MarshalJSON writes min and max for numeric ranges only, including zero bounds
func (c Constraint) MarshalJSON() ([]byte, error) {
	if c.Kind == KindRange {
		type plain Constraint
		return json.Marshal(plain(c))
	}
	return json.Marshal(struct {
		Kind    ConstraintKind `json:"kind"`
		Length  int            `json:"length,omitempty"`
		Pattern string         `json:"pattern,omitempty"`
	}{c.Kind, c.Length, c.Pattern})
}

// MinLength constrains the minimum string length
func MinLength(n int) Constraint {
	return Constraint{Kind: KindMinLength, Length: n}
}

// MaxLength constrains the maximum string length
func MaxLength(n int) Constraint {
	return Constraint{Kind: KindMaxLength, Length: n}
}

// Pattern constrains a string to match a regular expression
func Pattern(expr string) Constraint {
	return Constraint{Kind: KindPattern, Pattern: expr}
}

// Range constrains a number to [min, max] inclusive
func Range(min, max float64) Constraint {
	return Constraint{Kind: KindRange, Min: min, Max: max}
}

func (c Constraint) String() string {
	switch c.Kind {
	case KindMinLength, KindMaxLength:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Length)
	case KindPattern:
		return fmt.Sprintf("%s(%s)", c.Kind, strconv.Quote(c.Pattern))
	case KindRange:
		return fmt.Sprintf("%s(%s, %s)", c.Kind, FormatNumber(c.Min), FormatNumber(c.Max))
	default:
		return string(c.Kind)
	}
}

// FormatNumber renders a number the shortest way, e.g. 0, 4 or 2.5
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func sortCanonical(constraints []Constraint) {
	sort.SliceStable(constraints, func(i, j int) bool {
		return rank[constraints[i].Kind] < rank[constraints[j].Kind]
	})
}
