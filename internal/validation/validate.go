package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf16"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/okra-platform/schemagen/internal/mapper"
)

// Validate checks a pre-typed value against the record. Every violated
// constraint is reported; unknown keys are ignored.
func (r *RecordValidator) Validate(value map[string]any) error {
	if value == nil {
		return &ValidationError{Record: r.Name, Issues: []Issue{{Constraint: "type", Message: "expected an object, got null"}}}
	}

	var issues []Issue
	for _, f := range r.Fields {
		v, present := value[f.Name]
		if !present {
			if !f.Optional {
				issues = append(issues, Issue{Path: f.Name, Constraint: "required", Message: "is missing"})
			}
			continue
		}
		issues = append(issues, f.check(v)...)
	}

	if len(issues) > 0 {
		return &ValidationError{Record: r.Name, Issues: issues}
	}
	return nil
}

// Parse decodes untyped external input and validates it with the same rules as
// Validate. Accepted inputs are maps, JSON documents as []byte or string,
// *structpb.Struct values and anything that marshals to a JSON object. The result
// holds only declared fields, with numbers normalized to float64.
func (r *RecordValidator) Parse(input any) (map[string]any, error) {
	obj, err := decodeObject(input)
	if err != nil {
		return nil, &ValidationError{Record: r.Name, Issues: []Issue{{Constraint: "type", Message: err.Error()}}}
	}

	if err := r.Validate(obj); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		v, present := obj[f.Name]
		if !present {
			continue
		}
		if n, ok := toNumber(v); ok && f.Type.Kind == mapper.Number {
			v = n
		}
		out[f.Name] = v
	}
	return out, nil
}

func decodeObject(input any) (map[string]any, error) {
	var decoded any

	switch in := input.(type) {
	case nil:
		return nil, fmt.Errorf("expected an object, got null")
	case map[string]any:
		return in, nil
	case *structpb.Struct:
		if in == nil {
			return nil, fmt.Errorf("expected an object, got null")
		}
		return in.AsMap(), nil
	case []byte:
		if err := json.Unmarshal(in, &decoded); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(in, &decoded); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
	case string:
		if err := json.Unmarshal([]byte(in), &decoded); err != nil {
			return nil, fmt.Errorf("malformed JSON: %w", err)
		}
	default:
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("unsupported input %T: %w", input, err)
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("unsupported input %T: %w", input, err)
		}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", describe(decoded))
	}
	return obj, nil
}

// check runs the base validator and then every constraint, collecting all failures
func (f *FieldValidator) check(v any) []Issue {
	switch f.Type.Kind {
	case mapper.Number:
		n, ok := toNumber(v)
		if !ok {
			return []Issue{f.typeIssue("a number", v)}
		}
		return f.checkNumber(n)

	case mapper.Boolean:
		if _, ok := v.(bool); !ok {
			return []Issue{f.typeIssue("a boolean", v)}
		}
		return nil

	case mapper.EnumRef:
		if !f.enum.Accepts(v) {
			return []Issue{{
				Path:       f.Name,
				Constraint: "literal",
				Message:    fmt.Sprintf("expected one of %q, got %s", f.enum.Literals, describe(v)),
			}}
		}
		return nil

	default:
		s, ok := v.(string)
		if !ok {
			return []Issue{f.typeIssue("a string", v)}
		}
		return f.checkString(s)
	}
}

func (f *FieldValidator) checkString(s string) []Issue {
	var issues []Issue
	length := len(utf16.Encode([]rune(s)))
	patterns := f.patterns

	for _, c := range f.Constraints {
		switch c.Kind {
		case mapper.KindMinLength:
			if length < c.Length {
				issues = append(issues, Issue{Path: f.Name, Constraint: string(c.Kind),
					Message: fmt.Sprintf("expected a length of at least %d, got %d", c.Length, length)})
			}
		case mapper.KindMaxLength:
			if length > c.Length {
				issues = append(issues, Issue{Path: f.Name, Constraint: string(c.Kind),
					Message: fmt.Sprintf("expected a length of at most %d, got %d", c.Length, length)})
			}
		case mapper.KindPattern:
			re := patterns[0]
			patterns = patterns[1:]
			if !re.MatchString(s) {
				issues = append(issues, Issue{Path: f.Name, Constraint: string(c.Kind),
					Message: fmt.Sprintf("expected to match %s, got %q", c.Pattern, s)})
			}
		}
	}
	return issues
}

func (f *FieldValidator) checkNumber(n float64) []Issue {
	var issues []Issue
	for _, c := range f.Constraints {
		if c.Kind != mapper.KindRange {
			continue
		}
		if math.IsNaN(n) || n < c.Min || n > c.Max {
			issues = append(issues, Issue{Path: f.Name, Constraint: string(c.Kind),
				Message: fmt.Sprintf("expected a number between %s and %s, got %s",
					mapper.FormatNumber(c.Min), mapper.FormatNumber(c.Max), mapper.FormatNumber(n))})
		}
	}
	return issues
}

func (f *FieldValidator) typeIssue(expected string, v any) Issue {
	return Issue{Path: f.Name, Constraint: "type", Message: fmt.Sprintf("expected %s, got %s", expected, describe(v))}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case bool, float64, float32, int, int32, int64:
		return fmt.Sprintf("%v", val)
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
