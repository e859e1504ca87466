package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Extractor turns source text into an intermediate model
type Extractor interface {
	Extract(input string) (*Model, error)
}

// enumBlockRegex matches `export enum Name { ... }` blocks.
var enumBlockRegex = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+(?:const[ \t]+)?enum[ \t]+(\w+)[ \t]*\{([^}]*)\}`)

// recordBlockRegex matches flat `export type Name = { ... }` and
// `export interface Name { ... }` blocks. Nested braces end the match early,
// which surfaces as a malformed field.
var recordBlockRegex = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+(?:type[ \t]+(\w+)[ \t]*=[ \t]*\{|interface[ \t]+(\w+)[ \t]*\{)([^}]*)\}`)

// enumMemberRegex matches one KEY = "VALUE" member at the start of the input.
var enumMemberRegex = regexp.MustCompile(`^(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// fieldRegex matches one `name[?]: type` statement with the terminator removed.
var fieldRegex = regexp.MustCompile(`^(?:readonly\s+)?(\w+)(\?)?\s*:\s*(.*)$`)

// fieldSeparatorRegex matches a comma that starts another `name[?]:` statement.
var fieldSeparatorRegex = regexp.MustCompile(`,\s*(?:readonly\s+)?\w+\??\s*:`)

// defaultCommentRegex matches `@default <literal>` inside a trailing comment.
var defaultCommentRegex = regexp.MustCompile(`@default\s+(.+?)\s*$`)

// TypeScriptExtractor scans TypeScript declarations emitted by the IDL compiler.
// It is a pattern matcher over enum and flat record blocks, not a parser.
type TypeScriptExtractor struct{}

// Extract implements Extractor
func (TypeScriptExtractor) Extract(input string) (*Model, error) {
	return Extract(input)
}

// Extract builds a Model from TypeScript declaration text. Enums are collected in a
// first pass so records may reference enums declared after them.
func Extract(input string) (*Model, error) {
	input = PreprocessTypeScript(input)
	model := newModel()

	// Pass 1: enums
	for _, loc := range enumBlockRegex.FindAllStringSubmatchIndex(input, -1) {
		name := input[loc[2]:loc[3]]
		body := input[loc[4]:loc[5]]
		line := lineOf(input, loc[0])

		enum, err := parseEnumBody(name, body, line)
		if err != nil {
			return nil, err
		}
		if err := model.addEnum(enum, line); err != nil {
			return nil, err
		}
	}

	// Pass 2: records
	for _, loc := range recordBlockRegex.FindAllStringSubmatchIndex(input, -1) {
		var name string
		if loc[2] >= 0 {
			name = input[loc[2]:loc[3]]
		} else {
			name = input[loc[4]:loc[5]]
		}
		bodyStart := loc[6]
		body := input[loc[6]:loc[7]]

		record, err := parseRecordBody(name, body, lineOf(input, bodyStart))
		if err != nil {
			return nil, err
		}
		if err := model.addRecord(record, lineOf(input, loc[0])); err != nil {
			return nil, err
		}
	}

	if err := model.resolve(); err != nil {
		return nil, err
	}
	return model, nil
}

func parseEnumBody(name, body string, line int) (EnumDecl, error) {
	enum := EnumDecl{Name: name, Values: []EnumValue{}}
	seenKeys := map[string]bool{}
	seenValues := map[string]bool{}

	rest := stripComments(body)
	for {
		rest = strings.TrimLeft(rest, " \t\r\n,")
		if rest == "" {
			break
		}

		m := enumMemberRegex.FindStringSubmatch(rest)
		if m == nil {
			member := rest
			if i := strings.IndexAny(member, ",\n"); i >= 0 {
				member = member[:i]
			}
			return EnumDecl{}, newExtractionError(ErrMalformedField, name, line,
				"enum member %q must have the form KEY = \"VALUE\"", strings.TrimSpace(member))
		}
		rest = rest[len(m[0]):]

		key := m[1]
		value := m[2]
		if m[3] != "" {
			value = m[3]
		}
		if seenKeys[key] {
			return EnumDecl{}, newExtractionError(ErrDuplicateEnumKey, name, line, "key %q declared twice", key)
		}
		if seenValues[value] {
			return EnumDecl{}, newExtractionError(ErrDuplicateEnumKey, name, line, "value %q declared twice", value)
		}
		seenKeys[key] = true
		seenValues[value] = true
		enum.Values = append(enum.Values, EnumValue{Key: key, Value: value})
	}

	if len(enum.Values) == 0 {
		return EnumDecl{}, newExtractionError(ErrMalformedField, name, line, "enum declares no values")
	}
	return enum, nil
}

func parseRecordBody(name, body string, firstLine int) (RecordDecl, error) {
	record := RecordDecl{Name: name, Fields: []FieldDecl{}}
	seen := map[string]bool{}

	for i, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isCommentLine(line) {
			continue
		}
		lineNo := firstLine + i

		code, comment := splitComment(line)
		statements := splitStatements(code)
		for j, stmt := range statements {
			// A trailing comment belongs to the last statement on the line
			c := ""
			if j == len(statements)-1 {
				c = comment
			}

			field, err := parseField(name, stmt, c, lineNo)
			if err != nil {
				return RecordDecl{}, err
			}
			if seen[field.Name] {
				return RecordDecl{}, newExtractionError(ErrDuplicateField, name, lineNo, "field %q declared twice", field.Name)
			}
			seen[field.Name] = true
			record.Fields = append(record.Fields, field)
		}
	}

	return record, nil
}

func parseField(record, stmt, comment string, lineNo int) (FieldDecl, error) {
	m := fieldRegex.FindStringSubmatch(stmt)
	if m == nil {
		return FieldDecl{}, newExtractionError(ErrMalformedField, record, lineNo, "cannot tokenize %q as name[?]: type", stmt)
	}

	rawType := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[3]), ","))
	if rawType == "" {
		return FieldDecl{}, newExtractionError(ErrMalformedField, record, lineNo, "field %q has no type", m[1])
	}
	if strings.ContainsAny(rawType, "{}") {
		return FieldDecl{}, newExtractionError(ErrMalformedField, record, lineNo, "field %q: nested object types are not supported", m[1])
	}

	field := FieldDecl{
		Name:     m[1],
		RawType:  rawType,
		Optional: m[2] == "?",
		Line:     lineNo,
	}

	if dm := defaultCommentRegex.FindStringSubmatch(comment); dm != nil {
		lit, err := parseLiteral(dm[1])
		if err != nil {
			return FieldDecl{}, newExtractionError(ErrInvalidDefault, record, lineNo, "field %q: %v", field.Name, err)
		}
		field.Default = lit
	}

	return field, nil
}

// parseLiteral parses a JSON-style scalar literal
func parseLiteral(s string) (*Literal, error) {
	switch s {
	case "true":
		return &Literal{Kind: LiteralBoolean, Bool: true}, nil
	case "false":
		return &Literal{Kind: LiteralBoolean, Bool: false}, nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralString, String: str}, nil
	}
	if strings.HasPrefix(s, `'`) && strings.HasSuffix(s, `'`) && len(s) >= 2 {
		return &Literal{Kind: LiteralString, String: s[1 : len(s)-1]}, nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("unsupported literal %s", s)
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return nil, fmt.Errorf("default %s is not a finite number", s)
	}
	return &Literal{Kind: LiteralNumber, Number: n}, nil
}

// resolve checks every field type and declared default against the collected enums
func (m *Model) resolve() error {
	if len(m.Records) == 0 {
		return newExtractionError(ErrInvalidSource, "", 0, "no record declarations found")
	}

	for _, name := range m.RecordOrder {
		record := m.Records[name]
		for _, f := range record.Fields {
			if isReference(f.RawType) {
				if _, ok := m.Enums[f.RawType]; !ok {
					if _, isRecord := m.Records[f.RawType]; isRecord {
						return newExtractionError(ErrUnresolvedType, name, f.Line,
							"field %q refers to record %q; only enums may be referenced", f.Name, f.RawType)
					}
					return newExtractionError(ErrUnresolvedType, name, f.Line,
						"field %q refers to undeclared enum %q", f.Name, f.RawType)
				}
			}
			if f.Default != nil {
				if msg := checkDefault(f, m.Enums); msg != "" {
					return newExtractionError(ErrInvalidDefault, name, f.Line, "field %q: %s", f.Name, msg)
				}
			}
		}
	}
	return nil
}

// checkDefault returns a non-empty message when the literal does not fit the field type
func checkDefault(f FieldDecl, enums map[string]EnumDecl) string {
	lit := f.Default
	switch Classify(f.RawType, enums) {
	case ClassNumber:
		if lit.Kind != LiteralNumber {
			return "default must be a number"
		}
	case ClassBoolean:
		if lit.Kind != LiteralBoolean {
			return "default must be a boolean"
		}
	case ClassEnum:
		if lit.Kind != LiteralString {
			return "default must be a string"
		}
		for _, v := range enums[f.RawType].Values {
			if v.Value == lit.String {
				return ""
			}
		}
		return fmt.Sprintf("default %q is not a value of %s", lit.String, f.RawType)
	default:
		if lit.Kind != LiteralString {
			return "default must be a string"
		}
	}
	return ""
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "/*") ||
		strings.HasPrefix(line, "*")
}

// stripComments drops comment-only lines and trailing line comments from a block body
func stripComments(body string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if isCommentLine(strings.TrimSpace(l)) {
			continue
		}
		code, _ := splitComment(l)
		kept = append(kept, code)
	}
	return strings.Join(kept, "\n")
}

// splitComment separates a trailing // comment from the code on a line.
// A // inside a quoted string is not a comment.
func splitComment(line string) (code, comment string) {
	if i := commentIndex(line); i >= 0 {
		return line[:i], line[i+2:]
	}
	return line, ""
}

// commentIndex returns the offset of the first // outside quotes, or -1
func commentIndex(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return i
		}
	}
	return -1
}

// splitStatements splits the code of one line into field statements. Both `;`
// and a `,` followed by another `name:` end a statement.
func splitStatements(code string) []string {
	var out []string
	for _, stmt := range strings.Split(code, ";") {
		start := 0
		for _, loc := range fieldSeparatorRegex.FindAllStringIndex(stmt, -1) {
			out = append(out, stmt[start:loc[0]])
			start = loc[0] + 1
		}
		out = append(out, stmt[start:])
	}
	return nonEmpty(out)
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lineOf(input string, offset int) int {
	return strings.Count(input[:offset], "\n") + 1
}
