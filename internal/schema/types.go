package schema

import (
	"regexp"
	"strings"
)

// TypeClass is the coarse classification of a raw type token.
type TypeClass int

const (
	ClassUnsupported TypeClass = iota
	ClassString
	ClassNumber
	ClassBoolean
	ClassEnum
	ClassDateTime
)

func (c TypeClass) String() string {
	switch c {
	case ClassString:
		return "string"
	case ClassNumber:
		return "number"
	case ClassBoolean:
		return "boolean"
	case ClassEnum:
		return "enum"
	case ClassDateTime:
		return "datetime"
	default:
		return "unsupported"
	}
}

// identifierRegex matches a bare type identifier such as IssueState.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// dateTimeTypes are the date/time tokens the IDL compiler emits.
var dateTimeTypes = map[string]bool{
	"utcDateTime":    true,
	"offsetDateTime": true,
	"plainDate":      true,
	"plainTime":      true,
	"DateTime":       true,
	"Date":           true,
}

// builtinIdentifiers are bare identifiers that never refer to a declaration.
// Only "string" is a recognized string type; the rest degrade to the fallback.
var builtinIdentifiers = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"int32":   true,
	"int64":   true,
	"float32": true,
	"float64": true,
	"bigint":  true,
	"any":     true,
	"unknown": true,
	"object":  true,
}

// Classify maps a raw type token to its class. An exact enum name wins, so an
// enum called e.g. numberFormat is never taken for a numeric token. After that:
// numeric tokens, boolean, date/time tokens, then plain string.
func Classify(rawType string, enums map[string]EnumDecl) TypeClass {
	if _, ok := enums[rawType]; ok {
		return ClassEnum
	}
	switch {
	case strings.Contains(rawType, "number") || strings.Contains(rawType, "int32"):
		return ClassNumber
	case strings.Contains(rawType, "boolean"):
		return ClassBoolean
	}
	if dateTimeTypes[rawType] {
		return ClassDateTime
	}
	if rawType == "string" {
		return ClassString
	}
	return ClassUnsupported
}

// isReference reports whether a raw type must resolve to a declaration
func isReference(rawType string) bool {
	return identifierRegex.MatchString(rawType) && !builtinIdentifiers[rawType] && !dateTimeTypes[rawType]
}
