package schema

import (
	"fmt"
	"strconv"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

// graphQLScalars maps GraphQL scalar names to the raw type tokens the
// TypeScript extractor produces, so both sources map identically.
var graphQLScalars = map[string]string{
	"String":   "string",
	"ID":       "string",
	"Int":      "number",
	"Float":    "number",
	"Boolean":  "boolean",
	"DateTime": "utcDateTime",
	"Time":     "utcDateTime",
	"Date":     "plainDate",
}

// GraphQLExtractor reads enum and flat object type definitions from a GraphQL SDL document.
type GraphQLExtractor struct{}

// Extract implements Extractor
func (GraphQLExtractor) Extract(input string) (*Model, error) {
	return ExtractGraphQL(input)
}

// ExtractGraphQL builds a Model from GraphQL SDL. Nullable fields are optional and a
// field-level @default(value: ...) directive supplies the declared default.
func ExtractGraphQL(input string) (*Model, error) {
	doc, report := astparser.ParseGraphqlDocumentString(input)
	if report.HasErrors() {
		return nil, newExtractionError(ErrInvalidSource, "", 0, "failed to parse GraphQL: %v", report)
	}

	model := newModel()

	// Pass 1: enums
	for i := range doc.RootNodes {
		node := &doc.RootNodes[i]
		if node.Kind != ast.NodeKindEnumTypeDefinition {
			continue
		}
		enum, err := parseGraphQLEnum(&doc, node.Ref)
		if err != nil {
			return nil, err
		}
		if err := model.addEnum(enum, 0); err != nil {
			return nil, err
		}
	}

	// Pass 2: object types
	for i := range doc.RootNodes {
		node := &doc.RootNodes[i]
		if node.Kind != ast.NodeKindObjectTypeDefinition {
			continue
		}
		record, err := parseGraphQLObject(&doc, node.Ref)
		if err != nil {
			return nil, err
		}
		if err := model.addRecord(record, 0); err != nil {
			return nil, err
		}
	}

	if err := model.resolve(); err != nil {
		return nil, err
	}
	return model, nil
}

func parseGraphQLEnum(doc *ast.Document, ref int) (EnumDecl, error) {
	enumDef := doc.EnumTypeDefinitions[ref]

	enum := EnumDecl{
		Name:   doc.Input.ByteSliceString(enumDef.Name),
		Values: []EnumValue{},
	}

	seen := map[string]bool{}
	for _, valueRef := range enumDef.EnumValuesDefinition.Refs {
		valueDef := doc.EnumValueDefinitions[valueRef]
		name := doc.Input.ByteSliceString(valueDef.EnumValue)
		if seen[name] {
			return EnumDecl{}, newExtractionError(ErrDuplicateEnumKey, enum.Name, 0, "key %q declared twice", name)
		}
		seen[name] = true
		enum.Values = append(enum.Values, EnumValue{Key: name, Value: name})
	}

	if len(enum.Values) == 0 {
		return EnumDecl{}, newExtractionError(ErrMalformedField, enum.Name, 0, "enum declares no values")
	}
	return enum, nil
}

func parseGraphQLObject(doc *ast.Document, ref int) (RecordDecl, error) {
	typeDef := doc.ObjectTypeDefinitions[ref]

	record := RecordDecl{
		Name:   doc.Input.ByteSliceString(typeDef.Name),
		Fields: []FieldDecl{},
	}

	seen := map[string]bool{}
	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		field, err := parseGraphQLField(doc, record.Name, fieldRef)
		if err != nil {
			return RecordDecl{}, err
		}
		if seen[field.Name] {
			return RecordDecl{}, newExtractionError(ErrDuplicateField, record.Name, 0, "field %q declared twice", field.Name)
		}
		seen[field.Name] = true
		record.Fields = append(record.Fields, field)
	}

	return record, nil
}

func parseGraphQLField(doc *ast.Document, record string, fieldRef int) (FieldDecl, error) {
	fieldDef := doc.FieldDefinitions[fieldRef]
	name := doc.Input.ByteSliceString(fieldDef.Name)

	typeName, required, isList := parseGraphQLType(doc, fieldDef.Type)
	if isList {
		return FieldDecl{}, newExtractionError(ErrMalformedField, record, 0, "field %q: list types are not flat", name)
	}

	rawType := typeName
	if scalar, ok := graphQLScalars[typeName]; ok {
		rawType = scalar
	}

	field := FieldDecl{
		Name:     name,
		RawType:  rawType,
		Optional: !required,
	}

	for _, directiveRef := range fieldDef.Directives.Refs {
		directive := doc.Directives[directiveRef]
		if doc.Input.ByteSliceString(directive.Name) != "default" {
			continue
		}
		lit, err := parseDefaultDirective(doc, directive)
		if err != nil {
			return FieldDecl{}, newExtractionError(ErrInvalidDefault, record, 0, "field %q: %v", name, err)
		}
		field.Default = lit
	}

	return field, nil
}

// parseGraphQLType unwraps NonNull and List wrappers around a named type
func parseGraphQLType(doc *ast.Document, typeRef int) (name string, required bool, isList bool) {
	currentRef := typeRef

	if doc.Types[currentRef].TypeKind == ast.TypeKindNonNull {
		required = true
		currentRef = doc.Types[currentRef].OfType
	}

	if doc.Types[currentRef].TypeKind == ast.TypeKindList {
		inner, _, _ := parseGraphQLType(doc, doc.Types[currentRef].OfType)
		return inner, required, true
	}

	if doc.Types[currentRef].TypeKind == ast.TypeKindNamed {
		return doc.Input.ByteSliceString(doc.Types[currentRef].Name), required, false
	}

	return "Unknown", required, false
}

func parseDefaultDirective(doc *ast.Document, directive ast.Directive) (*Literal, error) {
	for _, argRef := range directive.Arguments.Refs {
		arg := doc.Arguments[argRef]
		if doc.Input.ByteSliceString(arg.Name) != "value" {
			continue
		}
		return parseGraphQLValue(doc, doc.ArgumentValue(argRef))
	}
	return nil, fmt.Errorf("@default requires a value argument")
}

func parseGraphQLValue(doc *ast.Document, value ast.Value) (*Literal, error) {
	switch value.Kind {
	case ast.ValueKindString:
		return &Literal{Kind: LiteralString, String: doc.StringValueContentString(value.Ref)}, nil

	case ast.ValueKindEnum:
		// Enum defaults are written bare: @default(value: Backlog)
		if value.Ref >= 0 && value.Ref < len(doc.EnumValues) {
			return &Literal{Kind: LiteralString, String: doc.Input.ByteSliceString(doc.EnumValues[value.Ref].Name)}, nil
		}

	case ast.ValueKindBoolean:
		if value.Ref >= 0 && value.Ref < len(doc.BooleanValues) {
			return &Literal{Kind: LiteralBoolean, Bool: bool(doc.BooleanValues[value.Ref])}, nil
		}

	case ast.ValueKindInteger:
		return &Literal{Kind: LiteralNumber, Number: float64(doc.IntValueAsInt(value.Ref))}, nil

	case ast.ValueKindFloat:
		n, err := strconv.ParseFloat(string(doc.FloatValueRaw(value.Ref)), 64)
		if err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralNumber, Number: n}, nil
	}

	return nil, fmt.Errorf("unsupported default value")
}
