package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source formats
const (
	FormatTypeScript = "typescript"
	FormatGraphQL    = "graphql"
)

// ReadSource loads the declaration text from path
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

// DetectFormat picks a source format from the file extension
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gql", ".graphql", ".graphqls":
		return FormatGraphQL
	default:
		return FormatTypeScript
	}
}

// ExtractorFor returns the extractor for a source format
func ExtractorFor(format string) (Extractor, error) {
	switch format {
	case "", FormatTypeScript, "ts":
		return TypeScriptExtractor{}, nil
	case FormatGraphQL, "gql":
		return GraphQLExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported source format: %s", format)
	}
}
