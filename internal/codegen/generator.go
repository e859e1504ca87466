package codegen

import (
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// Generator is the interface that all target emitters must implement.
// Generate must be deterministic: the same model and descriptors always produce
// the same bytes.
type Generator interface {
	// Generate renders the artifact for the model and its mapped descriptors
	Generate(model *schema.Model, descriptors mapper.Descriptors) ([]byte, error)

	// Name returns the name of the target (e.g., "tinybase", "effect")
	Name() string

	// FileExtension returns the file extension for generated files (e.g., ".ts", ".json")
	FileExtension() string
}

// Options contains common options for code generation
type Options struct {
	// ExportName overrides the name of the top-level exported value
	ExportName string

	// Mode selects a rendering strategy for emitters that have more than one
	Mode string

	// CustomOptions allows target-specific options
	CustomOptions map[string]string
}
