package codegen

import (
	"github.com/okra-platform/schemagen/internal/codegen/effect"
	"github.com/okra-platform/schemagen/internal/codegen/jsonschema"
	"github.com/okra-platform/schemagen/internal/codegen/tinybase"
	"github.com/okra-platform/schemagen/internal/codegen/typescript"
)

// NewDefaultRegistry returns a registry with every built-in target registered
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("tinybase", func(opts Options) (Generator, error) {
		mode, err := tinybase.ParseMode(opts.Mode)
		if err != nil {
			return nil, err
		}
		return tinybase.NewGenerator(opts.ExportName).WithMode(mode), nil
	})

	r.Register("effect", func(opts Options) (Generator, error) {
		return effect.NewGenerator(opts.CustomOptions["import"]), nil
	})

	r.Register("jsonschema", func(opts Options) (Generator, error) {
		return jsonschema.NewGenerator(opts.CustomOptions["id"]), nil
	})

	r.Register("typescript", func(opts Options) (Generator, error) {
		return typescript.NewGenerator(opts.ExportName), nil
	})

	// ts is an alias for typescript
	r.Register("ts", func(opts Options) (Generator, error) {
		return typescript.NewGenerator(opts.ExportName), nil
	})

	return r
}
