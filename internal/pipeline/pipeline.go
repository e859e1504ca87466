// Package pipeline runs one schema derivation: read the source, extract the
// model, map it, render every target and write the artifacts.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/schemagen/internal/codegen"
	"github.com/okra-platform/schemagen/internal/config"
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/schema"
)

// Output is one rendered artifact
type Output struct {
	Target  string
	Path    string
	Content []byte

	// Written is false when the file on disk already held identical bytes
	Written bool
}

// Result contains everything one run produced
type Result struct {
	Model       *schema.Model
	Descriptors mapper.Descriptors
	Outputs     []Output

	// SourceChecksum is the sha256 of the source text
	SourceChecksum string
	Duration       time.Duration
}

// Pipeline derives every configured target from one source
type Pipeline struct {
	config   *config.Config
	registry *codegen.Registry
	logger   zerolog.Logger
}

// New creates a pipeline; a nil registry selects the built-in targets
func New(cfg *config.Config, registry *codegen.Registry, logger zerolog.Logger) *Pipeline {
	if registry == nil {
		registry = codegen.NewDefaultRegistry()
	}
	return &Pipeline{
		config:   cfg,
		registry: registry,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run performs read, extract, map, emit and write. Nothing is written unless
// extraction and every emitter succeeded.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	result, err := p.Load()
	if err != nil {
		return nil, err
	}

	outputs, err := p.Emit(ctx, result.Model, result.Descriptors)
	if err != nil {
		return nil, err
	}

	for i := range outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed, err := WriteFile(outputs[i].Path, outputs[i].Content)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", outputs[i].Target, err)
		}
		outputs[i].Written = changed

		p.logger.Debug().
			Str("target", outputs[i].Target).
			Str("path", outputs[i].Path).
			Bool("written", changed).
			Msg("wrote artifact")
	}

	result.Outputs = outputs
	result.Duration = time.Since(start)

	p.logger.Info().
		Int("enums", len(result.Model.EnumOrder)).
		Int("records", len(result.Model.RecordOrder)).
		Int("outputs", len(outputs)).
		Dur("duration", result.Duration).
		Msg("schemas generated")

	return result, nil
}

// Load reads the source and returns its model and descriptors without emitting
func (p *Pipeline) Load() (*Result, error) {
	path := p.config.SourcePath()

	text, err := schema.ReadSource(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("path", path).
		Int("size", len(text)).
		Msg("read source")

	format := p.config.Format
	if format == "" {
		format = schema.DetectFormat(path)
	}
	extractor, err := schema.ExtractorFor(format)
	if err != nil {
		return nil, err
	}

	model, err := extractor.Extract(text)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(text))
	return &Result{
		Model:          model,
		Descriptors:    mapper.MapModel(model, p.logger),
		SourceChecksum: hex.EncodeToString(sum[:]),
	}, nil
}

// Emit renders every target concurrently. Targets sharing an output path are
// rejected before any emitter runs.
func (p *Pipeline) Emit(ctx context.Context, model *schema.Model, descriptors mapper.Descriptors) ([]Output, error) {
	generators := make([]codegen.Generator, len(p.config.Targets))
	outputs := make([]Output, len(p.config.Targets))
	seen := map[string]string{}

	for i, target := range p.config.Targets {
		path := filepath.Clean(p.config.Resolve(target.Output))
		if other, ok := seen[path]; ok {
			return nil, fmt.Errorf("targets %s and %s both write %s", other, target.Generator, target.Output)
		}
		seen[path] = target.Generator

		gen, err := p.registry.Get(target.Generator, codegen.Options{
			ExportName:    target.ExportName,
			Mode:          target.Mode,
			CustomOptions: target.Options,
		})
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", target.Generator, err)
		}

		generators[i] = gen
		outputs[i] = Output{Target: target.Generator, Path: path}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var g errgroup.Group
	for i, gen := range generators {
		g.Go(func() error {
			content, err := gen.Generate(model, descriptors)
			if err != nil {
				return fmt.Errorf("target %s: %w", gen.Name(), err)
			}
			outputs[i].Content = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outputs, nil
}
