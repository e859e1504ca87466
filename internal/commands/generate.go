package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/schemagen/internal/schema"
)

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	ConfigLoader  ConfigLoader
	RunnerFactory RunnerFactory
	Output        Output
}

// GenerateCommand performs a single derivation run
type GenerateCommand struct {
	deps GenerateDependencies
}

// NewGenerateCommand creates a new generate command with default dependencies
func NewGenerateCommand(logger zerolog.Logger) *GenerateCommand {
	return &GenerateCommand{
		deps: GenerateDependencies{
			ConfigLoader:  &defaultConfigLoader{},
			RunnerFactory: &defaultRunnerFactory{logger: logger},
			Output:        &defaultOutput{},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context, configPath string) error {
	cfg, projectRoot, err := gc.deps.ConfigLoader.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	gc.deps.Output.Printf("📝 Source: %s\n", cfg.SourcePath())

	result, err := gc.deps.RunnerFactory.NewRunner(cfg).Run(ctx)
	if err != nil {
		var extractionErr *schema.ExtractionError
		if errors.As(err, &extractionErr) {
			gc.deps.Output.Println("❌ Source could not be extracted; no files were written")
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, out := range result.Outputs {
		rel := out.Path
		if r, err := filepath.Rel(projectRoot, out.Path); err == nil {
			rel = r
		}
		if out.Written {
			gc.deps.Output.Printf("✅ %s → %s\n", out.Target, rel)
		} else {
			gc.deps.Output.Printf("✔️  %s → %s (unchanged)\n", out.Target, rel)
		}
	}

	return nil
}
