package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okra-platform/schemagen/internal/config"
	"github.com/okra-platform/schemagen/internal/mapper"
	"github.com/okra-platform/schemagen/internal/pipeline"
	"github.com/okra-platform/schemagen/internal/schema"
)

// ModelLoader reads and maps the source without emitting anything
type ModelLoader interface {
	Load(cfg *config.Config) (*pipeline.Result, error)
}

type defaultModelLoader struct {
	logger zerolog.Logger
}

func (l *defaultModelLoader) Load(cfg *config.Config) (*pipeline.Result, error) {
	return pipeline.New(cfg, nil, l.logger).Load()
}

// InspectDependencies for the inspect command
type InspectDependencies struct {
	ConfigLoader ConfigLoader
	ModelLoader  ModelLoader
	Output       Output
}

// InspectCommand prints the intermediate model and descriptors
type InspectCommand struct {
	deps InspectDependencies
}

// inspection is the JSON document printed by inspect
type inspection struct {
	Source      string             `json:"source"`
	Checksum    string             `json:"checksum"`
	Model       *schema.Model      `json:"model"`
	Descriptors mapper.Descriptors `json:"descriptors"`
}

// NewInspectCommand creates a new inspect command with default dependencies
func NewInspectCommand(logger zerolog.Logger) *InspectCommand {
	return &InspectCommand{
		deps: InspectDependencies{
			ConfigLoader: &defaultConfigLoader{},
			ModelLoader:  &defaultModelLoader{logger: logger},
			Output:       &defaultOutput{},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (ic *InspectCommand) WithDependencies(deps InspectDependencies) *InspectCommand {
	ic.deps = deps
	return ic
}

// Execute runs the inspect command
func (ic *InspectCommand) Execute(_ context.Context, configPath string) error {
	cfg, _, err := ic.deps.ConfigLoader.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	result, err := ic.deps.ModelLoader.Load(cfg)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	data, err := json.MarshalIndent(inspection{
		Source:      cfg.SourcePath(),
		Checksum:    result.SourceChecksum,
		Model:       result.Model,
		Descriptors: result.Descriptors,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inspection: %w", err)
	}

	ic.deps.Output.Println(string(data))
	return nil
}
