package commands

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/schemagen/internal/config"
	"github.com/okra-platform/schemagen/internal/schema"
)

// ConfigFileName is the file written by init
const ConfigFileName = "schemagen.json"

type InitOptions struct {
	Source    string
	Targets   []string
	Mode      string
	OutputDir string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	Getwd() (string, error)
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     &defaultOutput{},
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	var options *InitOptions

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := buildConfig(options)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	ic.output.Printf("✅ Wrote %s with %d targets\n", configPath, len(cfg.Targets))
	return nil
}

// buildConfig turns the answers into a config; artifact names follow the
// conventional generated file names
func buildConfig(options *InitOptions) *config.Config {
	cfg := &config.Config{
		Source:  options.Source,
		Targets: []config.Target{},
	}
	if schema.DetectFormat(options.Source) == schema.FormatGraphQL {
		cfg.Format = schema.FormatGraphQL
	}

	for _, name := range options.Targets {
		target := config.Target{Generator: name}
		switch name {
		case "tinybase":
			target.Output = path.Join(options.OutputDir, "tinybase-schema.ts")
			target.Mode = options.Mode
		case "effect":
			target.Output = path.Join(options.OutputDir, "effect-schemas.ts")
		case "jsonschema":
			target.Output = path.Join(options.OutputDir, "schema.json")
		default:
			target.Output = path.Join(options.OutputDir, name+".ts")
		}
		cfg.Targets = append(cfg.Targets, target)
	}

	cfg.Watch.DebounceMs = config.DefaultDebounceMs
	return cfg
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Source:    config.DefaultSource,
		Targets:   []string{"tinybase", "effect"},
		Mode:      "nested",
		OutputDir: "src/generated",
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source").
				Description("Path to the TypeScript or GraphQL model declarations").
				Value(&options.Source).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("source cannot be empty")
					}
					return nil
				}),

			huh.NewMultiSelect[string]().
				Title("Targets").
				Description("Artifacts to generate").
				Options(
					huh.NewOption("TinyBase table schema", "tinybase"),
					huh.NewOption("Effect validation schema", "effect"),
					huh.NewOption("JSON Schema", "jsonschema"),
					huh.NewOption("TypeScript declarations", "typescript"),
				).
				Value(&options.Targets).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one target")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Table layout").
				Description("How the TinyBase schema lays out its tables").
				Options(
					huh.NewOption("Nested", "nested"),
					huh.NewOption("Templated", "templated"),
				).
				Value(&options.Mode),

			huh.NewInput().
				Title("Output directory").
				Value(&options.OutputDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("output directory cannot be empty")
					}
					return nil
				}),
		),
	)
}
