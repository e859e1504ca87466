package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names searched for, in order of preference
var FileNames = []string{"schemagen.json", "schemagen.yaml", "schemagen.yml"}

// ErrNotFound is returned when no config file exists in the directory tree
var ErrNotFound = errors.New("no schemagen config found")

// Default values applied after load
const (
	DefaultSource     = "src/generated/models.ts"
	DefaultDebounceMs = 100
)

// Config represents the schemagen.json configuration file
type Config struct {
	Source  string      `json:"source" yaml:"source" validate:"required"`
	Format  string      `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=typescript ts graphql gql"`
	Targets []Target    `json:"targets" yaml:"targets" validate:"required,min=1,dive"`
	Watch   WatchConfig `json:"watch" yaml:"watch"`

	// Dir is the directory holding the config file; relative paths resolve against it
	Dir string `json:"-" yaml:"-"`
}

// Target configures one generated artifact
type Target struct {
	Generator  string            `json:"generator" yaml:"generator" validate:"required"`
	Output     string            `json:"output" yaml:"output" validate:"required"`
	Mode       string            `json:"mode,omitempty" yaml:"mode,omitempty"`
	ExportName string            `json:"exportName,omitempty" yaml:"exportName,omitempty"`
	Options    map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// WatchConfig contains watch-mode configuration
type WatchConfig struct {
	DebounceMs int `json:"debounceMs" yaml:"debounceMs" validate:"gte=0"`
}

// DefaultTargets are used when a config lists no targets
func DefaultTargets() []Target {
	return []Target{
		{Generator: "tinybase", Output: "src/generated/tinybase-schema.ts", Mode: "nested"},
		{Generator: "effect", Output: "src/generated/effect-schemas.ts"},
	}
}

// Default returns a config with every default applied
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads the schemagen config from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the config from a specific path; the format follows
// the file extension
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		config.Dir = abs
	} else {
		config.Dir = filepath.Dir(path)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

// Validate checks the struct tags of the config and its targets
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Resolve returns path relative to the config directory unless it is absolute
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// SourcePath returns the resolved source path
func (c *Config) SourcePath() string {
	return c.Resolve(c.Source)
}

// Save writes the config as JSON, or YAML when path ends in .yaml/.yml
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if len(c.Targets) == 0 {
		c.Targets = DefaultTargets()
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
}

// loadConfigFromDir searches for a config file in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}
