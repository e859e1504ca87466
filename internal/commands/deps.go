package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/okra-platform/schemagen/internal/config"
	"github.com/okra-platform/schemagen/internal/dev"
	"github.com/okra-platform/schemagen/internal/pipeline"
)

// Interfaces for dependency injection
type ConfigLoader interface {
	LoadConfig(path string) (*config.Config, string, error)
}

type RunnerFactory interface {
	NewRunner(cfg *config.Config) dev.Runner
}

type Output interface {
	Printf(format string, args ...any)
	Println(args ...any)
}

type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// Default implementations
type defaultConfigLoader struct{}

// LoadConfig loads path when set, otherwise searches upward from the working directory
func (l *defaultConfigLoader) LoadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		return config.LoadConfig()
	}
	cfg, err := config.LoadConfigFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, cfg.Dir, nil
}

type defaultRunnerFactory struct {
	logger zerolog.Logger
}

func (f *defaultRunnerFactory) NewRunner(cfg *config.Config) dev.Runner {
	return pipeline.New(cfg, nil, f.logger)
}

type defaultOutput struct{}

func (o *defaultOutput) Printf(format string, args ...any) {
	fmt.Printf(format, args...)
}

func (o *defaultOutput) Println(args ...any) {
	fmt.Println(args...)
}

type defaultSignalNotifier struct{}

func (n *defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}
