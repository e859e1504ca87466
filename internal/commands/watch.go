package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/okra-platform/schemagen/internal/config"
	"github.com/okra-platform/schemagen/internal/dev"
)

// WatchDependencies for the watch command
type WatchDependencies struct {
	ConfigLoader   ConfigLoader
	SessionFactory SessionFactory
	SignalNotifier SignalNotifier
	Output         Output
}

type SessionFactory interface {
	NewSession(cfg *config.Config) WatchSession
}

type WatchSession interface {
	Start(ctx context.Context) error
}

type defaultSessionFactory struct {
	logger zerolog.Logger
}

func (f *defaultSessionFactory) NewSession(cfg *config.Config) WatchSession {
	runner := (&defaultRunnerFactory{logger: f.logger}).NewRunner(cfg)
	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	return dev.NewSession(runner, cfg.SourcePath(), debounce, f.logger)
}

// WatchCommand encapsulates the watch logic with injected dependencies
type WatchCommand struct {
	deps WatchDependencies
}

// NewWatchCommand creates a new watch command with default dependencies
func NewWatchCommand(logger zerolog.Logger) *WatchCommand {
	return &WatchCommand{
		deps: WatchDependencies{
			ConfigLoader:   &defaultConfigLoader{},
			SessionFactory: &defaultSessionFactory{logger: logger},
			SignalNotifier: &defaultSignalNotifier{},
			Output:         &defaultOutput{},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps WatchDependencies) *WatchCommand {
	wc.deps = deps
	return wc
}

// Execute runs the watch command until interrupted
func (wc *WatchCommand) Execute(ctx context.Context, configPath string) error {
	cfg, projectRoot, err := wc.deps.ConfigLoader.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	wc.deps.Output.Printf("👀 Watching %s\n", cfg.SourcePath())
	wc.deps.Output.Printf("📁 Project root: %s\n", projectRoot)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			wc.deps.Output.Println("\n👋 Stopping watcher...")
			cancel()
		case <-ctx.Done():
		}
	}()

	session := wc.deps.SessionFactory.NewSession(cfg)
	if err := session.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("watch error: %w", err)
	}

	return nil
}
