// Package commands contains the CLI commands for the application
package commands

import (
	"context"

	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel string
	Config   string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}

// Generate runs the pipeline once
func (c *Controller) Generate(ctx context.Context) error {
	return NewGenerateCommand(c.Logger).Execute(ctx, c.Flags.Config)
}

// Watch runs the pipeline and reruns it on every source change
func (c *Controller) Watch(ctx context.Context) error {
	return NewWatchCommand(c.Logger).Execute(ctx, c.Flags.Config)
}

// Inspect prints the extracted model and descriptors as JSON
func (c *Controller) Inspect(ctx context.Context) error {
	return NewInspectCommand(c.Logger).Execute(ctx, c.Flags.Config)
}

// Init interactively writes a schemagen.json in the current directory
func (c *Controller) Init(ctx context.Context) error {
	return NewInitCommand().Run(ctx)
}
