package dev

import (
	"context"

	"github.com/okra-platform/schemagen/internal/pipeline"
)

// Runner performs one derivation run
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}
