// Package dev re-runs schema derivation whenever the source changes.
package dev

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/okra-platform/schemagen/internal/schema"
)

// Session runs the pipeline once and again after every change to the source.
// Runs never overlap, so two runs never race on one output path.
type Session struct {
	runner   Runner
	source   string
	debounce time.Duration
	logger   zerolog.Logger

	// Mutex to prevent concurrent runs
	runMu sync.Mutex
	runs  int

	// OnRun is called after each run; used by callers that report progress
	OnRun func(run int, err error)
}

// NewSession creates a watch session for source
func NewSession(runner Runner, source string, debounce time.Duration, logger zerolog.Logger) *Session {
	return &Session{
		runner:   runner,
		source:   source,
		debounce: debounce,
		logger:   logger.With().Str("component", "watch").Logger(),
	}
}

// Start performs the initial run and then watches until ctx is canceled. A
// failing initial run is reported but does not stop the session; the next edit
// may fix the source.
func (s *Session) Start(ctx context.Context) error {
	s.RunOnce(ctx)

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	onChange := func(path string, op fsnotify.Op) {
		s.logger.Debug().Str("path", path).Str("op", op.String()).Msg("source changed")

		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(s.debounce, func() {
			if ctx.Err() == nil {
				s.RunOnce(ctx)
			}
		})
	}

	watcher, err := NewFileWatcher([]string{s.source}, onChange, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	s.logger.Info().Str("source", s.source).Msg("watching for changes")

	err = watcher.Start(ctx)

	timerMu.Lock()
	if timer != nil {
		timer.Stop()
	}
	timerMu.Unlock()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// RunOnce performs one serialized run and logs its outcome
func (s *Session) RunOnce(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.runs++
	result, err := s.runner.Run(ctx)
	if err != nil {
		var extractionErr *schema.ExtractionError
		if errors.As(err, &extractionErr) {
			s.logger.Error().
				Str("decl", extractionErr.Decl).
				Int("line", extractionErr.Line).
				Msg(extractionErr.Error())
		} else {
			s.logger.Error().Err(err).Msg("generation failed")
		}
	} else {
		written := 0
		for _, out := range result.Outputs {
			if out.Written {
				written++
			}
		}
		s.logger.Info().
			Int("run", s.runs).
			Int("written", written).
			Int("unchanged", len(result.Outputs)-written).
			Msg("regenerated")
	}

	if s.OnRun != nil {
		s.OnRun(s.runs, err)
	}
	return err
}

// Runs returns how many runs have completed
func (s *Session) Runs() int {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.runs
}
