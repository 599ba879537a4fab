// internal/scheduler/scheduler.go

// Package scheduler repeats build passes with a fixed pause between them.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"notionsite/internal/builder"
	"notionsite/internal/logfields"
)

// Progress lines written around each pass.
const (
	StartMessage = "Building..."
	DoneMessage  = "Built!"
)

// Builder runs one build pass.
type Builder interface {
	Build(ctx context.Context, clean bool) (builder.Result, error)
}

// Scheduler drives a Builder once or in a loop.
type Scheduler struct {
	builder  Builder
	interval time.Duration
	clock    clockwork.Clock
	out      io.Writer
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithOutput sets where progress lines go. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Scheduler) { s.out = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New returns a scheduler pausing interval between passes.
func New(b Builder, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		builder:  b,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		out:      os.Stdout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce runs a single pass between the start and done progress lines.
func (s *Scheduler) RunOnce(ctx context.Context, clean bool) error {
	fmt.Fprintln(s.out, StartMessage)
	res, err := s.builder.Build(ctx, clean)
	if err != nil {
		s.logger.Error("Build pass failed", logfields.BuildID(res.BuildID), logfields.Error(err))
		return err
	}
	fmt.Fprintln(s.out, DoneMessage)
	return nil
}

// RunForever runs passes until ctx is cancelled, pausing the configured
// interval after each one. clean applies to the first pass only. A failed
// pass stops the loop and its error is returned. Cancellation, including a
// pass interrupted by it, returns nil.
func (s *Scheduler) RunForever(ctx context.Context, clean bool) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.RunOnce(ctx, clean); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		clean = false

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.interval):
		}
	}
}
