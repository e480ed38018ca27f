package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jensholdgaard/eventdesk/internal/clock"
)

// Scheduler exports to every destination on a fixed interval.
type Scheduler struct {
	events       Lister
	destinations []Destination
	interval     time.Duration
	clock        clock.Clock
	logger       *slog.Logger
}

// NewScheduler creates a scheduler. interval must be positive.
func NewScheduler(events Lister, destinations []Destination, interval time.Duration, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		events:       events,
		destinations: destinations,
		interval:     interval,
		clock:        clk,
		logger:       logger,
	}
}

// Run exports once immediately and then on every tick until ctx is done.
// Failures are logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.InfoContext(ctx, "snapshot scheduler started",
		slog.Duration("interval", s.interval),
		slog.Int("destinations", len(s.destinations)),
	)
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.Export(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "snapshot failed", slog.Any("error", err))
	}
}

// Export writes one snapshot to every destination. A failing destination
// does not stop the others; their errors are joined.
func (s *Scheduler) Export(ctx context.Context) error {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.events, s.clock, &buf); err != nil {
		return fmt.Errorf("exporting events: %w", err)
	}
	data := buf.Bytes()

	var errs []error
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", dest, err))
			continue
		}
		s.logger.DebugContext(ctx, "snapshot written",
			slog.String("destination", dest.String()),
			slog.Int("bytes", len(data)),
		)
	}
	return errors.Join(errs...)
}
