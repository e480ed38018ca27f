// Package catalog is the service layer over the event store. Every
// presentation surface (HTTP, Discord, CLI) goes through Manager.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/eventdesk/internal/clock"
	"github.com/jensholdgaard/eventdesk/internal/event"
	"github.com/jensholdgaard/eventdesk/internal/notify"
	"github.com/jensholdgaard/eventdesk/internal/report"
)

const instrumentationName = "github.com/jensholdgaard/eventdesk/internal/catalog"

// Report is a report.Summary over the reference and stored events.
type Report struct {
	report.Summary
	EventCount  int       `json:"event_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Manager handles catalog operations.
type Manager struct {
	events    event.Store
	publisher notify.Publisher
	clock     clock.Clock
	logger    *slog.Logger
	tracer    trace.Tracer

	mutations   metric.Int64Counter
	reportSizes metric.Int64Histogram
}

// NewManager returns a new catalog Manager.
func NewManager(events event.Store, pub notify.Publisher, clk clock.Clock, logger *slog.Logger, tp trace.TracerProvider, mp metric.MeterProvider) (*Manager, error) {
	meter := mp.Meter(instrumentationName)
	mutations, err := meter.Int64Counter("eventdesk.events.mutations",
		metric.WithDescription("Successful event creates, updates and deletes."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mutations counter: %w", err)
	}
	reportSizes, err := meter.Int64Histogram("eventdesk.report.events",
		metric.WithDescription("Number of events aggregated per report."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating report histogram: %w", err)
	}
	return &Manager{
		events:      events,
		publisher:   pub,
		clock:       clk,
		logger:      logger,
		tracer:      tp.Tracer(instrumentationName),
		mutations:   mutations,
		reportSizes: reportSizes,
	}, nil
}

// ListEvents returns every stored event.
func (m *Manager) ListEvents(ctx context.Context) ([]event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.ListEvents")
	defer span.End()

	events, err := m.events.List(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("listing events: %w", err)
	}
	span.SetAttributes(attribute.Int("event_count", len(events)))
	return events, nil
}

// CreateEvent validates and stores a new event.
func (m *Manager) CreateEvent(ctx context.Context, f event.Fields) (*event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.CreateEvent",
		trace.WithAttributes(attribute.String("title", f.Title)),
	)
	defer span.End()

	e, err := m.events.Create(ctx, f)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("creating event: %w", err)
	}
	span.SetAttributes(attribute.Int64("event_id", e.ID))

	m.mutated(ctx, "create")
	m.publish(ctx, notify.SubjectEventCreated, notify.EventCreated{Event: *e})
	m.logger.InfoContext(ctx, "event created",
		slog.Int64("event_id", e.ID),
		slog.String("title", e.Title),
	)
	return e, nil
}

// GetEvent returns a stored event by id.
func (m *Manager) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.GetEvent",
		trace.WithAttributes(attribute.Int64("event_id", id)),
	)
	defer span.End()

	e, err := m.events.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return e, nil
}

// UpdateEvent replaces every mutable field of an existing event.
func (m *Manager) UpdateEvent(ctx context.Context, id int64, f event.Fields) (*event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.UpdateEvent",
		trace.WithAttributes(attribute.Int64("event_id", id)),
	)
	defer span.End()

	e, err := m.events.Update(ctx, id, f)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("updating event: %w", err)
	}

	m.mutated(ctx, "update")
	m.publish(ctx, notify.SubjectEventUpdated, notify.EventUpdated{Event: *e})
	m.logger.InfoContext(ctx, "event updated", slog.Int64("event_id", id))
	return e, nil
}

// DeleteEvent removes an event permanently.
func (m *Manager) DeleteEvent(ctx context.Context, id int64) error {
	ctx, span := m.tracer.Start(ctx, "Manager.DeleteEvent",
		trace.WithAttributes(attribute.Int64("event_id", id)),
	)
	defer span.End()

	if err := m.events.Delete(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting event: %w", err)
	}

	m.mutated(ctx, "delete")
	m.publish(ctx, notify.SubjectEventDeleted, notify.EventDeleted{EventID: id})
	m.logger.InfoContext(ctx, "event deleted", slog.Int64("event_id", id))
	return nil
}

// Report aggregates the reference events followed by every stored event.
func (m *Manager) Report(ctx context.Context) (*Report, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.Report")
	defer span.End()

	all, err := m.combined(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("building report: %w", err)
	}
	m.reportSizes.Record(ctx, int64(len(all)))
	span.SetAttributes(attribute.Int("event_count", len(all)))

	return &Report{
		Summary:     report.Compute(all),
		EventCount:  len(all),
		GeneratedAt: m.clock.Now().UTC(),
	}, nil
}

// Feed renders the reference listing followed by every stored event.
func (m *Manager) Feed(ctx context.Context) ([]FeedEntry, error) {
	ctx, span := m.tracer.Start(ctx, "Manager.Feed")
	defer span.End()

	stored, err := m.events.List(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("building feed: %w", err)
	}
	return NewFeed(stored), nil
}

func (m *Manager) combined(ctx context.Context) ([]event.Event, error) {
	stored, err := m.events.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.Combine(stored), nil
}

func (m *Manager) mutated(ctx context.Context, op string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// publish sends a change notification. The store write already succeeded, so
// failures are only logged.
func (m *Manager) publish(ctx context.Context, subject string, payload any) {
	if err := m.publisher.Publish(ctx, subject, payload); err != nil {
		m.logger.WarnContext(ctx, "failed to publish change notification",
			slog.String("subject", subject),
			slog.Any("error", err),
		)
	}
}
