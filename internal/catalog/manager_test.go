package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jensholdgaard/eventdesk/internal/catalog"
	"github.com/jensholdgaard/eventdesk/internal/clock"
	"github.com/jensholdgaard/eventdesk/internal/event"
	"github.com/jensholdgaard/eventdesk/internal/event/eventtest"
	"github.com/jensholdgaard/eventdesk/internal/notify"
)

var (
	testTP     = noop.NewTracerProvider()
	testMP     = metricnoop.NewMeterProvider()
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	testNow    = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
)

// recordingPublisher implements notify.Publisher and remembers what was sent.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newTestManager(t *testing.T, store event.Store, pub notify.Publisher) *catalog.Manager {
	t.Helper()
	m, err := catalog.NewManager(store, pub, clock.Fixed(testNow), testLogger, testTP, testMP)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestManager_CreateEvent(t *testing.T) {
	tests := []struct {
		name        string
		fields      event.Fields
		wantErr     bool
		wantInvalid bool
	}{
		{
			name:   "valid event",
			fields: event.Fields{Title: "Lightning vs Panthers", Date: "2025-11-15", Location: "Amalie Arena", Price: 70},
		},
		{
			name:   "title only",
			fields: event.Fields{Title: "Open Mic"},
		},
		{
			name:        "missing title",
			fields:      event.Fields{Location: "Nowhere"},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:        "negative price",
			fields:      event.Fields{Title: "Refund Night", Price: -5},
			wantErr:     true,
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			m := newTestManager(t, eventtest.NewStore(), pub)

			got, err := m.CreateEvent(context.Background(), tt.fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if event.IsValidation(err) != tt.wantInvalid {
				t.Errorf("IsValidation(%v) = %v, want %v", err, !tt.wantInvalid, tt.wantInvalid)
			}
			if tt.wantErr {
				if len(pub.subjects) != 0 {
					t.Errorf("published %v after failed create", pub.subjects)
				}
				return
			}
			if got.ID == 0 || got.Fields() != tt.fields {
				t.Errorf("CreateEvent() = %+v, want fields %+v with an id", got, tt.fields)
			}
			if len(pub.subjects) != 1 || pub.subjects[0] != notify.SubjectEventCreated {
				t.Fatalf("published %v, want [%s]", pub.subjects, notify.SubjectEventCreated)
			}
			if p, ok := pub.payloads[0].(notify.EventCreated); !ok || p.Event != *got {
				t.Errorf("payload = %#v, want EventCreated for %+v", pub.payloads[0], got)
			}
		})
	}
}

func TestManager_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := eventtest.NewStore()
	pub := &recordingPublisher{err: errors.New("nats down")}
	m := newTestManager(t, store, pub)
	ctx := context.Background()

	e, err := m.CreateEvent(ctx, event.Fields{Title: "Still Stored"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v, want nil despite publish failure", err)
	}
	if _, err := store.GetByID(ctx, e.ID); err != nil {
		t.Errorf("event not stored: %v", err)
	}
}

func TestManager_UpdateAndDelete(t *testing.T) {
	store := eventtest.NewStore(event.Fields{Title: "A", Date: "2025-01-01", Location: "X", Price: 10})
	pub := &recordingPublisher{}
	m := newTestManager(t, store, pub)
	ctx := context.Background()

	updated, err := m.UpdateEvent(ctx, 1, event.Fields{Title: "B", Price: 12})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Location != "" || updated.Date != "" {
		t.Errorf("UpdateEvent kept old fields: %+v", updated)
	}

	if err := m.DeleteEvent(ctx, 1); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if _, err := m.GetEvent(ctx, 1); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("GetEvent after delete error = %v, want ErrNotFound", err)
	}

	want := []string{notify.SubjectEventUpdated, notify.SubjectEventDeleted}
	if len(pub.subjects) != len(want) || pub.subjects[0] != want[0] || pub.subjects[1] != want[1] {
		t.Errorf("published %v, want %v", pub.subjects, want)
	}
	if p, ok := pub.payloads[1].(notify.EventDeleted); !ok || p.EventID != 1 {
		t.Errorf("delete payload = %#v", pub.payloads[1])
	}
}

func TestManager_MissingID(t *testing.T) {
	pub := &recordingPublisher{}
	m := newTestManager(t, eventtest.NewStore(), pub)
	ctx := context.Background()

	if _, err := m.GetEvent(ctx, 42); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("GetEvent error = %v, want ErrNotFound", err)
	}
	if _, err := m.UpdateEvent(ctx, 42, event.Fields{Title: "x"}); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("UpdateEvent error = %v, want ErrNotFound", err)
	}
	if err := m.DeleteEvent(ctx, 42); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("DeleteEvent error = %v, want ErrNotFound", err)
	}
	if len(pub.subjects) != 0 {
		t.Errorf("published %v for missing ids", pub.subjects)
	}
}

func TestManager_Report(t *testing.T) {
	store := eventtest.NewStore(
		event.Fields{Title: "Buccaneers vs Saints", Date: "2025-09-01", Location: "Raymond James Stadium", Price: 100},
	)
	m := newTestManager(t, store, notify.NoopPublisher{})

	got, err := m.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got.EventCount != 11 {
		t.Errorf("EventCount = %d, want 11", got.EventCount)
	}
	if !got.GeneratedAt.Equal(testNow) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, testNow)
	}
	if avg := got.AveragePriceByTitle["Buccaneers vs Saints"]; avg != 90 {
		t.Errorf("avg[Buccaneers vs Saints] = %v, want 90", avg)
	}
	if n := got.CountByLocation["Raymond James Stadium"]; n != 3 {
		t.Errorf("count[Raymond James Stadium] = %d, want 3", n)
	}
	if first := got.DateSeries[0]; first.Date != "2025-09-01" || first.Price != 100 {
		t.Errorf("first point = %+v, want stored event", first)
	}
}

func TestManager_Report_EmptyStore(t *testing.T) {
	m := newTestManager(t, eventtest.NewStore(), notify.NoopPublisher{})

	got, err := m.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got.EventCount != 10 || len(got.DateSeries) != 10 {
		t.Errorf("report over reference only: count=%d series=%d, want 10", got.EventCount, len(got.DateSeries))
	}
	if avg := got.AveragePriceByTitle["USF Soccer vs FIU"]; avg != 18 {
		t.Errorf("avg[USF Soccer vs FIU] = %v, want 18", avg)
	}
}

func TestManager_StoreFailure(t *testing.T) {
	store := eventtest.NewStore()
	store.Err = errors.New("disk on fire")
	m := newTestManager(t, store, notify.NoopPublisher{})
	ctx := context.Background()

	if _, err := m.Report(ctx); !errors.Is(err, store.Err) {
		t.Errorf("Report error = %v, want wrapped store error", err)
	}
	if _, err := m.Feed(ctx); !errors.Is(err, store.Err) {
		t.Errorf("Feed error = %v, want wrapped store error", err)
	}
	if _, err := m.ListEvents(ctx); !errors.Is(err, store.Err) {
		t.Errorf("ListEvents error = %v, want wrapped store error", err)
	}
}

func TestManager_Feed(t *testing.T) {
	store := eventtest.NewStore(event.Fields{Title: "Jazz Night", Date: "2025-12-31", Location: "Tampa Theatre", Price: 12.5})
	m := newTestManager(t, store, notify.NoopPublisher{})

	got, err := m.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(got) != 11 {
		t.Fatalf("len(Feed) = %d, want 11", len(got))
	}
	tests := []struct {
		idx  int
		want catalog.FeedEntry
	}{
		{0, catalog.FeedEntry{StrEvent: "USF Bulls vs UCF Knights", DateEvent: "2025-10-25", Venue: "USF Stadium, Tampa", Price: "$30"}},
		{2, catalog.FeedEntry{StrEvent: "Tampa Bay Lightning vs Hurricanes", DateEvent: "2025-11-06", Venue: "Amalie Arena", Price: "$60"}},
		{7, catalog.FeedEntry{StrEvent: "Tampa Bay Lightning vs Panthers", DateEvent: "2025-11-15", Venue: "Amalie Arena", Price: "$70"}},
	}
	for _, tt := range tests {
		if got[tt.idx] != tt.want {
			t.Errorf("Feed[%d] = %+v, want %+v", tt.idx, got[tt.idx], tt.want)
		}
	}
	last := catalog.FeedEntry{StrEvent: "Jazz Night", DateEvent: "2025-12-31", Venue: "Tampa Theatre", Price: "$12.50"}
	if got[10] != last {
		t.Errorf("Feed[10] = %+v, want %+v", got[10], last)
	}
}

func TestReferenceFeed_FreshCopy(t *testing.T) {
	a := catalog.ReferenceFeed()
	a[0].Price = "free"
	if b := catalog.ReferenceFeed(); b[0].Price != "$30" {
		t.Errorf("ReferenceFeed()[0].Price = %q after mutating an earlier copy", b[0].Price)
	}
}

func TestManager_MutationMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := catalog.NewManager(eventtest.NewStore(), notify.NoopPublisher{}, clock.Fixed(testNow), testLogger, testTP, mp)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	ctx := context.Background()
	e, err := m.CreateEvent(ctx, event.Fields{Title: "A"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := m.UpdateEvent(ctx, e.ID, event.Fields{Title: "B"}); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if _, err := m.CreateEvent(ctx, event.Fields{}); err == nil {
		t.Fatal("expected validation error")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "eventdesk.events.mutations" {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("mutations data is %T, want Sum[int64]", md.Data)
			}
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("op")
				got[op.AsString()] += dp.Value
			}
		}
	}
	if got["create"] != 1 || got["update"] != 1 || len(got) != 2 {
		t.Errorf("mutations by op = %v, want create=1 update=1", got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{18, "$18.00"},
		{12.5, "$12.50"},
		{9.999, "$10.00"},
	}
	for _, tt := range tests {
		if got := catalog.FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
