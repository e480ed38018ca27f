// Package snapshot exports the stored events as JSON Lines to local files or
// S3-compatible object storage, once or on a schedule.
package snapshot

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/jensholdgaard/eventdesk/internal/clock"
	"github.com/jensholdgaard/eventdesk/internal/event"
)

// FormatVersion is written in the header of every export.
const FormatVersion = "1"

// Lister is the read side of event.Store that exports need.
type Lister interface {
	List(ctx context.Context) ([]event.Event, error)
}

// Header is the first JSONL record of an export.
type Header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EventCount int       `json:"event_count"`
}

// Record wraps one stored event.
type Record struct {
	Type string      `json:"type"`
	Data event.Event `json:"data"`
}

// ExportJSONL writes a header line followed by one line per stored event,
// ordered by id. Reference events are not part of the export.
func ExportJSONL(ctx context.Context, l Lister, clk clock.Clock, w io.Writer) error {
	events, err := l.List(ctx)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	events = slices.Clone(events)
	slices.SortFunc(events, func(a, b event.Event) int { return cmp.Compare(a.ID, b.ID) })

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:    FormatVersion,
		Type:       "header",
		Timestamp:  clk.Now().UTC(),
		EventCount: len(events),
	}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range events {
		if err := enc.Encode(Record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("writing event %d: %w", e.ID, err)
		}
	}
	return nil
}
