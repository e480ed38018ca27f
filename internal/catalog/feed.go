package catalog

import (
	"fmt"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

// FeedEntry is the public listing shape of one event.
type FeedEntry struct {
	StrEvent  string `json:"strEvent"`
	DateEvent string `json:"dateEvent"`
	Venue     string `json:"venue"`
	Price     string `json:"price"`
}

// ReferenceFeed returns a fresh copy of the fixed listing that heads every
// feed. It differs from the report's reference events in titles, one venue
// and whole-dollar prices.
func ReferenceFeed() []FeedEntry {
	return []FeedEntry{
		{StrEvent: "USF Bulls vs UCF Knights", DateEvent: "2025-10-25", Venue: "USF Stadium, Tampa", Price: "$30"},
		{StrEvent: "Buccaneers vs Saints", DateEvent: "2025-11-02", Venue: "Raymond James Stadium", Price: "$80"},
		{StrEvent: "Tampa Bay Lightning vs Hurricanes", DateEvent: "2025-11-06", Venue: "Amalie Arena", Price: "$60"},
		{StrEvent: "Rowdies vs Orlando City", DateEvent: "2025-11-14", Venue: "Al Lang Stadium", Price: "$35"},
		{StrEvent: "USF Volleyball vs Miami", DateEvent: "2025-11-10", Venue: "Yuengling Center", Price: "$22"},
		{StrEvent: "USF Basketball vs Florida Gators", DateEvent: "2025-12-05", Venue: "Yuengling Center", Price: "$35"},
		{StrEvent: "Buccaneers vs Falcons", DateEvent: "2025-11-16", Venue: "Raymond James Stadium", Price: "$85"},
		{StrEvent: "Tampa Bay Lightning vs Panthers", DateEvent: "2025-11-15", Venue: "Amalie Arena", Price: "$70"},
		{StrEvent: "Rowdies vs Miami FC", DateEvent: "2025-11-25", Venue: "Al Lang Stadium", Price: "$38"},
		{StrEvent: "USF Soccer vs FIU", DateEvent: "2026-01-08", Venue: "Corbett Stadium", Price: "$18"},
	}
}

// NewFeed returns ReferenceFeed followed by the stored events in order.
// Only stored prices go through FormatPrice.
func NewFeed(stored []event.Event) []FeedEntry {
	out := append(make([]FeedEntry, 0, 10+len(stored)), ReferenceFeed()...)
	for _, e := range stored {
		out = append(out, FeedEntry{
			StrEvent:  e.Title,
			DateEvent: e.Date,
			Venue:     e.Location,
			Price:     FormatPrice(e.Price),
		})
	}
	return out
}

// FormatPrice renders a price as dollars with two decimals.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}
