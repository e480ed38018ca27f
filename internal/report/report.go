// Package report derives the chart views shown next to the event list:
// mean price per title, event count per venue and a date-ordered price
// series. Everything here is a pure function of its input.
package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

// DatePrice is one point of the price-over-time series.
type DatePrice struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Summary holds the three aggregation views.
type Summary struct {
	AveragePriceByTitle map[string]float64 `json:"avg_price_by_title"`
	CountByLocation     map[string]int     `json:"count_by_location"`
	DateSeries          []DatePrice        `json:"date_price_pairs"`
}

// Compute aggregates events in a single pass and then sorts the date series.
//
// Titles and locations are grouped by exact string value. The series is
// ordered by plain string comparison of Date, so only YYYY-MM-DD dates sort
// chronologically; equal dates are ordered by price.
func Compute(events []event.Event) Summary {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	s := Summary{
		AveragePriceByTitle: make(map[string]float64),
		CountByLocation:     make(map[string]int),
		DateSeries:          make([]DatePrice, 0, len(events)),
	}

	for _, e := range events {
		sums[e.Title] += e.Price
		counts[e.Title]++
		s.CountByLocation[e.Location]++
		s.DateSeries = append(s.DateSeries, DatePrice{Date: e.Date, Price: e.Price})
	}

	for title, sum := range sums {
		s.AveragePriceByTitle[title] = sum / float64(counts[title])
	}

	slices.SortStableFunc(s.DateSeries, func(a, b DatePrice) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Price, b.Price)
	})

	return s
}

// Combine returns the reference dataset followed by stored.
func Combine(stored []event.Event) []event.Event {
	return append(ReferenceEvents(), stored...)
}
