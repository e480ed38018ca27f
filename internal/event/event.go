// Package event defines the ticketed event record and the persistence
// contract that every store driver implements.
package event

import (
	"math"
	"unicode/utf8"
)

// Column limits shared by every store driver.
const (
	MaxTitleLen    = 200
	MaxDateLen     = 100
	MaxLocationLen = 200
)

// Event is one ticketed occurrence.
type Event struct {
	ID       int64   `json:"id" db:"id"`
	Title    string  `json:"title" db:"title"`
	Date     string  `json:"date" db:"date"`
	Location string  `json:"location" db:"location"`
	Price    float64 `json:"price" db:"price"`
}

// Fields holds the mutable part of an Event, as supplied on create and update.
type Fields struct {
	Title    string
	Date     string
	Location string
	Price    float64
}

// Fields returns the mutable part of e.
func (e Event) Fields() Fields {
	return Fields{Title: e.Title, Date: e.Date, Location: e.Location, Price: e.Price}
}

// Validate reports the first field that cannot be stored.
// Only an empty title, an oversized column or a negative/non-finite price is
// rejected; empty date and location are legal.
func (f Fields) Validate() error {
	switch {
	case f.Title == "":
		return &ValidationError{Field: "title", Reason: "is required"}
	case utf8.RuneCountInString(f.Title) > MaxTitleLen:
		return &ValidationError{Field: "title", Reason: "is too long"}
	case utf8.RuneCountInString(f.Date) > MaxDateLen:
		return &ValidationError{Field: "date", Reason: "is too long"}
	case utf8.RuneCountInString(f.Location) > MaxLocationLen:
		return &ValidationError{Field: "location", Reason: "is too long"}
	case math.IsNaN(f.Price) || math.IsInf(f.Price, 0):
		return &ValidationError{Field: "price", Reason: "must be a number"}
	case f.Price < 0:
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// With returns a copy of f applied to the record with the given id.
func (f Fields) With(id int64) Event {
	return Event{ID: id, Title: f.Title, Date: f.Date, Location: f.Location, Price: f.Price}
}
