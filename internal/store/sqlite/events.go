package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

// EventRepo implements event.Store using database/sql.
type EventRepo struct {
	db *sql.DB
}

var _ event.Store = (*EventRepo)(nil)

// NewEventRepo returns a new EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) List(ctx context.Context) ([]event.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, date, location, price FROM events ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	events := []event.Event{}
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Price); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepo) Create(ctx context.Context, f event.Fields) (*event.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, date, location, price) VALUES (?, ?, ?, ?)`,
		f.Title, f.Date, f.Location, f.Price,
	)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new event id: %w", err)
	}
	e := f.With(id)
	return &e, nil
}

func (r *EventRepo) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	e := &event.Event{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, date, location, price FROM events WHERE id = ?`, id,
	).Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, event.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting event %d: %w", id, err)
	}
	return e, nil
}

func (r *EventRepo) Update(ctx context.Context, id int64, f event.Fields) (*event.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, date = ?, location = ?, price = ? WHERE id = ?`,
		f.Title, f.Date, f.Location, f.Price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating event %d: %w", id, err)
	}
	if err := requireRow(result, id); err != nil {
		return nil, err
	}
	e := f.With(id)
	return &e, nil
}

func (r *EventRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event %d: %w", id, err)
	}
	return requireRow(result, id)
}

// requireRow maps a statement that touched no row to event.ErrNotFound.
func requireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("event %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("event %d: %w", id, event.ErrNotFound)
	}
	return nil
}
