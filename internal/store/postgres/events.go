package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

// EventRepo implements event.Store with sqlx.
type EventRepo struct {
	db *sqlx.DB
}

var _ event.Store = (*EventRepo)(nil)

// NewEventRepo returns a new EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) List(ctx context.Context) ([]event.Event, error) {
	events := []event.Event{}
	err := r.db.SelectContext(ctx, &events,
		`SELECT id, title, date, location, price FROM events ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

func (r *EventRepo) Create(ctx context.Context, f event.Fields) (*event.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO events (title, date, location, price) VALUES ($1, $2, $3, $4) RETURNING id`,
		f.Title, f.Date, f.Location, f.Price,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	e := f.With(id)
	return &e, nil
}

func (r *EventRepo) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	var e event.Event
	err := r.db.GetContext(ctx, &e,
		`SELECT id, title, date, location, price FROM events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, event.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting event %d: %w", id, err)
	}
	return &e, nil
}

func (r *EventRepo) Update(ctx context.Context, id int64, f event.Fields) (*event.Event, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = $1, date = $2, location = $3, price = $4 WHERE id = $5`,
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting event %d: %w", id, err)
	}
	return requireRow(result, id)
}

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
