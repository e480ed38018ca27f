// Package eventtest provides an in-memory event.Store for tests.
package eventtest

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

// Store is a goroutine-safe in-memory event.Store. Ids start at 1 and are
// never reused. Setting Err makes every call fail with it. The zero value is
// an empty store.
type Store struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]event.Event

	Err error
}

var _ event.Store = (*Store)(nil)

// NewStore returns a Store pre-populated with seed, each assigned a fresh id.
func NewStore(seed ...event.Fields) *Store {
	s := &Store{rows: make(map[int64]event.Event)}
	for _, f := range seed {
		s.nextID++
		s.rows[s.nextID] = f.With(s.nextID)
	}
	return s
}

func (s *Store) List(_ context.Context) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := slices.Collect(maps.Values(s.rows))
	slices.SortFunc(out, func(a, b event.Event) int { return cmp.Compare(a.ID, b.ID) })
	if out == nil {
		out = []event.Event{}
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, f event.Fields) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	s.nextID++
	e := f.With(s.nextID)
	if s.rows == nil {
		s.rows = make(map[int64]event.Event)
	}
	s.rows[e.ID] = e
	return &e, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("event %d: %w", id, event.ErrNotFound)
	}
	return &e, nil
}

func (s *Store) Update(_ context.Context, id int64, f event.Fields) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if _, ok := s.rows[id]; !ok {
		return nil, fmt.Errorf("event %d: %w", id, event.ErrNotFound)
	}
	e := f.With(id)
	s.rows[id] = e
	return &e, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("event %d: %w", id, event.ErrNotFound)
	}
	delete(s.rows, id)
	return nil
}
