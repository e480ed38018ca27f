package event

import "context"

// Store persists Event records keyed by a store-assigned id.
// Implementations validate Fields before writing and report a missing id
// with ErrNotFound.
type Store interface {
	// List returns every stored event. Order is not part of the contract.
	List(ctx context.Context) ([]Event, error)
	// Create assigns a fresh id and persists the record.
	Create(ctx context.Context, f Fields) (*Event, error)
	// GetByID returns the record with the given id.
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Update replaces every mutable field of an existing record.
	Update(ctx context.Context, id int64, f Fields) (*Event, error)
	// Delete removes the record permanently.
	Delete(ctx context.Context, id int64) error
}
