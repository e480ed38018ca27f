// Package store selects and opens the event.Store implementation named by the
// database configuration. Driver packages register themselves from init().
package store

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/jensholdgaard/eventdesk/internal/config"
	"github.com/jensholdgaard/eventdesk/internal/event"
)

// Repositories groups what a store driver hands back to the caller.
type Repositories struct {
	Events event.Store
	// Closer is called to release underlying resources (e.g. DB connection).
	Closer io.Closer
	// Ping checks the underlying connection health.
	Ping func(ctx context.Context) error
}

// Close releases the driver's resources. It is safe on a nil Closer.
func (r *Repositories) Close() error {
	if r.Closer == nil {
		return nil
	}
	return r.Closer.Close()
}

// Driver opens a connection, creates the schema if needed and returns
// Repositories.
type Driver func(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error)

// registry maps driver names to their factory functions.
var registry = map[string]Driver{}

// Register adds a named driver to the global registry.
// It is intended to be called from init() in each driver package.
func Register(name string, d Driver) {
	registry[name] = d
}

// Open selects the driver specified in cfg.Driver and returns Repositories.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error) {
	d, ok := registry[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown store driver %q (registered: %v)", cfg.Driver, Drivers())
	}
	return d(ctx, cfg)
}

// Drivers returns the registered driver names in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return slices.Clip(names)
}
