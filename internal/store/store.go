// Package store provides the canonical schedule store interface and its SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

// ErrNotFound is returned when a lookup names an item that is not stored.
var ErrNotFound = errors.New("not found")

// ListParams holds parameters for listing items.
type ListParams struct {
	Category string
	Group    string
	Limit    int
	Offset   int
}

// Store defines the canonical store interface.
type Store interface {
	// Replace clears all items, relations and constraints and writes b in
	// one transaction, then records one load_meta row. Returns the stored
	// metadata with its ID and timestamp filled in.
	Replace(ctx context.Context, b *model.Batch) (model.LoadMeta, error)

	// Get returns one item joined with its relations and constraints.
	Get(ctx context.Context, itemNum string) (*model.ItemAggregate, error)

	// List lists items matching the given filters in item number order.
	List(ctx context.Context, p ListParams) ([]model.Record, error)

	// Close closes the store.
	Close() error
}
