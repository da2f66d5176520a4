// Package history records generated diagrams so links can be retrieved
// later.
//
// This package defines an interface for history storage, with
// implementations for different backends:
//   - file: JSON files in a config directory, for CLI use
//   - mongo: MongoDB collection, for server deployments
//
// Entries are append-only; there is no update path. The server records one
// entry per successful generation, the CLI only when asked to.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/mlenz/drawbridge/pkg/graph"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("not found")

// Entry is one recorded diagram generation.
type Entry struct {
	ID        string        `json:"id" bson:"_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Nodes     int           `json:"nodes" bson:"nodes"`
	Edges     int           `json:"edges" bson:"edges"`
	URL       string        `json:"url" bson:"url"`
	Request   graph.Request `json:"request" bson:"request"`
}

// Store is the interface for history storage backends.
type Store interface {
	// Record stores an entry. The entry's ID must be set by the caller.
	Record(ctx context.Context, e *Entry) error

	// Get retrieves an entry by ID.
	// Returns ErrNotFound if no entry exists.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns the most recent entries, newest first, at most limit.
	List(ctx context.Context, limit int) ([]*Entry, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NullStore discards every entry. Used when history is disabled.
type NullStore struct{}

// NewNullStore creates a store that records nothing.
func NewNullStore() *NullStore { return &NullStore{} }

func (*NullStore) Record(ctx context.Context, e *Entry) error { return nil }

func (*NullStore) Get(ctx context.Context, id string) (*Entry, error) {
	return nil, ErrNotFound
}

func (*NullStore) List(ctx context.Context, limit int) ([]*Entry, error) {
	return nil, nil
}

func (*NullStore) Close(ctx context.Context) error { return nil }

var _ Store = (*NullStore)(nil)
