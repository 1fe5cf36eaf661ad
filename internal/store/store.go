// Package store holds the session-local product list. The Store interface
// is the port the page handlers depend on; memory and sqlite adapters
// implement it so the ephemeral default can be swapped for a persistent
// backend without touching the form engine or the interpreter.
package store

import (
	"context"

	"github.com/goline/ams/internal/types"
)

// ProductInput is the product-shaped payload the form engine emits on a
// validated submit. It never carries an ID; the store assigns one on create.
type ProductInput struct {
	Name     string
	Price    float64
	ImageSrc string
}

// Store is the authoritative product list for a session.
//
// Seed initializes the list exactly once from the fetched envelope; later
// calls and empty lists are ignored. Replace is the explicit-refresh path:
// it discards the current contents, local edits included, and re-arms Seed
// semantics with the given list. Update of an unknown id is a silent no-op.
type Store interface {
	Seed(ctx context.Context, products []types.Product) error
	Replace(ctx context.Context, products []types.Product) error
	Create(ctx context.Context, in ProductInput) (types.Product, error)
	Update(ctx context.Context, id string, in ProductInput) error
	Get(ctx context.Context, id string) (types.Product, bool, error)
	// Filter returns products whose name contains term, case-insensitively.
	// A blank or whitespace-only term returns the full list.
	Filter(ctx context.Context, term string) ([]types.Product, error)
}
