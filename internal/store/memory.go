package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goline/ams/internal/types"
)

// MemoryStore implements Store using an in-memory slice. This is the default
// adapter: products live for the lifetime of the process and are lost on
// restart, mirroring a single page session.
type MemoryStore struct {
	mu       sync.RWMutex
	products []types.Product
	seeded   bool
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Seed(_ context.Context, products []types.Product) error {
	if len(products) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return nil
	}
	s.products = append([]types.Product(nil), products...)
	s.seeded = true
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, products []types.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]types.Product(nil), products...)
	s.seeded = len(products) > 0
	return nil
}

func (s *MemoryStore) Create(_ context.Context, in ProductInput) (types.Product, error) {
	p := types.Product{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Price:    in.Price,
		ImageSrc: in.ImageSrc,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Newest first, matching the grid's display order.
	s.products = append([]types.Product{p}, s.products...)
	return p, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, in ProductInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = types.Product{
				ID:       id,
				Name:     in.Name,
				Price:    in.Price,
				ImageSrc: in.ImageSrc,
			}
			return nil
		}
	}
	// Unknown id: tolerated silently, the list is left unchanged.
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (types.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return types.Product{}, false, nil
}

func (s *MemoryStore) Filter(_ context.Context, term string) ([]types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.TrimSpace(term)
	if term == "" {
		return append([]types.Product(nil), s.products...), nil
	}
	q := strings.ToLower(term)
	var matched []types.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
