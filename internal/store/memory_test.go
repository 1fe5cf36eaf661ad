package store

import (
	"context"
	"testing"

	"github.com/goline/ams/internal/types"
)

func TestMemoryStore_SeedOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := []types.Product{{ID: "p-1", Name: "Áo thun", Price: 150000}}
	if err := s.Seed(ctx, first); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// A second seed must not fire.
	if err := s.Seed(ctx, []types.Product{{ID: "p-2", Name: "Quần jean", Price: 250000}}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	got, err := s.Filter(ctx, "")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p-1" {
		t.Errorf("expected only the first seed to apply, got %v", got)
	}
}

func TestMemoryStore_SeedEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Seed(ctx, nil); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// An empty fetch must not consume the one-time seed.
	if err := s.Seed(ctx, []types.Product{{ID: "p-1", Name: "Áo khoác", Price: 500000}}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	got, _ := s.Filter(ctx, "")
	if len(got) != 1 {
		t.Errorf("products = %d, want 1", len(got))
	}
}

func TestMemoryStore_CreatePrependsAndAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(ctx, []types.Product{{ID: "p-1", Name: "Áo thun", Price: 150000}})

	a, err := s.Create(ctx, ProductInput{Name: "Quần jean", Price: 250000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := s.Create(ctx, ProductInput{Name: "Nón lưỡi trai", Price: 90000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}

	got, _ := s.Filter(ctx, "")
	if len(got) != 3 {
		t.Fatalf("products = %d, want 3", len(got))
	}
	if got[0].ID != b.ID || got[1].ID != a.ID || got[2].ID != "p-1" {
		t.Errorf("expected newest-first order, got %v", got)
	}
}

func TestMemoryStore_FilterCaseInsensitiveUnicode(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Create(ctx, ProductInput{Name: "Áo thun", Price: 150000})

	got, err := s.Filter(ctx, "áo")
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Áo thun" {
		t.Errorf("Filter(%q) = %v, want the created product", "áo", got)
	}

	got, _ = s.Filter(ctx, "xyz-not-present")
	if len(got) != 0 {
		t.Errorf("Filter(miss) = %v, want empty", got)
	}
}

func TestMemoryStore_FilterBlankTermReturnsAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Create(ctx, ProductInput{Name: "Áo thun", Price: 150000})
	s.Create(ctx, ProductInput{Name: "Quần jean", Price: 250000})

	got, _ := s.Filter(ctx, "   ")
	if len(got) != 2 {
		t.Errorf("Filter(blank) = %d products, want 2", len(got))
	}
}

func TestMemoryStore_UpdatePreservesPosition(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(ctx, []types.Product{
		{ID: "p-1", Name: "Áo thun", Price: 150000},
		{ID: "p-2", Name: "Quần jean", Price: 250000},
		{ID: "p-3", Name: "Nón lưỡi trai", Price: 90000},
	})

	if err := s.Update(ctx, "p-2", ProductInput{Name: "New Name", Price: 99}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Filter(ctx, "")
	if got[1].ID != "p-2" || got[1].Name != "New Name" || got[1].Price != 99 {
		t.Errorf("entry at position 1 = %+v, want updated p-2", got[1])
	}
	if got[0].ID != "p-1" || got[2].ID != "p-3" {
		t.Errorf("neighbours moved: %v", got)
	}
}

func TestMemoryStore_UpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(ctx, []types.Product{{ID: "p-1", Name: "Áo thun", Price: 150000}})

	if err := s.Update(ctx, "no-such-id", ProductInput{Name: "X", Price: 1}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Filter(ctx, "")
	if len(got) != 1 || got[0].Name != "Áo thun" || got[0].Price != 150000 {
		t.Errorf("list changed on unknown-id update: %v", got)
	}
}

func TestMemoryStore_ReplaceDiscardsLocalEdits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed(ctx, []types.Product{{ID: "p-1", Name: "Áo thun", Price: 150000}})
	s.Create(ctx, ProductInput{Name: "Local only", Price: 1})

	fresh := []types.Product{{ID: "p-9", Name: "Server truth", Price: 9}}
	if err := s.Replace(ctx, fresh); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, _ := s.Filter(ctx, "")
	if len(got) != 1 || got[0].ID != "p-9" {
		t.Errorf("Replace kept local edits: %v", got)
	}
}

func TestMemoryStore_Get(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, _ := s.Create(ctx, ProductInput{Name: "Áo thun", Price: 150000})

	got, ok, err := s.Get(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("Get(%q) = %v, %v, %v", p.ID, got, ok, err)
	}
	if got.Name != "Áo thun" {
		t.Errorf("name = %q", got.Name)
	}
	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Errorf("Get(missing) reported found")
	}
}
