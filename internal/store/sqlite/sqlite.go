// Package sqlite provides a SQLite-backed implementation of the product
// store port. It keeps grid order in an explicit position column so create
// prepends and update preserves position exactly like the memory adapter.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goline/ams/internal/store"
	"github.com/goline/ams/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	price     REAL NOT NULL,
	image_src TEXT NOT NULL DEFAULT '',
	pos       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS products_pos ON products (pos);
`

// Store implements store.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path and runs the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// The driver serializes writes through a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Seed(ctx context.Context, products []types.Product) error {
	if len(products) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		// Already seeded (or carrying prior-session state).
		return nil
	}
	if err := insertAll(ctx, tx, products); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Replace(ctx context.Context, products []types.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return err
	}
	if err := insertAll(ctx, tx, products); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAll(ctx context.Context, tx *sql.Tx, products []types.Product) error {
	for i, p := range products {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, price, image_src, pos) VALUES (?, ?, ?, ?, ?)`,
			id, p.Name, p.Price, p.ImageSrc, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Create(ctx context.Context, in store.ProductInput) (types.Product, error) {
	p := types.Product{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Price:    in.Price,
		ImageSrc: in.ImageSrc,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, price, image_src, pos)
		 SELECT ?, ?, ?, ?, COALESCE(MIN(pos), 0) - 1 FROM products`,
		p.ID, p.Name, p.Price, p.ImageSrc)
	if err != nil {
		return types.Product{}, err
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, id string, in store.ProductInput) error {
	// pos untouched: updates keep their slot. Zero rows affected (unknown
	// id) is tolerated silently.
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, image_src = ? WHERE id = ?`,
		in.Name, in.Price, in.ImageSrc, id)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (types.Product, bool, error) {
	var p types.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, image_src FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.ImageSrc)
	if err == sql.ErrNoRows {
		return types.Product{}, false, nil
	}
	if err != nil {
		return types.Product{}, false, err
	}
	return p, true, nil
}

func (s *Store) Filter(ctx context.Context, term string) ([]types.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, image_src FROM products ORDER BY pos ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Matching happens in Go: SQLite's LOWER only folds ASCII, and names
	// here are routinely non-ASCII.
	term = strings.TrimSpace(term)
	q := strings.ToLower(term)

	var matched []types.Product
	for rows.Next() {
		var p types.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageSrc); err != nil {
			return nil, err
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, rows.Err()
}
