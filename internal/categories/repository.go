// Package categories serves the fixed category reference data.
package categories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macerhappen/backend/internal/models"
)

// Repository handles category persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a categories repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountExisting returns how many of ids name an existing category.
func (r *Repository) CountExisting(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, ids).Scan(&n)
	return n, err
}

// Seed inserts the named categories that do not exist yet and returns how many were added.
func (r *Repository) Seed(ctx context.Context, names []string) (int, error) {
	tag, err := r.pool.Exec(ctx, `INSERT INTO categories (name) SELECT UNNEST($1::text[]) ON CONFLICT (name) DO NOTHING`, names)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
