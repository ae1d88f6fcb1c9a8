package postgres

import (
	"context"
	"fmt"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct{ db *DB }

func NewCategoryRepository(db *DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, c.Name).Scan(&c.ID)
	return mapError("insert category", err, nil, nil)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `SELECT id, name FROM categories WHERE id = $1`
	var c domain.Category
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name); err != nil {
		return nil, mapError("select category", err, domain.ErrCategoryNotFound, nil)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, f ports.CategoryFilter) ([]*domain.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var w where
	if f.Search != "" {
		w.add("name ILIKE ?", likePattern(f.Search))
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM categories`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count categories", err, nil, nil)
	}

	limit, args := w.page(f.Page)
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name FROM categories`+w.String()+` ORDER BY id`+limit, args...)
	if err != nil {
		return nil, 0, mapError("list categories", err, nil, nil)
	}
	defer rows.Close()

	out := make([]*domain.Category, 0, f.Page.Size)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate categories: %w", err)
	}
	return out, total, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return mapError("update category", err, nil, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

// Delete removes the category. Its products go with it through ON DELETE CASCADE.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err, nil, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ok bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&ok)
	return ok, mapError("category exists", err, nil, nil)
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&n)
	return n, mapError("count categories", err, nil, nil)
}
