package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

const productColumns = `p.id, p.name, p.quantity, p.arrival_date, p.expiry_date, p.is_write_off_allowed, p.category_id, c.name`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id`

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct{ db *DB }

func NewProductRepository(db *DB) *ProductRepository { return &ProductRepository{db: db} }

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
INSERT INTO products (name, quantity, arrival_date, expiry_date, is_write_off_allowed, category_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q,
		p.Name, p.Quantity, p.ArrivalDate, p.ExpiryDate, p.IsWriteOffAllowed, p.CategoryID,
	).Scan(&p.ID)
	return mapError("insert product", err, nil, nil)
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.Pool.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError("select product", err, domain.ErrProductNotFound, nil)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var w where
	if f.Search != "" {
		w.add("p.name ILIKE ?", likePattern(f.Search))
	}
	if f.CategoryID > 0 {
		w.add("p.category_id = ?", f.CategoryID)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM products p`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count products", err, nil, nil)
	}

	order := ` ORDER BY p.arrival_date DESC, p.id DESC`
	if f.Sort == domain.SortAsc {
		order = ` ORDER BY p.arrival_date ASC, p.id ASC`
	}
	limit, args := w.page(f.Page)
	rows, err := r.db.Pool.Query(ctx, `SELECT `+productColumns+productFrom+w.String()+order+limit, args...)
	if err != nil {
		return nil, 0, mapError("list products", err, nil, nil)
	}
	defer rows.Close()

	out := make([]*domain.Product, 0, f.Page.Size)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return out, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
UPDATE products
SET name = $2, quantity = $3, arrival_date = $4, expiry_date = $5, is_write_off_allowed = $6, category_id = $7
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q,
		p.ID, p.Name, p.Quantity, p.ArrivalDate, p.ExpiryDate, p.IsWriteOffAllowed, p.CategoryID,
	)
	if err != nil {
		return mapError("update product", err, nil, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err, nil, nil)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ok bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&ok)
	return ok, mapError("product exists", err, nil, nil)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p   domain.Product
		cat domain.Category
	)
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.ArrivalDate, &p.ExpiryDate, &p.IsWriteOffAllowed, &p.CategoryID, &cat.Name)
	if err != nil {
		return nil, err
	}
	cat.ID = p.CategoryID
	p.Category = &cat
	return &p, nil
}
