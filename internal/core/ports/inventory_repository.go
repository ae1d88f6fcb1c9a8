package ports

import (
	"context"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// CategoryFilter carries the list query for categories.
type CategoryFilter struct {
	Search string // optional: case-insensitive substring of name
	Page   domain.Page
}

// ProductFilter carries the list query for products.
type ProductFilter struct {
	Search     string           // optional: case-insensitive substring of name
	CategoryID int64            // optional: 0 = all categories
	Sort       domain.SortOrder // by arrival date; empty = desc
	Page       domain.Page
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, int64, error)
	// Update returns domain.ErrStaleWrite when no row matched.
	Update(ctx context.Context, c *domain.Category) error
	// Delete removes the category and all of its products. It returns
	// domain.ErrCategoryNotFound when no row matched.
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ProductRepository defines persistence operations for products.
// Reads populate Product.Category.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
	// Update returns domain.ErrStaleWrite when no row matched.
	Update(ctx context.Context, p *domain.Product) error
	// Delete returns domain.ErrProductNotFound when no row matched.
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
