package ports

import (
	"context"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// PageResult is a page of items plus the total row count.
type PageResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

// CategoryService defines use-case operations for categories.
type CategoryService interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) (*PageResult[*domain.Category], error)
	Update(ctx context.Context, id int64, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// ProductService defines use-case operations for products.
type ProductService interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) (*PageResult[*domain.Product], error)
	Update(ctx context.Context, id int64, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// UserInput carries the writable fields of a user account.
type UserInput struct {
	ID       int64
	Username string
	Password string // empty on update = keep current password
	Role     domain.Role
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	// Create registers a user. caller is nil for anonymous requests, which are
	// only accepted while no user exists yet.
	Create(ctx context.Context, caller *domain.Identity, in UserInput) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) (*PageResult[*domain.User], error)
	Update(ctx context.Context, id int64, in UserInput) error
	Delete(ctx context.Context, id int64) error
}
