package ports

import (
	"context"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// UserFilter carries the list query for users.
type UserFilter struct {
	Search string // optional: case-insensitive substring of username
	Page   domain.Page
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts the user and sets its ID. A taken username yields domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	// Update overwrites username and role, and the password hash when non-empty.
	// It returns domain.ErrStaleWrite when no row matched.
	Update(ctx context.Context, user *domain.User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}
