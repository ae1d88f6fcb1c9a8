package ports

import (
	"context"
	"time"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// LoginInput carries credentials plus the caller address used for throttling.
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}
