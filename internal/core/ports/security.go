package ports

import (
	"context"
	"time"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// VerifyResult is the outcome of checking a password against a stored hash.
type VerifyResult int

const (
	VerifyFailure VerifyResult = iota
	VerifySuccess
	// VerifyNeedsRehash means the password matched but the hash uses weaker
	// parameters than the current policy. The login must still be accepted.
	VerifyNeedsRehash
)

func (r VerifyResult) String() string {
	switch r {
	case VerifySuccess:
		return "success"
	case VerifyNeedsRehash:
		return "needs_rehash"
	default:
		return "failure"
	}
}

// PasswordHasher hashes and verifies passwords. Verify never fails with an error.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(hash, raw string) VerifyResult
}

// TokenService issues and verifies signed identity tokens.
type TokenService interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.Claims, error)
}

// TokenVerifier is the read side of TokenService used by the auth middleware.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// LoginLimiter throttles failed logins per (username, client address).
type LoginLimiter interface {
	// Allow reports whether a login attempt may proceed and, if not, for how long it is blocked.
	Allow(ctx context.Context, username, clientIP string) (bool, time.Duration, error)
	// Failure records a failed attempt and reports whether the pair is now blocked.
	Failure(ctx context.Context, username, clientIP string) (bool, error)
	// Success clears recorded failures.
	Success(ctx context.Context, username, clientIP string) error
}

// RehashJob asks for an upgraded password hash to be persisted. It never
// carries the plaintext password.
type RehashJob struct {
	UserID int64
	Hash   string
}

// RehashQueue accepts rehash jobs without blocking the caller.
type RehashQueue interface {
	Enqueue(job RehashJob) bool
}
