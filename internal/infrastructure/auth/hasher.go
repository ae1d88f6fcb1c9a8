package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

var (
	errEmptyPassword   = domain.Invalid("password must not be empty")
	errPasswordTooLong = domain.Invalid("password must be at most 72 bytes")
)

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(raw string) (string, error) {
	if raw == "" {
		return "", errEmptyPassword
	}
	if len(raw) > maxPasswordBytes {
		return "", errPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify compares raw with hash. A match on a hash weaker than the current
// cost reports VerifyNeedsRehash.
func (h *BcryptHasher) Verify(hash, raw string) ports.VerifyResult {
	if hash == "" || raw == "" {
		return ports.VerifyFailure
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) != nil {
		return ports.VerifyFailure
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err == nil && cost < h.cost {
		return ports.VerifyNeedsRehash
	}
	return ports.VerifySuccess
}
