package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
)

// MinKeyLength is the shortest HS256 signing key accepted.
const MinKeyLength = 32

// TokenConfig is the immutable signing configuration.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

type tokenClaims struct {
	Role string `json:"role"`
	UID  string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// JWTService implements ports.TokenService with HS256.
type JWTService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type TokenOption func(*JWTService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TokenOption {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(cfg TokenConfig, opts ...TokenOption) (*JWTService, error) {
	if len(cfg.Key) < MinKeyLength {
		return nil, fmt.Errorf("jwt key must be at least %d bytes, got %d", MinKeyLength, len(cfg.Key))
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("jwt issuer and audience are required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)

	s := &JWTService{
		key:      key,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *JWTService) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil || user.Username == "" {
		return "", time.Time{}, errors.New("issue token: user without username")
	}
	if !user.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("issue token: %w", domain.ErrUnknownRole)
	}

	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)
	claims := tokenClaims{
		Role: user.Role.String(),
		UID:  strconv.FormatInt(user.ID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates token. Every failure is an Unauthenticated-kind
// error naming the rejection reason.
func (s *JWTService) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, rejection(err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrTokenRole
	}

	out := &domain.Claims{
		ID:       claims.ID,
		Subject:  claims.Subject,
		Role:     role,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func rejection(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return domain.ErrTokenIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return domain.ErrTokenAudience
	default:
		return domain.ErrTokenMalformed
	}
}
