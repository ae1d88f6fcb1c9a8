package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

var errMissingCredentials = domain.Invalid("username and password are required")

// AuthService implements login.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	limiter ports.LoginLimiter // optional
	rehash  ports.RehashQueue  // optional
	logger  zerolog.Logger

	// dummyHash is verified against when the username is unknown so both
	// failure paths cost one hash comparison.
	dummyHash string
}

type AuthOption func(*AuthService)

func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

func WithRehashQueue(q ports.RehashQueue) AuthOption {
	return func(s *AuthService) { s.rehash = q }
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if h, err := hasher.Hash("vetpharmacy-timing-equalizer"); err == nil {
		s.dummyHash = h
	}
	return s
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, errMissingCredentials
	}
	log := s.logger.With().Str("username", username).Logger()

	if s.limiter != nil {
		allowed, retryAfter, err := s.limiter.Allow(ctx, username, in.ClientIP)
		if err != nil {
			log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			log.Info().Dur("retry_after", retryAfter).Msg("login blocked by limiter")
			return nil, domain.ErrLoginLocked
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(s.dummyHash, in.Password)
		s.recordFailure(ctx, log, username, in.ClientIP)
		return nil, domain.ErrInvalidCredentials
	}

	switch s.hasher.Verify(user.PasswordHash, in.Password) {
	case ports.VerifyFailure:
		s.recordFailure(ctx, log, username, in.ClientIP)
		return nil, domain.ErrInvalidCredentials
	case ports.VerifyNeedsRehash:
		s.scheduleRehash(log, user.ID, in.Password)
	}

	if s.limiter != nil {
		if err := s.limiter.Success(ctx, username, in.ClientIP); err != nil {
			log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	log.Info().Str("role", user.Role.String()).Msg("login succeeded")
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, log zerolog.Logger, username, clientIP string) {
	log.Info().Msg("login failed")
	if s.limiter == nil {
		return
	}
	locked, err := s.limiter.Failure(ctx, username, clientIP)
	if err != nil {
		log.Warn().Err(err).Msg("failed to record login failure")
		return
	}
	if locked {
		log.Warn().Msg("login locked after repeated failures")
	}
}

// scheduleRehash hashes the password with the current policy and hands the
// result to the rehash queue. The login proceeds regardless of the outcome.
func (s *AuthService) scheduleRehash(log zerolog.Logger, userID int64, password string) {
	if s.rehash == nil {
		return
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Warn().Err(err).Msg("rehash skipped")
		return
	}
	if !s.rehash.Enqueue(ports.RehashJob{UserID: userID, Hash: hash}) {
		log.Warn().Int64("user_id", userID).Msg("rehash queue full, job dropped")
	}
}
