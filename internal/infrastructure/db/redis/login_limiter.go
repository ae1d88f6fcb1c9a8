package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures   = 5
	defaultFailureWindow = 15 * time.Minute
	defaultBlockDuration = 15 * time.Minute
)

// limiterClient is the subset of *redis.Client the limiter uses.
type limiterClient interface {
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LimiterConfig tunes the failed-login lockout.
type LimiterConfig struct {
	MaxFailures   int
	FailureWindow time.Duration
	BlockDuration time.Duration
}

// LoginLimiter counts failed logins per (username, client address) and blocks
// the pair for BlockDuration once MaxFailures is reached inside FailureWindow.
// Key format: login:fail:<username>:<sha256(ip)> and login:block:<username>:<sha256(ip)>
type LoginLimiter struct {
	client limiterClient
	cfg    LimiterConfig
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Zero config values fall back to the defaults.
func NewLoginLimiter(client limiterClient, cfg LimiterConfig) *LoginLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = defaultMaxFailures
	}
	if cfg.FailureWindow <= 0 {
		cfg.FailureWindow = defaultFailureWindow
	}
	if cfg.BlockDuration <= 0 {
		cfg.BlockDuration = defaultBlockDuration
	}
	return &LoginLimiter{client: client, cfg: cfg}
}

// Allow reports whether the pair may attempt a login, and if not, the remaining block time.
func (l *LoginLimiter) Allow(ctx context.Context, username, clientIP string) (bool, time.Duration, error) {
	ttl, err := l.client.TTL(ctx, l.blockKey(username, clientIP)).Result()
	if err != nil {
		return true, 0, fmt.Errorf("login limiter check: %w", err)
	}
	// TTL is negative when the key does not exist.
	if ttl > 0 {
		return false, ttl, nil
	}
	return true, 0, nil
}

// Failure records a failed attempt and reports whether the pair is now blocked.
func (l *LoginLimiter) Failure(ctx context.Context, username, clientIP string) (bool, error) {
	failKey := l.failKey(username, clientIP)

	n, err := l.client.Incr(ctx, failKey).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, failKey, l.cfg.FailureWindow).Err(); err != nil {
			return false, fmt.Errorf("login limiter expire: %w", err)
		}
	}
	if n < int64(l.cfg.MaxFailures) {
		return false, nil
	}

	if err := l.client.Set(ctx, l.blockKey(username, clientIP), "1", l.cfg.BlockDuration).Err(); err != nil {
		return false, fmt.Errorf("login limiter block: %w", err)
	}
	if err := l.client.Del(ctx, failKey).Err(); err != nil {
		return true, fmt.Errorf("login limiter reset: %w", err)
	}
	return true, nil
}

// Success clears the failure counter for the pair.
func (l *LoginLimiter) Success(ctx context.Context, username, clientIP string) error {
	return l.client.Del(ctx, l.failKey(username, clientIP)).Err()
}

func (l *LoginLimiter) failKey(username, clientIP string) string {
	return fmt.Sprintf("login:fail:%s:%s", username, hashIP(clientIP))
}

func (l *LoginLimiter) blockKey(username, clientIP string) string {
	return fmt.Sprintf("login:block:%s:%s", username, hashIP(clientIP))
}

func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
