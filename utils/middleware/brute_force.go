package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// AttemptStore is the subset of the Redis cache used to count failed logins
type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// BruteForceProtection locks out clients after repeated failed logins
type BruteForceProtection struct {
	store AttemptStore
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(store AttemptStore) *BruteForceProtection {
	return &BruteForceProtection{
		store: store,
	}
}

func attemptKey(ip, email string) string {
	return fmt.Sprintf("brute_force:attempts:%s:%s", ip, strings.ToLower(email))
}

func lockKey(ip string) string {
	return fmt.Sprintf("brute_force:lock:%s", ip)
}

// CheckAndRecordAttempt middleware checks if IP is locked out
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := lockKey(c.IP())

		locked, err := b.store.Exists(c.UserContext(), key)
		if err != nil {
			// Redis being down must not lock everyone out
			log.Warn().Err(err).Msg("brute force store unavailable")
			return c.Next()
		}

		if locked {
			ttl, _ := b.store.TTL(c.UserContext(), key)
			retryAfter := int(ttl.Seconds())
			if retryAfter <= 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt records a failed login attempt and applies progressive lockouts
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip, email string) error {
	key := attemptKey(ip, email)

	attempts, err := b.store.Increment(ctx, key)
	if err != nil {
		return nil
	}

	// 15 minute window
	if attempts == 1 {
		_ = b.store.Expire(ctx, key, 15*time.Minute)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 25:
		lockDuration = 24 * time.Hour
	case attempts >= 10:
		lockDuration = time.Hour
	case attempts >= 5:
		lockDuration = 2 * time.Minute
	default:
		return nil
	}

	log.Warn().Str("ip", ip).Int64("attempts", attempts).Dur("lockout", lockDuration).Msg("login lockout applied")
	return b.store.Set(ctx, lockKey(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip, email string) error {
	return b.store.Delete(ctx, attemptKey(ip, email), lockKey(ip))
}
