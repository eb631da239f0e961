package middleware

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-process AttemptStore
type memoryStore struct {
	mu      sync.Mutex
	values  map[string]int64
	expires map[string]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]int64{}, expires: map[string]time.Time{}}
}

func (s *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok, nil
}

func (s *memoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Until(s.expires[key]), nil
}

func (s *memoryStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key]++
	return s.values[key], nil
}

func (s *memoryStore) Expire(_ context.Context, key string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[key] = time.Now().Add(d)
	return nil
}

func (s *memoryStore) Set(_ context.Context, key string, _ interface{}, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = 1
	s.expires[key] = time.Now().Add(d)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
		delete(s.expires, k)
	}
	return nil
}

func TestBruteForceLockout(t *testing.T) {
	store := newMemoryStore()
	bf := NewBruteForceProtection(store)

	app := fiber.New()
	app.Post("/login", bf.CheckAndRecordAttempt(), func(c *fiber.Ctx) error {
		if c.Query("ok") == "1" {
			_ = bf.RecordSuccessfulAttempt(c.UserContext(), c.IP(), "a@dept.test")
			return c.SendStatus(fiber.StatusOK)
		}
		_ = bf.RecordFailedAttempt(c.UserContext(), c.IP(), "a@dept.test")
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login?ok=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	store := newMemoryStore()
	bf := NewBruteForceProtection(store)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, bf.RecordFailedAttempt(ctx, "10.0.0.1", "a@dept.test"))
	}
	require.NoError(t, bf.RecordSuccessfulAttempt(ctx, "10.0.0.1", "a@dept.test"))
	require.NoError(t, bf.RecordFailedAttempt(ctx, "10.0.0.1", "a@dept.test"))

	locked, err := store.Exists(ctx, lockKey("10.0.0.1"))
	require.NoError(t, err)
	assert.False(t, locked)
}
