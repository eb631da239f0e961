package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/database"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// Pinger is an optional dependency checked by the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports database and cache reachability
type HealthHandler struct {
	store database.Storage
	cache Pinger
}

// NewHealthHandler creates a health handler; cache may be nil
func NewHealthHandler(store database.Storage, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	checks := fiber.Map{"database": "ok"}
	healthy := true

	if err := h.store.HealthCheck(); err != nil {
		checks["database"] = "unreachable"
		healthy = false
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			// Login throttling degrades open, so a missing cache is not fatal
			checks["cache"] = "unreachable"
		} else {
			checks["cache"] = "ok"
		}
	}

	if !healthy {
		return response.ServiceUnavailable(c, "Service unhealthy")
	}

	return response.Success(c, fiber.Map{
		"status": "ok",
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}
