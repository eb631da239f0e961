package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/services"
	"github.com/sahilchouksey/dept-events/utils/middleware"
)

// ActorFrom builds the service caller from the authenticated request
func ActorFrom(c *fiber.Ctx) services.Actor {
	id, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	return services.Actor{
		ID:        id,
		Role:      role,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// ParamID parses a positive numeric route parameter. A malformed id cannot
// name an existing record, so it is reported as notFound.
func ParamID(c *fiber.Ctx, name string, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}
