package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/handlers"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/services"
	"github.com/sahilchouksey/dept-events/utils/middleware"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// UserHandler handles profile and user administration routes
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RoleRequest is the body of a role change
type RoleRequest struct {
	Role string `json:"role"`
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, user)
}

// List handles GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	filter := services.UserFilter{
		Department: model.Department(c.Query("department")),
	}
	if role, ok := model.ParseRole(c.Query("role")); ok {
		filter.Role = role
	}

	users, err := h.users.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.List(c, len(users), users)
}

// UpdateRole handles PUT /api/users/role/:id
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", services.ErrUserNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.users.UpdateRole(c.UserContext(), id, req.Role, handlers.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "User role updated successfully", user)
}
