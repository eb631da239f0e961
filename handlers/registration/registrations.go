package registration

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/handlers"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/services"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// RegistrationHandler handles sign-up, withdrawal and attendance routes
type RegistrationHandler struct {
	registrations *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrations *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

func toResponses(registrations []model.Registration) []model.RegistrationResponse {
	out := make([]model.RegistrationResponse, len(registrations))
	for i, r := range registrations {
		out[i] = r.ToResponse()
	}
	return out
}

// Register handles POST /api/registrations/:eventId
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	eventID, err := handlers.ParamID(c, "eventId", services.ErrEventNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	actor := handlers.ActorFrom(c)
	registration, err := h.registrations.Register(c.UserContext(), eventID, actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Successfully registered for the event", registration.ToResponse())
}

// ListMine handles GET /api/registrations/user
func (h *RegistrationHandler) ListMine(c *fiber.Ctx) error {
	actor := handlers.ActorFrom(c)
	registrations, err := h.registrations.ListForUser(c.UserContext(), actor.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.List(c, len(registrations), toResponses(registrations))
}

// ListForEvent handles GET /api/registrations/event/:eventId
func (h *RegistrationHandler) ListForEvent(c *fiber.Ctx) error {
	eventID, err := handlers.ParamID(c, "eventId", services.ErrEventNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	registrations, err := h.registrations.ListForEvent(c.UserContext(), eventID, handlers.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.List(c, len(registrations), toResponses(registrations))
}

// Unregister handles DELETE /api/registrations/:eventId
func (h *RegistrationHandler) Unregister(c *fiber.Ctx) error {
	eventID, err := handlers.ParamID(c, "eventId", services.ErrRegistrationNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	actor := handlers.ActorFrom(c)
	if err := h.registrations.Unregister(c.UserContext(), eventID, actor.ID); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Successfully unregistered from the event", nil)
}

// CheckIn handles PUT /api/registrations/checkin/:id
func (h *RegistrationHandler) CheckIn(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", services.ErrRegistrationNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	registration, err := h.registrations.CheckIn(c.UserContext(), id, handlers.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Attendee checked in successfully", registration.ToResponse())
}
