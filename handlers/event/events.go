package event

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/handlers"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/services"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// EventHandler handles the event registry and approval routes
type EventHandler struct {
	events *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// StatusRequest is the body of an approval decision
type StatusRequest struct {
	Status model.EventStatus `json:"status"`
}

func toResponses(events []model.Event) []model.EventResponse {
	out := make([]model.EventResponse, len(events))
	for i, e := range events {
		out[i] = e.ToResponse()
	}
	return out
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.Validation("Invalid date", value+" is not an RFC 3339 timestamp or YYYY-MM-DD date")
}

// Create handles POST /api/events
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req services.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, err)
	}

	event, err := h.events.Create(c.UserContext(), req, handlers.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Event created successfully", event.ToResponse())
}

// ListApproved handles GET /api/events
func (h *EventHandler) ListApproved(c *fiber.Ctx) error {
	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		return response.FromError(c, err)
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		return response.FromError(c, err)
	}

	events, err := h.events.ListApproved(c.UserContext(), services.ApprovedFilter{
		Department: model.Department(c.Query("department")),
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.List(c, len(events), toResponses(events))
}

// ListAll handles GET /api/events/all
func (h *EventHandler) ListAll(c *fiber.Ctx) error {
	events, err := h.events.ListAll(c.UserContext(), services.AllFilter{
		Department: model.Department(c.Query("department")),
		Status:     model.EventStatus(c.Query("status")),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.List(c, len(events), toResponses(events))
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", services.ErrEventNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	event, err := h.events.GetByID(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, event.ToResponse())
}

// Update handles PUT /api/events/:id
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", services.ErrEventNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, err)
	}

	event, err := h.events.Update(c.UserContext(), id, req, handlers.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Event updated successfully", event.ToResponse())
}

// UpdateStatus handles PUT /api/events/status/:id
func (h *EventHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", services.ErrEventNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, err)
	}

	event, err := h.events.SetStatus(c.UserContext(), id, req.Status, handlers.ActorFrom(c))
	if err != nil {
		return response.FromError(c, err)
	}

	message := "Event approved successfully"
	if event.Status == model.EventStatusRejected {
		message = "Event rejected successfully"
	}
	return response.SuccessWithMessage(c, message, event.ToResponse())
}

// Delete handles DELETE /api/events/:id
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", services.ErrEventNotFound)
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.events.Delete(c.UserContext(), id, handlers.ActorFrom(c)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Event deleted successfully", nil)
}
