package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/services"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// AuditHandler exposes the admin audit trail
type AuditHandler struct {
	audit *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAuditLogs retrieves admin audit logs with pagination
// GET /api/admin/audit-logs
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	filter := services.AuditFilter{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		Page:     page,
		Limit:    limit,
	}
	if adminID, err := strconv.ParseUint(c.Query("admin_id"), 10, 64); err == nil {
		filter.AdminID = uint(adminID)
	}
	filter.Normalize()

	logs, total, err := h.audit.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"logs":  logs,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
