package auth

import (
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/apperror"
)

// HasRole reports whether role is one of allowed
func HasRole(role model.Role, allowed ...model.Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

// Authorize allows the caller when their role is in allowed, otherwise it
// returns a Forbidden error. An empty allowed set denies everyone.
func Authorize(role model.Role, allowed ...model.Role) error {
	if HasRole(role, allowed...) {
		return nil
	}
	return apperror.Forbidden("Insufficient permissions")
}

// IsAdmin reports whether role is ADMIN
func IsAdmin(role model.Role) bool {
	return role == model.RoleAdmin
}

// CanManage reports whether the caller may edit, delete, check in or list
// attendees of event: its organizer or any admin.
func CanManage(event *model.Event, callerID uint, callerRole model.Role) bool {
	if event == nil {
		return false
	}
	return event.OrganizerID == callerID || IsAdmin(callerRole)
}
