package services

import (
	"errors"
	"strings"

	"github.com/sahilchouksey/dept-events/utils/apperror"
	"gorm.io/gorm"
)

// Classified errors returned by the services. Handlers map them to HTTP
// through response.FromError; callers compare them with errors.Is.
var (
	ErrEventNotFound        = apperror.New(apperror.KindNotFound, "EVENT_NOT_FOUND", "Event not found")
	ErrRegistrationNotFound = apperror.New(apperror.KindNotFound, "REGISTRATION_NOT_FOUND", "Registration not found")
	ErrUserNotFound         = apperror.New(apperror.KindNotFound, "USER_NOT_FOUND", "User not found")

	ErrEventNotApproved  = apperror.New(apperror.KindInvalidState, "EVENT_NOT_APPROVED", "Cannot register for this event. Event is not approved.")
	ErrEventFull         = apperror.New(apperror.KindConflict, "EVENT_FULL", "Event is full. Registration capacity reached.")
	ErrAlreadyRegistered = apperror.New(apperror.KindConflict, "ALREADY_REGISTERED", "You are already registered for this event")

	ErrInvalidStatus = apperror.New(apperror.KindValidation, "INVALID_STATUS", "Invalid status")
	ErrEmailTaken    = apperror.New(apperror.KindConflict, "EMAIL_TAKEN", "Email already registered")

	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthenticated, "INVALID_TOKEN", "Invalid or expired token")
)

func forbidden(message string) error {
	return apperror.Forbidden(message)
}

func internal(message string, err error) error {
	return apperror.Internal(message, err)
}

// isUniqueViolation recognizes unique-index failures from both drivers, with
// or without gorm's error translation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
