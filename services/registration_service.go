package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/metrics"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	opRegister   = "register"
	opUnregister = "unregister"
)

// RegistrationService runs the registration workflow. The event's
// registrations_count is only ever changed inside the same transaction as the
// registration row it accounts for.
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// Register signs userID up for eventID.
//
// The pre-checks give the precise reason for a refusal. The reservation
// itself is a conditional increment that only succeeds while the event is
// approved and below capacity, followed by the insert; the (event_id, user_id)
// unique index rejects a concurrent duplicate and rolls the increment back.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uint) (*model.Registration, error) {
	db := s.db.WithContext(ctx)

	var event model.Event
	if err := db.First(&event, eventID).Error; err != nil {
		if isNotFound(err) {
			return nil, s.refuse(opRegister, ErrEventNotFound)
		}
		return nil, s.refuse(opRegister, internal("Error registering for event", err))
	}

	if err := registrable(&event); err != nil {
		return nil, s.refuse(opRegister, err)
	}

	var existing int64
	if err := db.Model(&model.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&existing).Error; err != nil {
		return nil, s.refuse(opRegister, internal("Error registering for event", err))
	}
	if existing > 0 {
		return nil, s.refuse(opRegister, ErrAlreadyRegistered)
	}

	registration := &model.Registration{
		EventID:      eventID,
		UserID:       userID,
		RegisteredAt: time.Now().UTC(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Event{}).
			Where("id = ? AND status = ?", eventID, model.EventStatusApproved).
			Where("capacity IS NULL OR registrations_count < capacity").
			UpdateColumn("registrations_count", gorm.Expr("registrations_count + ?", 1))
		if result.Error != nil {
			return internal("Error registering for event", result.Error)
		}
		if result.RowsAffected == 0 {
			return reservationRefused(tx, eventID)
		}

		if err := tx.Omit(clause.Associations).Create(registration).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return internal("Error registering for event", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.refuse(opRegister, err)
	}

	metrics.RecordRegistration(opRegister, metrics.OutcomeRegistered)
	log.Info().
		Uint("event_id", eventID).
		Uint("user_id", userID).
		Uint("registration_id", registration.ID).
		Msg("registered for event")

	return s.load(ctx, registration.ID)
}

// registrable reports why event cannot take a registration, if it cannot
func registrable(event *model.Event) error {
	if event.Status != model.EventStatusApproved {
		return ErrEventNotApproved
	}
	if !event.HasCapacity() {
		return ErrEventFull
	}
	return nil
}

// reservationRefused explains a conditional increment that matched no row:
// the event vanished, left APPROVED or filled up since the pre-checks
func reservationRefused(tx *gorm.DB, eventID uint) error {
	var event model.Event
	if err := tx.First(&event, eventID).Error; err != nil {
		if isNotFound(err) {
			return ErrEventNotFound
		}
		return internal("Error registering for event", err)
	}
	if err := registrable(&event); err != nil {
		return err
	}
	return ErrEventFull
}

// Unregister removes userID's registration for eventID and releases its seat
func (s *RegistrationService) Unregister(ctx context.Context, eventID, userID uint) error {
	var clamped bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&model.Registration{})
		if result.Error != nil {
			return internal("Error unregistering from event", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRegistrationNotFound
		}

		result = tx.Model(&model.Event{}).
			Where("id = ? AND registrations_count > 0", eventID).
			UpdateColumn("registrations_count", gorm.Expr("registrations_count - ?", 1))
		if result.Error != nil {
			return internal("Error unregistering from event", result.Error)
		}
		clamped = result.RowsAffected == 0
		return nil
	})
	if err != nil {
		return s.refuse(opUnregister, err)
	}

	if clamped {
		log.Error().
			Uint("event_id", eventID).
			Uint("user_id", userID).
			Msg("registrations_count already zero while a registration existed; counter left at zero")
	}

	metrics.RecordRegistration(opUnregister, metrics.OutcomeUnregistered)
	log.Info().Uint("event_id", eventID).Uint("user_id", userID).Msg("unregistered from event")
	return nil
}

// CheckIn marks a registration as attended. Repeating it is a successful no-op.
func (s *RegistrationService) CheckIn(ctx context.Context, registrationID uint, actor Actor) (*model.Registration, error) {
	var registration model.Registration
	err := s.db.WithContext(ctx).Preload("Event").First(&registration, registrationID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, internal("Error checking in attendee", err)
	}

	if !auth.CanManage(&registration.Event, actor.ID, actor.Role) {
		return nil, forbidden("Not authorized to check-in attendees for this event")
	}

	result := s.db.WithContext(ctx).Model(&model.Registration{}).
		Where("id = ? AND attended = ?", registrationID, false).
		Updates(map[string]interface{}{
			"attended":      true,
			"checked_in_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, internal("Error checking in attendee", result.Error)
	}
	if result.RowsAffected > 0 {
		metrics.CheckIns.Inc()
		log.Info().
			Uint("registration_id", registrationID).
			Uint("event_id", registration.EventID).
			Uint("actor_id", actor.ID).
			Msg("attendee checked in")
	}

	return s.load(ctx, registrationID)
}

// ListForUser returns userID's registrations with event summaries, newest first
func (s *RegistrationService) ListForUser(ctx context.Context, userID uint) ([]model.Registration, error) {
	var registrations []model.Registration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("registered_at DESC, id DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, internal("Error fetching registrations", err)
	}
	return registrations, nil
}

// ListForEvent returns the attendee list of eventID, newest first. Only the
// organizer or an admin may see it.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID uint, actor Actor) ([]model.Registration, error) {
	db := s.db.WithContext(ctx)

	var event model.Event
	if err := db.First(&event, eventID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, internal("Error fetching event registrations", err)
	}

	if !auth.CanManage(&event, actor.ID, actor.Role) {
		return nil, forbidden("Not authorized to view registrations for this event")
	}

	var registrations []model.Registration
	err := db.Preload("User").
		Where("event_id = ?", eventID).
		Order("registered_at DESC, id DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, internal("Error fetching event registrations", err)
	}
	return registrations, nil
}

func (s *RegistrationService) load(ctx context.Context, registrationID uint) (*model.Registration, error) {
	var registration model.Registration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		First(&registration, registrationID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, internal("Error fetching registration", err)
	}
	return &registration, nil
}

// refuse counts a failed workflow call by outcome and passes err through
func (s *RegistrationService) refuse(operation string, err error) error {
	outcome := metrics.OutcomeError
	switch {
	case apperror.KindOf(err) == apperror.KindNotFound:
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, ErrEventFull):
		outcome = metrics.OutcomeFull
	case errors.Is(err, ErrAlreadyRegistered):
		outcome = metrics.OutcomeDuplicate
	case errors.Is(err, ErrEventNotApproved):
		outcome = metrics.OutcomeNotApproved
	}
	metrics.RecordRegistration(operation, outcome)
	return err
}
