package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/metrics"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/sahilchouksey/dept-events/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventService manages the event registry and its approval workflow
type EventService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateEventRequest represents the body of an event proposal
type CreateEventRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Department  model.Department `json:"department" validate:"required,department"`
	Date        *time.Time       `json:"date" validate:"required"`
	Venue       string           `json:"venue" validate:"required,max=255"`
	Capacity    *int             `json:"capacity" validate:"omitempty,min=1"`
}

// UpdateEventRequest carries a partial update; nil fields are left untouched.
// Department and status are not editable here.
type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	Date        *time.Time `json:"date"`
	Venue       *string    `json:"venue" validate:"omitempty,min=1,max=255"`
	Capacity    *int       `json:"capacity" validate:"omitempty,min=1"`
}

// ApprovedFilter narrows the public feed; zero values match everything
type ApprovedFilter struct {
	Department model.Department
	StartDate  *time.Time
	EndDate    *time.Time
}

// AllFilter narrows the staff listing; zero values match everything
type AllFilter struct {
	Department model.Department
	Status     model.EventStatus
}

// Create stores a new PENDING event organized by actor
func (s *EventService) Create(ctx context.Context, req CreateEventRequest, actor Actor) (*model.Event, error) {
	req.Title = validation.SanitizeString(req.Title)
	req.Description = validation.SanitizeString(req.Description)
	req.Venue = validation.SanitizeString(req.Venue)

	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:              req.Title,
		Description:        req.Description,
		OrganizerID:        actor.ID,
		Department:         req.Department,
		Date:               req.Date.UTC(),
		Venue:              req.Venue,
		Capacity:           req.Capacity,
		Status:             model.EventStatusPending,
		RegistrationsCount: 0,
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error; err != nil {
		return nil, internal("Error creating event", err)
	}

	log.Info().
		Uint("event_id", event.ID).
		Uint("organizer_id", actor.ID).
		Str("department", string(event.Department)).
		Msg("event created")

	return s.GetByID(ctx, event.ID)
}

// GetByID returns the event with its organizer loaded
func (s *EventService) GetByID(ctx context.Context, eventID uint) (*model.Event, error) {
	var event model.Event
	err := s.db.WithContext(ctx).Preload("Organizer").First(&event, eventID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEventNotFound
		}
		return nil, internal("Error fetching event", err)
	}
	return &event, nil
}

// ListApproved returns the public feed of approved events, soonest first
func (s *EventService) ListApproved(ctx context.Context, filter ApprovedFilter) ([]model.Event, error) {
	query := s.db.WithContext(ctx).
		Preload("Organizer").
		Where("status = ?", model.EventStatusApproved)

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate.UTC())
	}

	var events []model.Event
	if err := query.Order("date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, internal("Error fetching events", err)
	}
	return events, nil
}

// ListAll returns events in every status, newest proposal first
func (s *EventService) ListAll(ctx context.Context, filter AllFilter) ([]model.Event, error) {
	query := s.db.WithContext(ctx).Preload("Organizer")

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var events []model.Event
	if err := query.Order("created_at DESC, id DESC").Find(&events).Error; err != nil {
		return nil, internal("Error fetching events", err)
	}
	return events, nil
}

// Update applies a partial update. Only the organizer or an admin may edit,
// and capacity may not drop below the registrations already taken.
func (s *EventService) Update(ctx context.Context, eventID uint, req UpdateEventRequest, actor Actor) (*model.Event, error) {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !auth.CanManage(event, actor.ID, actor.Role) {
		return nil, forbidden("Not authorized to update this event")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := validation.SanitizeString(*req.Title)
		req.Title = &title
		updates["title"] = title
	}
	if req.Description != nil {
		description := validation.SanitizeString(*req.Description)
		req.Description = &description
		updates["description"] = description
	}
	if req.Venue != nil {
		venue := validation.SanitizeString(*req.Venue)
		req.Venue = &venue
		updates["venue"] = venue
	}
	if req.Date != nil {
		updates["date"] = req.Date.UTC()
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}

	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	if req.Capacity != nil && *req.Capacity < event.RegistrationsCount {
		return nil, capacityBelowCount(*req.Capacity, event.RegistrationsCount)
	}

	if len(updates) == 0 {
		return event, nil
	}

	query := s.db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventID)
	if req.Capacity != nil {
		// Registrations may have landed since the read above
		query = query.Where("registrations_count <= ?", *req.Capacity)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, internal("Error updating event", result.Error)
	}
	if result.RowsAffected == 0 {
		if req.Capacity == nil {
			return nil, ErrEventNotFound
		}
		current, err := s.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return nil, capacityBelowCount(*req.Capacity, current.RegistrationsCount)
	}

	return s.GetByID(ctx, eventID)
}

func capacityBelowCount(capacity, count int) error {
	return apperror.Validation(
		"Capacity cannot be lower than the current number of registrations",
		fmt.Sprintf("capacity %d is below %d existing registrations", capacity, count),
	)
}

// SetStatus records an approval decision. Only ADMIN and HOD may decide, and
// any event may be moved to APPROVED or REJECTED regardless of its current status.
func (s *EventService) SetStatus(ctx context.Context, eventID uint, status model.EventStatus, actor Actor) (*model.Event, error) {
	if err := auth.Authorize(actor.Role, model.RoleAdmin, model.RoleHOD); err != nil {
		return nil, err
	}

	if status != model.EventStatusApproved && status != model.EventStatusRejected {
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.First(&event, eventID).Error; err != nil {
			if isNotFound(err) {
				return ErrEventNotFound
			}
			return internal("Error updating event status", err)
		}

		previous := event.Status
		if err := tx.Model(&event).Update("status", status).Error; err != nil {
			return internal("Error updating event status", err)
		}

		return recordTx(tx, actor, AuditEntry{
			Action:      model.AuditActionStatusChange,
			Resource:    "events",
			ResourceID:  event.ID,
			OldValue:    map[string]interface{}{"status": previous},
			NewValue:    map[string]interface{}{"status": status},
			Description: fmt.Sprintf("Event %q moved from %s to %s", event.Title, previous, status),
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.EventStatusChanges.WithLabelValues(string(status)).Inc()
	log.Info().
		Uint("event_id", eventID).
		Uint("actor_id", actor.ID).
		Str("status", string(status)).
		Msg("event status changed")

	return s.GetByID(ctx, eventID)
}

// Delete removes an event and all of its registrations in one transaction
func (s *EventService) Delete(ctx context.Context, eventID uint, actor Actor) error {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if !auth.CanManage(event, actor.ID, actor.Role) {
		return forbidden("Not authorized to delete this event")
	}

	var removed int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ?", eventID).Delete(&model.Registration{})
		if result.Error != nil {
			return internal("Error deleting event", result.Error)
		}
		removed = result.RowsAffected

		result = tx.Delete(&model.Event{}, eventID)
		if result.Error != nil {
			return internal("Error deleting event", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return recordTx(tx, actor, AuditEntry{
			Action:      model.AuditActionEventDelete,
			Resource:    "events",
			ResourceID:  eventID,
			OldValue:    event.Summary(),
			Description: fmt.Sprintf("Deleted event %q with %d registrations", event.Title, removed),
		})
	})
	if err != nil {
		return err
	}

	log.Info().
		Uint("event_id", eventID).
		Uint("actor_id", actor.ID).
		Int64("registrations_removed", removed).
		Msg("event deleted")

	return nil
}
