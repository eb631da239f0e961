package model

import (
	"time"
)

// Event is a department event awaiting or holding approval
type Event struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	Title              string      `gorm:"type:varchar(255);not null" json:"title"`
	Description        string      `gorm:"type:text;not null" json:"description"`
	OrganizerID        uint        `gorm:"not null;index" json:"organizer_id"`
	Department         Department  `gorm:"type:varchar(20);not null;index:idx_events_dept_status_date,priority:1" json:"department"`
	Status             EventStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_events_dept_status_date,priority:2" json:"status"`
	Date               time.Time   `gorm:"not null;index:idx_events_dept_status_date,priority:3" json:"date"`
	Venue              string      `gorm:"type:varchar(255);not null" json:"venue"`
	Capacity           *int        `json:"capacity,omitempty"` // nil means unlimited
	RegistrationsCount int         `gorm:"not null;default:0" json:"registrations_count"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	// Relationships
	Organizer     User           `gorm:"foreignKey:OrganizerID" json:"-"`
	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasCapacity reports whether the event can take one more registration
func (e Event) HasCapacity() bool {
	return e.Capacity == nil || e.RegistrationsCount < *e.Capacity
}

// EventResponse is the JSON shape of an event with its organizer summary
type EventResponse struct {
	Event
	Organizer *UserSummary `json:"organizer,omitempty"`
}

// ToResponse attaches the organizer summary when it has been loaded
func (e Event) ToResponse() EventResponse {
	res := EventResponse{Event: e}
	if e.Organizer.ID != 0 {
		s := e.Organizer.Summary()
		s.Role = ""
		res.Organizer = &s
	}
	return res
}

// EventSummary is the compact projection of an event embedded in registrations
type EventSummary struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Venue       string      `json:"venue"`
	Status      EventStatus `json:"status"`
	Department  Department  `json:"department"`
}

// Summary returns the compact projection of e
func (e Event) Summary() EventSummary {
	return EventSummary{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Venue:       e.Venue,
		Status:      e.Status,
		Department:  e.Department,
	}
}
