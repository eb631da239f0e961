package model

import "time"

// Registration links a user to an event they signed up for.
// Rows are hard deleted so the (event_id, user_id) unique index allows
// signing up again after withdrawing.
type Registration struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EventID      uint       `gorm:"not null;uniqueIndex:idx_registrations_event_user,priority:1" json:"event_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_registrations_event_user,priority:2;index" json:"user_id"`
	Attended     bool       `gorm:"not null;default:false" json:"attended"`
	RegisteredAt time.Time  `gorm:"not null" json:"registered_at"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// RegistrationResponse is the JSON shape of a registration with loaded relations
type RegistrationResponse struct {
	Registration
	Event *EventSummary `json:"event,omitempty"`
	User  *UserSummary  `json:"user,omitempty"`
}

// ToResponse attaches event and user summaries when they have been loaded
func (r Registration) ToResponse() RegistrationResponse {
	res := RegistrationResponse{Registration: r}
	if r.Event.ID != 0 {
		s := r.Event.Summary()
		res.Event = &s
	}
	if r.User.ID != 0 {
		s := r.User.Summary()
		res.User = &s
	}
	return res
}
