// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sahilchouksey/dept-events/database"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every user created by NewUser
const Password = "secret123"

var dbSeq atomic.Int64

func init() {
	auth.Cost = 4
}

// NewDB opens a fresh migrated in-memory SQLite database that lives until the
// test ends. A single connection serializes writers the way SQLite needs.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=busy_timeout(5000)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// NewUser inserts a user with the given role; the email is derived from name
func NewUser(t testing.TB, db *gorm.DB, name string, role model.Role) *model.User {
	t.Helper()

	hash, err := auth.HashPassword(Password)
	require.NoError(t, err)

	user := &model.User{
		Name:         name,
		Email:        name + "@dept.test",
		PasswordHash: hash,
		Role:         role,
		Department:   model.DepartmentCSE,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// EventOption customizes an event built by NewEvent
type EventOption func(*model.Event)

// WithCapacity limits the event to n registrations
func WithCapacity(n int) EventOption {
	return func(e *model.Event) { e.Capacity = &n }
}

// WithStatus sets the approval status
func WithStatus(status model.EventStatus) EventOption {
	return func(e *model.Event) { e.Status = status }
}

// WithDepartment sets the owning department
func WithDepartment(d model.Department) EventOption {
	return func(e *model.Event) { e.Department = d }
}

// WithDate sets the event date
func WithDate(d time.Time) EventOption {
	return func(e *model.Event) { e.Date = d }
}

// NewEvent inserts an APPROVED, unlimited event organized by organizer
func NewEvent(t testing.TB, db *gorm.DB, organizer *model.User, opts ...EventOption) *model.Event {
	t.Helper()

	event := &model.Event{
		Title:       "Tech Talk",
		Description: "An evening of lightning talks",
		OrganizerID: organizer.ID,
		Department:  model.DepartmentCSE,
		Date:        time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second),
		Venue:       "Seminar Hall",
		Status:      model.EventStatusApproved,
	}
	for _, opt := range opts {
		opt(event)
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// ReloadEvent fetches the current row for id
func ReloadEvent(t testing.TB, db *gorm.DB, id uint) *model.Event {
	t.Helper()

	var event model.Event
	require.NoError(t, db.First(&event, id).Error)
	return &event
}

// CountRegistrations returns the number of registration rows for eventID
func CountRegistrations(t testing.TB, db *gorm.DB, eventID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&model.Registration{}).Where("event_id = ?", eventID).Count(&n).Error)
	return n
}
