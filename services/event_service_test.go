package services

import (
	"context"
	"testing"
	"time"

	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/testutil"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func validCreateRequest() CreateEventRequest {
	date := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return CreateEventRequest{
		Title:       "Hackathon",
		Description: "24 hour build sprint",
		Department:  model.DepartmentCSE,
		Date:        &date,
		Venue:       "Lab 3",
		Capacity:    intPtr(50),
	}
}

func TestCreateEvent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	faculty := testutil.NewUser(t, db, "faculty", model.RoleFaculty)
	actor := Actor{ID: faculty.ID, Role: model.RoleFaculty}

	event, err := svc.Create(ctx, validCreateRequest(), actor)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusPending, event.Status)
	assert.Equal(t, 0, event.RegistrationsCount)
	assert.Equal(t, faculty.ID, event.OrganizerID)
	assert.Equal(t, "faculty", event.Organizer.Name)
	require.NotNil(t, event.Capacity)
	assert.Equal(t, 50, *event.Capacity)

	unlimited := validCreateRequest()
	unlimited.Capacity = nil
	event, err = svc.Create(ctx, unlimited, actor)
	require.NoError(t, err)
	assert.Nil(t, event.Capacity)

	cases := map[string]func(*CreateEventRequest){
		"blank title":        func(r *CreateEventRequest) { r.Title = "   " },
		"missing venue":      func(r *CreateEventRequest) { r.Venue = "" },
		"missing date":       func(r *CreateEventRequest) { r.Date = nil },
		"unknown department": func(r *CreateEventRequest) { r.Department = "MBA" },
		"zero capacity":      func(r *CreateEventRequest) { r.Capacity = intPtr(0) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCreateRequest()
			mutate(&req)
			_, err := svc.Create(ctx, req, actor)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	faculty := testutil.NewUser(t, db, "faculty", model.RoleFaculty)
	hod := testutil.NewUser(t, db, "hod", model.RoleHOD)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	event := testutil.NewEvent(t, db, faculty, testutil.WithStatus(model.EventStatusPending))

	_, err := svc.SetStatus(ctx, event.ID, model.EventStatusApproved, Actor{ID: faculty.ID, Role: model.RoleFaculty})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Equal(t, model.EventStatusPending, testutil.ReloadEvent(t, db, event.ID).Status)

	_, err = svc.SetStatus(ctx, event.ID, model.EventStatusPending, Actor{ID: hod.ID, Role: model.RoleHOD})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.SetStatus(ctx, 9999, model.EventStatusApproved, Actor{ID: hod.ID, Role: model.RoleHOD})
	assert.ErrorIs(t, err, ErrEventNotFound)

	approved, err := svc.SetStatus(ctx, event.ID, model.EventStatusApproved, Actor{ID: hod.ID, Role: model.RoleHOD})
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusApproved, approved.Status)

	rejected, err := svc.SetStatus(ctx, event.ID, model.EventStatusRejected, Actor{ID: admin.ID, Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusRejected, rejected.Status)

	var audits []model.AdminAuditLog
	require.NoError(t, db.Where("action = ?", model.AuditActionStatusChange).Order("id").Find(&audits).Error)
	require.Len(t, audits, 2)
	assert.Equal(t, hod.ID, audits[0].AdminID)
	assert.JSONEq(t, `{"status":"PENDING"}`, string(audits[0].OldValue))
	assert.JSONEq(t, `{"status":"APPROVED"}`, string(audits[0].NewValue))
}

func TestUpdateEvent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEventService(db)
	regs := NewRegistrationService(db)
	ctx := context.Background()

	organizer := testutil.NewUser(t, db, "faculty", model.RoleFaculty)
	other := testutil.NewUser(t, db, "faculty2", model.RoleFaculty)
	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	s1 := testutil.NewUser(t, db, "s1", model.RoleStudent)
	s2 := testutil.NewUser(t, db, "s2", model.RoleStudent)
	event := testutil.NewEvent(t, db, organizer, testutil.WithCapacity(10))

	_, err := svc.Update(ctx, event.ID, UpdateEventRequest{Title: strPtr("Hijacked")}, Actor{ID: other.ID, Role: model.RoleFaculty})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = svc.Update(ctx, 9999, UpdateEventRequest{Title: strPtr("Nope")}, Actor{ID: admin.ID, Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrEventNotFound)

	updated, err := svc.Update(ctx, event.ID, UpdateEventRequest{
		Title: strPtr("Tech Talk II"),
		Venue: strPtr("Auditorium"),
	}, Actor{ID: organizer.ID, Role: model.RoleFaculty})
	require.NoError(t, err)
	assert.Equal(t, "Tech Talk II", updated.Title)
	assert.Equal(t, "Auditorium", updated.Venue)
	assert.Equal(t, event.Description, updated.Description)
	assert.Equal(t, model.EventStatusApproved, updated.Status)

	_, err = regs.Register(ctx, event.ID, s1.ID)
	require.NoError(t, err)
	_, err = regs.Register(ctx, event.ID, s2.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, event.ID, UpdateEventRequest{Capacity: intPtr(1)}, Actor{ID: admin.ID, Role: model.RoleAdmin})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, 10, *testutil.ReloadEvent(t, db, event.ID).Capacity)

	shrunk, err := svc.Update(ctx, event.ID, UpdateEventRequest{Capacity: intPtr(2)}, Actor{ID: admin.ID, Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 2, *shrunk.Capacity)

	_, err = svc.Update(ctx, event.ID, UpdateEventRequest{Title: strPtr("")}, Actor{ID: organizer.ID, Role: model.RoleFaculty})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDeleteEventCascades(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEventService(db)
	regs := NewRegistrationService(db)
	ctx := context.Background()

	organizer := testutil.NewUser(t, db, "faculty", model.RoleFaculty)
	other := testutil.NewUser(t, db, "faculty2", model.RoleFaculty)
	s1 := testutil.NewUser(t, db, "s1", model.RoleStudent)
	s2 := testutil.NewUser(t, db, "s2", model.RoleStudent)
	event := testutil.NewEvent(t, db, organizer)
	keep := testutil.NewEvent(t, db, organizer)

	for _, u := range []*model.User{s1, s2} {
		_, err := regs.Register(ctx, event.ID, u.ID)
		require.NoError(t, err)
	}
	_, err := regs.Register(ctx, keep.ID, s1.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, event.ID, Actor{ID: other.ID, Role: model.RoleFaculty})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	require.NoError(t, svc.Delete(ctx, event.ID, Actor{ID: organizer.ID, Role: model.RoleFaculty}))

	_, err = svc.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.EqualValues(t, 0, testutil.CountRegistrations(t, db, event.ID))
	assert.EqualValues(t, 1, testutil.CountRegistrations(t, db, keep.ID))

	err = svc.Delete(ctx, event.ID, Actor{ID: organizer.ID, Role: model.RoleFaculty})
	assert.ErrorIs(t, err, ErrEventNotFound)

	var audit model.AdminAuditLog
	require.NoError(t, db.Where("action = ?", model.AuditActionEventDelete).First(&audit).Error)
	assert.Equal(t, event.ID, audit.ResourceID)
}

func TestListEvents(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	organizer := testutil.NewUser(t, db, "faculty", model.RoleFaculty)
	march := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	may := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	late := testutil.NewEvent(t, db, organizer, testutil.WithDate(may))
	early := testutil.NewEvent(t, db, organizer, testutil.WithDate(march))
	ece := testutil.NewEvent(t, db, organizer, testutil.WithDate(april), testutil.WithDepartment(model.DepartmentECE))
	pending := testutil.NewEvent(t, db, organizer, testutil.WithDate(april), testutil.WithStatus(model.EventStatusPending))

	t.Run("approved sorted by date", func(t *testing.T) {
		events, err := svc.ListApproved(ctx, ApprovedFilter{})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, []uint{early.ID, ece.ID, late.ID}, []uint{events[0].ID, events[1].ID, events[2].ID})
		assert.Equal(t, "faculty", events[0].Organizer.Name)
	})

	t.Run("approved by department", func(t *testing.T) {
		events, err := svc.ListApproved(ctx, ApprovedFilter{Department: model.DepartmentECE})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ece.ID, events[0].ID)
	})

	t.Run("approved in date range", func(t *testing.T) {
		start := march.Add(24 * time.Hour)
		end := may.Add(-24 * time.Hour)
		events, err := svc.ListApproved(ctx, ApprovedFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ece.ID, events[0].ID)
	})

	t.Run("all statuses newest first", func(t *testing.T) {
		events, err := svc.ListAll(ctx, AllFilter{})
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, pending.ID, events[0].ID)
		assert.Equal(t, late.ID, events[3].ID)
	})

	t.Run("all by status", func(t *testing.T) {
		events, err := svc.ListAll(ctx, AllFilter{Status: model.EventStatusPending})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, pending.ID, events[0].ID)
	})
}
