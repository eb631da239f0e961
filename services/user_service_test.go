package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/testutil"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{
		Name:       " Asha ",
		Email:      " Asha@Dept.Test ",
		Password:   "secret1",
		Department: model.DepartmentECE,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@dept.test", user.Email)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	faculty, err := svc.Signup(ctx, SignupRequest{
		Name: "Ravi", Email: "ravi@dept.test", Password: "secret1",
		Department: model.DepartmentCSE, Role: "faculty",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleFaculty, faculty.Role)

	_, err = svc.Signup(ctx, SignupRequest{
		Name: "Other", Email: "asha@dept.test", Password: "secret1", Department: model.DepartmentCSE,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Signup(ctx, SignupRequest{
		Name: "Mallory", Email: "mallory@dept.test", Password: "secret1",
		Department: model.DepartmentCSE, Role: "ADMIN",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.Signup(ctx, SignupRequest{
		Name: "Short", Email: "short@dept.test", Password: "abc", Department: model.DepartmentCSE,
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.Signup(ctx, SignupRequest{
		Name: "NoDept", Email: "nodept@dept.test", Password: "secret1",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	student := testutil.NewUser(t, db, "student", model.RoleStudent)

	user, err := svc.Authenticate(ctx, "STUDENT@dept.test", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, student.ID, user.ID)

	_, err = svc.Authenticate(ctx, student.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@dept.test", testutil.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateRole(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	hod := testutil.NewUser(t, db, "hod", model.RoleHOD)
	student := testutil.NewUser(t, db, "student", model.RoleStudent)
	adminActor := Actor{ID: admin.ID, Role: model.RoleAdmin}

	_, err := svc.UpdateRole(ctx, student.ID, "FACULTY", Actor{ID: hod.ID, Role: model.RoleHOD})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = svc.UpdateRole(ctx, student.ID, "DEAN", adminActor)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.UpdateRole(ctx, admin.ID, "STUDENT", adminActor)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.UpdateRole(ctx, 9999, "FACULTY", adminActor)
	assert.ErrorIs(t, err, ErrUserNotFound)

	updated, err := svc.UpdateRole(ctx, student.ID, "faculty", adminActor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleFaculty, updated.Role)
	assert.Equal(t, student.TokenVersion+1, updated.TokenVersion)

	var audit model.AdminAuditLog
	require.NoError(t, db.Where("action = ?", model.AuditActionRoleChange).First(&audit).Error)
	assert.Equal(t, student.ID, audit.ResourceID)
	assert.JSONEq(t, `{"role":"FACULTY"}`, string(audit.NewValue))
}

func TestListUsers(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	testutil.NewUser(t, db, "admin", model.RoleAdmin)
	testutil.NewUser(t, db, "s1", model.RoleStudent)
	testutil.NewUser(t, db, "s2", model.RoleStudent)

	all, err := svc.List(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	students, err := svc.List(ctx, UserFilter{Role: model.RoleStudent})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "s2", students[0].Name)
}

func TestAuditList(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(db)
	audit := NewAuditService(db)
	ctx := context.Background()

	admin := testutil.NewUser(t, db, "admin", model.RoleAdmin)
	s1 := testutil.NewUser(t, db, "s1", model.RoleStudent)
	s2 := testutil.NewUser(t, db, "s2", model.RoleStudent)
	actor := Actor{ID: admin.ID, Role: model.RoleAdmin, IPAddress: "10.0.0.1"}

	_, err := users.UpdateRole(ctx, s1.ID, "HOD", actor)
	require.NoError(t, err)
	_, err = users.UpdateRole(ctx, s2.ID, "FACULTY", actor)
	require.NoError(t, err)

	logs, total, err := audit.List(ctx, AuditFilter{Resource: "users", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 1)
	assert.Equal(t, s2.ID, logs[0].ResourceID)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
}
