package auth

import (
	"testing"

	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(model.RoleHOD, model.RoleAdmin, model.RoleHOD))
	assert.NoError(t, Authorize(model.RoleAdmin, model.RoleAdmin))

	err := Authorize(model.RoleFaculty, model.RoleAdmin, model.RoleHOD)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	assert.Error(t, Authorize(model.RoleAdmin), "empty allowed set denies")
	assert.Error(t, Authorize("", model.RoleStudent))
}

func TestCanManage(t *testing.T) {
	event := &model.Event{ID: 1, OrganizerID: 7}

	assert.True(t, CanManage(event, 7, model.RoleFaculty), "organizer")
	assert.True(t, CanManage(event, 99, model.RoleAdmin), "admin")
	assert.False(t, CanManage(event, 99, model.RoleFaculty))
	assert.False(t, CanManage(event, 99, model.RoleHOD))
	assert.False(t, CanManage(nil, 7, model.RoleAdmin))
}
