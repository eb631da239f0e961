package validation

import (
	"testing"

	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name       string `validate:"required"`
	Department string `validate:"required,department"`
	Role       string `validate:"omitempty,role"`
	Status     string `validate:"omitempty,event_status"`
}

func TestDomainTags(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStruct(sample{Name: "x", Department: "CSE", Role: "faculty", Status: "APPROVED"}))
	assert.Error(t, v.ValidateStruct(sample{Name: "x", Department: "MATH"}))
	assert.Error(t, v.ValidateStruct(sample{Name: "x", Department: "CSE", Role: "JANITOR"}))
	assert.Error(t, v.ValidateStruct(sample{Name: "x", Department: "CSE", Status: "ARCHIVED"}))
}

func TestCheckReturnsValidationKind(t *testing.T) {
	err := NewValidator().Check(sample{Department: "MATH"})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "Name is required")
	assert.Contains(t, appErr.Details, "Department must be one of")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a.b@msrit.edu", NormalizeEmail("  A.B@MSRIT.edu "))
	assert.True(t, ValidateEmail("a.b@msrit.edu"))
	assert.False(t, ValidateEmail("not-an-email"))
}
