package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  *apperror.Error
		want int
	}{
		{apperror.Validation("bad", ""), fiber.StatusBadRequest},
		{apperror.New(apperror.KindInvalidState, "EVENT_NOT_APPROVED", "x"), fiber.StatusBadRequest},
		{apperror.New(apperror.KindConflict, "EVENT_FULL", "x"), fiber.StatusBadRequest},
		{apperror.New(apperror.KindConflict, "ALREADY_REGISTERED", "x"), fiber.StatusBadRequest},
		{apperror.New(apperror.KindConflict, "EMAIL_TAKEN", "x"), fiber.StatusConflict},
		{apperror.Forbidden(""), fiber.StatusForbidden},
		{apperror.NotFound("x"), fiber.StatusNotFound},
		{apperror.New(apperror.KindUnauthenticated, "UNAUTHORIZED", "x"), fiber.StatusUnauthorized},
		{apperror.Internal("", nil), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Code)
	}
}

func TestFromErrorDoesNotLeakCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return FromError(c, errors.New("pq: password authentication failed"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "password authentication")

	var parsed Response
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.False(t, parsed.Success)
	assert.Equal(t, "INTERNAL_ERROR", parsed.Error.Code)
}

func TestListIncludesCount(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return List(c, 0, []string{})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, true, parsed["success"])
	assert.Equal(t, float64(0), parsed["count"])
}
