package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct {
	err error
}

func (f fakeStore) Init() error        { return nil }
func (f fakeStore) Close() error       { return nil }
func (f fakeStore) HealthCheck() error { return f.err }
func (f fakeStore) GetDB() *gorm.DB    { return nil }

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		store    fakeStore
		cache    Pinger
		want     int
		contains string
	}{
		{"healthy without cache", fakeStore{}, nil, http.StatusOK, `"database":"ok"`},
		{"cache down is informational", fakeStore{}, fakePinger{err: errors.New("refused")}, http.StatusOK, `"cache":"unreachable"`},
		{"database down", fakeStore{err: errors.New("refused")}, fakePinger{}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler(tt.store, tt.cache).Check)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Contains(t, string(body), tt.contains)
		})
	}
}
