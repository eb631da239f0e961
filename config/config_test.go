package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("CRON_ENABLED", "")
	t.Setenv("JWT_EXPIRY", "")

	env, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 5000, env.PORT)
	assert.Equal(t, "localhost", env.DB_HOST)
	assert.True(t, env.CRON_ENABLED)
	assert.Equal(t, 24*time.Hour, env.JWT_EXPIRY)
}

func TestGetOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("JWT_EXPIRY", "15m")

	env, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 9090, env.PORT)
	assert.False(t, env.CRON_ENABLED)
	assert.Equal(t, 15*time.Minute, env.JWT_EXPIRY)
}

func TestGetRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Get()
	assert.Error(t, err)
}
