package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/testutil"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func tokenVersion(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user model.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.TokenVersion
}

func TestRevokeAllUserTokens(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db, "alice", model.RoleStudent)
	ctx := context.Background()

	require.NoError(t, auth.NewBlacklistService(db).RevokeAllUserTokens(ctx, user.ID))
	assert.Equal(t, 1, tokenVersion(t, db, user.ID))

	// A rolled back transaction leaves the version untouched
	rollback := errors.New("rollback")
	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, auth.NewBlacklistService(tx).RevokeAllUserTokens(ctx, user.ID))
		return rollback
	})
	require.ErrorIs(t, err, rollback)
	assert.Equal(t, 1, tokenVersion(t, db, user.ID))

	err = db.Transaction(func(tx *gorm.DB) error {
		return auth.NewBlacklistService(tx).RevokeAllUserTokens(ctx, user.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tokenVersion(t, db, user.ID))
}

func TestRevokeTokenAndCleanup(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.NewUser(t, db, "bob", model.RoleStudent)
	blacklist := auth.NewBlacklistService(db)
	ctx := context.Background()

	require.NoError(t, blacklist.RevokeToken(ctx, "live-jti", user.ID, time.Now().Add(time.Hour), "logout"))
	require.NoError(t, blacklist.RevokeToken(ctx, "stale-jti", user.ID, time.Now().Add(-time.Hour), "logout"))

	revoked, err := blacklist.IsTokenRevoked(ctx, "live-jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsTokenRevoked(ctx, "unknown-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	removed, err := blacklist.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
