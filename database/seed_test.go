package database_test

import (
	"testing"

	"github.com/sahilchouksey/dept-events/config"
	"github.com/sahilchouksey/dept-events/database"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/testutil"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdminUser(t *testing.T) {
	db := testutil.NewDB(t)
	env := &config.EnviornmentVariable{
		ADMIN_NAME:       "Root",
		ADMIN_EMAIL:      "  Root@Dept.Test ",
		ADMIN_PASSWORD:   "changeme",
		ADMIN_DEPARTMENT: "CSE",
	}
	seeder := database.NewSeeder(db, env)

	require.NoError(t, seeder.SeedAll())

	var admin model.User
	require.NoError(t, db.Where("role = ?", model.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "root@dept.test", admin.Email)
	assert.NoError(t, auth.VerifyPassword(admin.PasswordHash, "changeme"))

	// A second run leaves the existing admin alone
	require.NoError(t, seeder.SeedAll())
	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedAdminUserSkipsAndValidates(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.NewSeeder(db, &config.EnviornmentVariable{ADMIN_DEPARTMENT: "CSE"}).SeedAdminUser())
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)

	err := database.NewSeeder(db, &config.EnviornmentVariable{
		ADMIN_EMAIL:      "root@dept.test",
		ADMIN_PASSWORD:   "changeme",
		ADMIN_DEPARTMENT: "PHYSICS",
	}).SeedAdminUser()
	assert.Error(t, err)
}
