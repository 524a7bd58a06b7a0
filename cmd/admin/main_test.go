package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumeforge/internal/auth"
	"resumeforge/internal/database"
)

func newAdminStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return database.NewStore(db)
}

func TestCreateUserAndResetPassword(t *testing.T) {
	ctx := context.Background()
	store := newAdminStore(t)

	require.NoError(t, createUser(ctx, store, "grace"))
	assert.ErrorContains(t, createUser(ctx, store, "grace"), "already exists")
	assert.ErrorContains(t, createUser(ctx, store, ""), "--username")

	before, err := store.FindUserByUsername(ctx, "grace")
	require.NoError(t, err)

	require.NoError(t, resetPassword(ctx, store, "grace"))
	after, err := store.FindUserByUsername(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)

	assert.ErrorContains(t, resetPassword(ctx, store, "nobody"), "not found")
}

func TestNewPasswordHashMatches(t *testing.T) {
	plain, hashed, err := newPassword()
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.True(t, auth.CheckPasswordHash(plain, hashed))
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("DATABASE_PORT", "6543")
	t.Setenv("POSTGRES_DB", "forge")
	t.Setenv("POSTGRES_USER", "forge")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("DATABASE_SSLMODE", "")

	cfg, err := loadDatabaseConfig("", 0, "", "admin", "", "")
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "forge", cfg.Name)
	assert.Equal(t, "admin", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "disable", cfg.SSLMode)

	t.Setenv("POSTGRES_PASSWORD", "")
	_, err = loadDatabaseConfig("", 0, "", "", "", "")
	assert.ErrorContains(t, err, "POSTGRES_PASSWORD")

	t.Setenv("DATABASE_PORT", "not-a-port")
	_, err = loadDatabaseConfig("", 0, "", "", "pw", "")
	assert.ErrorContains(t, err, "DATABASE_PORT")
}
