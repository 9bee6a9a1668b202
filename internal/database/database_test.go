package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/utils"
)

func TestConnectSQLiteAndSeedAdmin(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "bistro.db")
	db, err := Connect(Options{Driver: "sqlite", DSN: dsn, LogLevel: logger.Silent})
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(db, "admin@bistro.example", "changeme", "Admin"))
	require.NoError(t, SeedAdmin(db, "admin@bistro.example", "changeme", "Admin"))

	var admins []models.User
	require.NoError(t, db.Where("email = ?", "admin@bistro.example").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, models.RoleAdmin, admins[0].Role)
	assert.True(t, utils.CheckPassword(admins[0].PasswordHash, "changeme"))
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "bistro.db")
	db, err := Connect(Options{Driver: "sqlite", DSN: dsn, LogLevel: logger.Silent})
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(db, "", "", "Admin"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Options{Driver: "mongo"})
	assert.Error(t, err)
}

func TestEnsureDatabaseIgnoresKeywordDSN(t *testing.T) {
	assert.NoError(t, ensureDatabase("host=localhost user=postgres dbname=bistro"))
}
