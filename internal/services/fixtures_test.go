package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/bistro/internal/database"
	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bistro.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *Principal {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	user := models.User{Name: email, Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &Principal{User: &user}
}

func createMenuItem(t *testing.T, db *gorm.DB, name string, price float64, category models.MenuCategory) models.MenuItem {
	t.Helper()

	item := models.MenuItem{Name: name, Price: price, Category: category, IsAvailable: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}
