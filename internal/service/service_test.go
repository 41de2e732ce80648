package service

import (
	"keepify/internal/domain"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory database with the full schema. A single
// connection keeps the in-memory store visible across transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.EntrustmentOrder{}, &domain.EntrustedItem{}))
	return db
}

// newTestUser inserts a user with a real bcrypt hash for password.
func newTestUser(t *testing.T, db *gorm.DB, email, password, role string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := domain.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  active,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
