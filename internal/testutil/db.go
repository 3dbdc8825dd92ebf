// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"mauryavansham-service/internal/model"
	"mauryavansham-service/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// NewDB returns a migrated in-memory SQLite database private to the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=1", atomic.AddInt64(&dbSeq, 1))
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection serializes writers; sqlite has a single writer anyway
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts an approved user with the given id
func CreateUser(t *testing.T, db *gorm.DB, id uint, name string) *model.User {
	t.Helper()
	u := &model.User{
		ID:     id,
		Name:   name,
		Email:  fmt.Sprintf("user%d@example.com", id),
		Role:   model.RoleUser,
		Status: model.UserStatusApproved,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateProfile inserts an active profile owned by userID
func CreateProfile(t *testing.T, db *gorm.DB, id, userID uint, name string) *model.Profile {
	t.Helper()
	p := &model.Profile{
		ID:              id,
		UserID:          userID,
		ProfileRelation: model.RelationMyself,
		Name:            name,
		Email:           fmt.Sprintf("profile%d@example.com", id),
		Phone:           "9876543210",
		DOB:             "1995-01-20",
		Gender:          model.GenderFemale,
		Height:          `5'4"`,
		MaritalStatus:   "Never Married",
		City:            "Patna",
		State:           "Bihar",
		FatherName:      "Ramesh",
		MotherName:      "Sita",
		FamilyType:      "Joint",
		IsActive:        true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}
