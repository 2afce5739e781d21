// Package sqlitedb opens a migrated in-memory database for repository and
// usecase tests.
package sqlitedb

import (
	"testing"

	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/infrastructure/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// User mirrors the slice of the external users table the core reads.
type User struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID string `gorm:"column:user_id;size:32;uniqueIndex"`
	Phone  string `gorm:"column:phone"`
	Email  string `gorm:"column:email"`
}

func (User) TableName() string { return "users" }

// Open returns a fresh database with every lending table, the users table and
// one active payment method (id 1). A single connection keeps the in-memory
// database alive and serializes transactions the way row locks would.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection serializes transactions; sqlite has no row locks, so the
	// FOR UPDATE statements are asserted against sqlmock in the mysql package
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	if err := gdb.Create(&payment.Method{ID: 1, Name: "bank transfer", Active: true}).Error; err != nil {
		t.Fatalf("seed payment method: %v", err)
	}
	return gdb
}
