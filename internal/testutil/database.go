// Package testutil provides test helpers for setting up in-memory state
// databases and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// counter keeps each test's in-memory database distinct while still sharing
// it across the pooled connections of one gorm.DB.
var counter atomic.Int64

// SetupStateDB creates an in-memory SQLite database for session state.
// Schema migration is owned by session.Open.
func SetupStateDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:state_test_%d?mode=memory&cache=shared", counter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// TeardownStateDB closes the underlying database connection.
func TeardownStateDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
