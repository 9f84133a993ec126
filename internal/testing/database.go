package testing

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teranos/xraydb/db"
)

// CreateTestDB creates an in-memory SQLite test database.
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Every pooled connection to :memory: is a separate database
	database.SetMaxOpenConns(1)

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

// CreateSchemaDB creates an in-memory database with every destination table declared.
func CreateSchemaDB(t *testing.T) *sql.DB {
	t.Helper()

	database := CreateTestDB(t)
	if err := db.ApplySchema(context.Background(), database, nil); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return database
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM "` + table + `"`).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
