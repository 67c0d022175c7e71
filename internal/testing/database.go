package testing

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// CreateTestDB creates an in-memory SQLite test database.
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// A second pooled connection would see a different in-memory database
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreatePatientsDB creates a SQLite file holding the patients fixture table
// and returns its path. Rows are (id, ward, outcome) with a few NULLs.
func CreatePatientsDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "uhs.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE patients (id INTEGER, ward TEXT, outcome TEXT)`,
		`INSERT INTO patients VALUES (1, 'north', 'recovered')`,
		`INSERT INTO patients VALUES (2, 'south', 'recovered')`,
		`INSERT INTO patients VALUES (3, NULL, 'transferred')`,
		`INSERT INTO patients VALUES (4, 'north', NULL)`,
		`INSERT INTO patients VALUES (NULL, 'east', 'recovered')`,
		`INSERT INTO patients VALUES (5, 'south', 'transferred')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to seed test database: %v", fmt.Errorf("%s: %w", stmt, err))
		}
	}
	return path
}
