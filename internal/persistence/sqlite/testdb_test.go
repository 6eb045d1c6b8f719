package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/persistence/sqlite/migration"
)

func mustParseDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

// newTestPool creates a temp-file-backed connection pool with the full
// schema applied, following the teacher's setupScheduleRepositoryTest
// pattern of execing DDL directly rather than driving the full migration
// runner in unit tests.
func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	config := migration.TempFileTestSQLiteConfig(dbPath)
	pool, err := NewConnectionPool(config)
	if err != nil {
		t.Fatalf("NewConnectionPool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	ctx := context.Background()
	if _, err := pool.DB().ExecContext(ctx, `
		CREATE TABLE roles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT
		);
		CREATE TABLE people (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		);
		CREATE TABLE availability_rules (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL,
			role_id TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			specific_date TEXT,
			is_recurring INTEGER NOT NULL DEFAULT 0,
			day_of_week INTEGER,
			start_date TEXT,
			end_date TEXT
		);
		CREATE TABLE business_rules (
			id TEXT PRIMARY KEY,
			role_id TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			specific_date TEXT,
			is_recurring INTEGER NOT NULL DEFAULT 0,
			day_of_week INTEGER,
			start_date TEXT,
			end_date TEXT
		);
		CREATE TABLE agendas (
			id TEXT PRIMARY KEY,
			role_id TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE agenda_entries (
			id TEXT PRIMARY KEY,
			agenda_id TEXT NOT NULL,
			person_id TEXT NOT NULL,
			role_id TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL
		);
		CREATE TABLE agenda_coverage (
			id TEXT PRIMARY KEY,
			agenda_id TEXT NOT NULL,
			role_id TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			is_covered INTEGER NOT NULL DEFAULT 0,
			required_person_count INTEGER NOT NULL DEFAULT 1
		);
	`); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return pool
}

func createTestRole(t *testing.T, pool *ConnectionPool, id, name string) {
	t.Helper()
	if _, err := pool.DB().ExecContext(context.Background(),
		"INSERT INTO roles (id, name, description) VALUES (?, ?, NULL)", id, name); err != nil {
		t.Fatalf("createTestRole(%s): %v", id, err)
	}
}

func createTestPerson(t *testing.T, pool *ConnectionPool, id, name, email string) {
	t.Helper()
	if _, err := pool.DB().ExecContext(context.Background(),
		"INSERT INTO people (id, name, email) VALUES (?, ?, ?)", id, name, email); err != nil {
		t.Fatalf("createTestPerson(%s): %v", id, err)
	}
}
