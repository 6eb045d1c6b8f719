package testfixtures

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/persistence/sqlite"
	"github.com/example/agenda-generator/internal/persistence/sqlite/migration"
)

// migrationDir resolves migration.SchemaMigrationDir relative to this source
// file, so the harness works regardless of the test binary's working
// directory (migration.SchemaMigrationDir itself is repo-root relative and
// only resolves correctly for processes started from the repo root, such as
// cmd/agendasvc).
func migrationDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "persistence", "sqlite", "migrations")
}

// SQLiteHarness provides repository access backed by a temporary, fully
// migrated SQLite database for integration-style persistence tests.
type SQLiteHarness struct {
	Roles        persistence.RoleRepo
	Availability persistence.AvailabilityRepo
	Business     persistence.BusinessRepo
	Agendas      persistence.AgendaRepo

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness backed by a temp-file database
// migrated through the production migration set. Callers may optionally
// invoke Close, but the helper also registers a cleanup callback with tb.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	dbPath := filepath.Join(dir, "agenda.db")

	sqliteConfig := migration.TempFileTestSQLiteConfig(dbPath)
	if err := migration.RequireForeignKeys(sqliteConfig); err != nil {
		tb.Fatalf("test config must enforce foreign keys: %v", err)
	}
	connManager := migration.NewConnectionManager(sqliteConfig)
	db, err := connManager.GetConnection()
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	scanner := migration.NewFileScanner()
	executor := migration.NewSQLiteExecutor(db)
	manager := migration.NewMigrationManager(scanner, executor, migrationDir())
	if err := manager.RunMigrations(context.Background()); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to run migrations: %v", err)
	}
	if err := db.Close(); err != nil {
		tb.Fatalf("failed to close migration connection: %v", err)
	}

	pool, err := sqlite.NewConnectionPool(sqliteConfig)
	if err != nil {
		tb.Fatalf("failed to open connection pool: %v", err)
	}

	harness := &SQLiteHarness{
		Roles:        sqlite.NewRoleRepository(pool),
		Availability: sqlite.NewAvailabilityRepository(pool),
		Business:     sqlite.NewBusinessRepository(pool),
		Agendas:      sqlite.NewAgendaRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
