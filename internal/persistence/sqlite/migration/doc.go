// Package migration provides a file-based, versioned migration system for
// the agenda service's SQLite database. It supports:
//
//   - Sequential migration execution with version tracking
//   - Transactional migration execution with rollback on failure
//   - File-based migration storage with structured naming conventions
//   - Comprehensive error handling and logging
//
// The agenda service's own migrations live under SchemaMigrationDir
// (internal/persistence/sqlite/migrations) and follow the naming convention
// {version}_{description}.sql — currently a single 001_initial_schema.sql
// that creates roles, people, availability_rules, business_rules, agendas,
// agenda_entries, and agenda_coverage (§3/§6). RequireForeignKeys guards
// against running that schema with foreign key enforcement turned off.
//
// The migration system maintains a schema_migrations table to track applied
// migrations and prevent duplicate execution.
//
// Example usage:
//
//	manager := NewMigrationManager(scanner, executor, SchemaMigrationDir)
//	if err := manager.RunMigrations(ctx); err != nil {
//		log.Fatalf("migration failed: %v", err)
//	}
package migration