package migration

import "fmt"

// SchemaMigrationDir is the repo-relative directory holding this service's
// migration files (roles, people, availability_rules, business_rules,
// agendas, agenda_entries, agenda_coverage — see §3/§6). cmd/agendasvc
// resolves migrations from here when run from the repo root (cmd/agendactl
// runs no migrations); internal/testfixtures resolves the same directory relative to its
// own source file instead, since test binaries run with a different cwd.
const SchemaMigrationDir = "internal/persistence/sqlite/migrations"

// RequireForeignKeys rejects a SQLiteConfig that disables foreign key
// enforcement. The agenda schema leans on FK constraints to keep
// availability_rules/business_rules/agenda_entries/agenda_coverage rows
// anchored to a live role or agenda row (§3); running this schema without
// them risks orphaned rows the core never validates for itself.
func RequireForeignKeys(config SQLiteConfig) error {
	if !config.EnableForeignKeys {
		return fmt.Errorf("agenda schema requires foreign key enforcement: EnableForeignKeys is false for DSN %q", config.DSN)
	}
	return nil
}
