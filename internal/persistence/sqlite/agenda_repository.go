package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/rules"
)

// AgendaRepository implements persistence.AgendaRepo using SQLite.
type AgendaRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAgendaRepository creates a new SQLite agenda repository.
func NewAgendaRepository(pool *ConnectionPool) *AgendaRepository {
	return &AgendaRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// Create inserts the agenda header row. Entries and coverage are inserted
// separately via CreateEntry/CreateCoverage, mirroring the call shape
// internal/agenda/service.go drives one row at a time (§4.F, §5).
func (r *AgendaRepository) Create(ctx context.Context, agenda persistence.Agenda) error {
	if agenda.ID == "" {
		return persistence.ErrConstraintViolation
	}
	query := `
		INSERT INTO agendas (id, role_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		agenda.ID, agenda.RoleID, string(agenda.Status),
		agenda.CreatedAt.UTC().Format(time.RFC3339), agenda.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return mapAgendaWriteError(r.mapper, err)
	}
	return nil
}

// CreateEntry inserts one agenda_entries row.
func (r *AgendaRepository) CreateEntry(ctx context.Context, entry persistence.AgendaEntry) error {
	query := `
		INSERT INTO agenda_entries (id, agenda_id, person_id, role_id, date, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		entry.ID, entry.AgendaID, entry.PersonID, entry.RoleID,
		entry.Date.String(), entry.Start.String(), entry.End.String(),
	)
	if err != nil {
		return mapAgendaWriteError(r.mapper, err)
	}
	return nil
}

// CreateCoverage inserts one agenda_coverage row.
func (r *AgendaRepository) CreateCoverage(ctx context.Context, coverage persistence.AgendaCoverage) error {
	query := `
		INSERT INTO agenda_coverage (id, agenda_id, role_id, date, start_time, end_time, is_covered, required_person_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.helper.Exec(ctx, query,
		coverage.ID, coverage.AgendaID, coverage.RoleID,
		coverage.Date.String(), coverage.Start.String(), coverage.End.String(),
		coverage.IsCovered, coverage.RequiredPersonCount,
	)
	if err != nil {
		return mapAgendaWriteError(r.mapper, err)
	}
	return nil
}

// GetByID retrieves an agenda header by id.
func (r *AgendaRepository) GetByID(ctx context.Context, id string) (persistence.Agenda, error) {
	if id == "" {
		return persistence.Agenda{}, persistence.ErrNotFound
	}

	query := `SELECT id, role_id, status, created_at, updated_at FROM agendas WHERE id = ?`

	var agenda persistence.Agenda
	var status, createdAt, updatedAt string

	err := r.helper.QueryRow(ctx, query, id).Scan(&agenda.ID, &agenda.RoleID, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Agenda{}, persistence.ErrNotFound
		}
		return persistence.Agenda{}, r.mapper.MapError(err)
	}
	agenda.Status = persistence.AgendaStatus(status)

	if agenda.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Agenda{}, fmt.Errorf("sqlite: decode created_at: %w", err)
	}
	if agenda.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Agenda{}, fmt.Errorf("sqlite: decode updated_at: %w", err)
	}

	return agenda, nil
}

// EntriesByAgenda returns every entry belonging to agendaID, ordered by
// date then start_time for stable display.
func (r *AgendaRepository) EntriesByAgenda(ctx context.Context, agendaID string) ([]persistence.AgendaEntry, error) {
	query := `
		SELECT id, agenda_id, person_id, role_id, date, start_time, end_time
		FROM agenda_entries
		WHERE agenda_id = ?
		ORDER BY date ASC, start_time ASC
	`

	rows, err := r.helper.Query(ctx, query, agendaID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.AgendaEntry
	for rows.Next() {
		var e persistence.AgendaEntry
		var dateStr, startStr, endStr string
		if err := rows.Scan(&e.ID, &e.AgendaID, &e.PersonID, &e.RoleID, &dateStr, &startStr, &endStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if e.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("sqlite: decode date: %w", err)
		}
		if e.Start, err = rules.ParseTimeOfDay(startStr); err != nil {
			return nil, fmt.Errorf("sqlite: decode start_time: %w", err)
		}
		if e.End, err = rules.ParseTimeOfDay(endStr); err != nil {
			return nil, fmt.Errorf("sqlite: decode end_time: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return out, nil
}

// CoverageByAgenda returns every coverage row belonging to agendaID, ordered
// by date then start_time.
func (r *AgendaRepository) CoverageByAgenda(ctx context.Context, agendaID string) ([]persistence.AgendaCoverage, error) {
	query := `
		SELECT id, agenda_id, role_id, date, start_time, end_time, is_covered, required_person_count
		FROM agenda_coverage
		WHERE agenda_id = ?
		ORDER BY date ASC, start_time ASC
	`

	rows, err := r.helper.Query(ctx, query, agendaID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.AgendaCoverage
	for rows.Next() {
		var c persistence.AgendaCoverage
		var dateStr, startStr, endStr string
		if err := rows.Scan(&c.ID, &c.AgendaID, &c.RoleID, &dateStr, &startStr, &endStr, &c.IsCovered, &c.RequiredPersonCount); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if c.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("sqlite: decode date: %w", err)
		}
		if c.Start, err = rules.ParseTimeOfDay(startStr); err != nil {
			return nil, fmt.Errorf("sqlite: decode start_time: %w", err)
		}
		if c.End, err = rules.ParseTimeOfDay(endStr); err != nil {
			return nil, fmt.Errorf("sqlite: decode end_time: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return out, nil
}

// ByRole lists agenda headers for a role, optionally narrowed by status
// (§6 GET /agendas).
func (r *AgendaRepository) ByRole(ctx context.Context, roleID string, filter persistence.AgendaListFilter) ([]persistence.Agenda, error) {
	query := `SELECT id, role_id, status, created_at, updated_at FROM agendas WHERE role_id = ?`
	args := []interface{}{roleID}

	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.Agenda
	for rows.Next() {
		var a persistence.Agenda
		var status, createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.RoleID, &status, &createdAt, &updatedAt); err != nil {
			return nil, r.mapper.MapError(err)
		}
		a.Status = persistence.AgendaStatus(status)
		if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: decode created_at: %w", err)
		}
		if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: decode updated_at: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return out, nil
}

// UpdateStatus transitions an agenda's status on behalf of an external
// collaborator (§3 lifecycle); the core itself never calls this.
func (r *AgendaRepository) UpdateStatus(ctx context.Context, id string, status persistence.AgendaStatus) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE agendas SET status = ?, updated_at = ? WHERE id = ?",
			string(status), time.Now().UTC().Format(time.RFC3339), id,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func mapAgendaWriteError(mapper *ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	switch {
	case containsAny(errStr, []string{"UNIQUE constraint failed"}):
		return persistence.ErrDuplicate
	case containsAny(errStr, []string{"FOREIGN KEY constraint failed"}):
		return persistence.ErrForeignKeyViolation
	case containsAny(errStr, []string{"CHECK constraint failed"}):
		return persistence.ErrConstraintViolation
	default:
		return mapper.MapError(err)
	}
}
