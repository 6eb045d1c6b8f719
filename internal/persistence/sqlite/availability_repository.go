package sqlite

import (
	"context"

	"github.com/example/agenda-generator/internal/persistence"
)

// AvailabilityRepository implements persistence.AvailabilityRepo using SQLite.
type AvailabilityRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAvailabilityRepository creates a new SQLite availability repository.
func NewAvailabilityRepository(pool *ConnectionPool) *AvailabilityRepository {
	return &AvailabilityRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ByRole returns every availability rule declared for role_id, in no
// particular order; callers (internal/agenda) sort the expanded instances
// themselves.
func (r *AvailabilityRepository) ByRole(ctx context.Context, roleID string) ([]persistence.AvailabilityRule, error) {
	query := `
		SELECT id, person_id, role_id, start_time, end_time, specific_date, is_recurring, day_of_week, start_date, end_date
		FROM availability_rules
		WHERE role_id = ?
	`

	rows, err := r.helper.Query(ctx, query, roleID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.AvailabilityRule
	for rows.Next() {
		var rec persistence.AvailabilityRule
		var cols ruleColumns

		if err := rows.Scan(
			&rec.ID, &rec.PersonID, &rec.RoleID,
			&cols.startTime, &cols.endTime, &cols.specificDate,
			&cols.isRecurring, &cols.dayOfWeek, &cols.startDate, &cols.endDate,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}

		rec.Rule, err = decodeHourRule(cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return out, nil
}

// Create inserts a new availability rule. Not part of persistence.AvailabilityRepo
// (rules are owned by an external collaborator per §3 lifecycle); exposed for
// test fixtures.
func (r *AvailabilityRepository) Create(ctx context.Context, rule persistence.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (id, person_id, role_id, start_time, end_time, specific_date, is_recurring, day_of_week, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := append([]interface{}{rule.ID, rule.PersonID, rule.RoleID}, encodeHourRule(rule.Rule)...)

	_, err := r.helper.Exec(ctx, query, args...)
	if err != nil {
		return mapRuleWriteError(r.mapper, err)
	}
	return nil
}
