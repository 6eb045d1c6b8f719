package sqlite

import (
	"context"

	"github.com/example/agenda-generator/internal/persistence"
)

// BusinessRepository implements persistence.BusinessRepo using SQLite.
type BusinessRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBusinessRepository creates a new SQLite business-rule repository.
func NewBusinessRepository(pool *ConnectionPool) *BusinessRepository {
	return &BusinessRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ByRole returns every business rule declared for role_id.
func (r *BusinessRepository) ByRole(ctx context.Context, roleID string) ([]persistence.BusinessRule, error) {
	query := `
		SELECT id, role_id, start_time, end_time, specific_date, is_recurring, day_of_week, start_date, end_date
		FROM business_rules
		WHERE role_id = ?
	`

	rows, err := r.helper.Query(ctx, query, roleID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var out []persistence.BusinessRule
	for rows.Next() {
		var rec persistence.BusinessRule
		var cols ruleColumns

		if err := rows.Scan(
			&rec.ID, &rec.RoleID,
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

// Create inserts a new business rule; see AvailabilityRepository.Create for
// why this sits outside the persistence.BusinessRepo contract.
func (r *BusinessRepository) Create(ctx context.Context, rule persistence.BusinessRule) error {
	query := `
		INSERT INTO business_rules (id, role_id, start_time, end_time, specific_date, is_recurring, day_of_week, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := append([]interface{}{rule.ID, rule.RoleID}, encodeHourRule(rule.Rule)...)

	_, err := r.helper.Exec(ctx, query, args...)
	if err != nil {
		return mapRuleWriteError(r.mapper, err)
	}
	return nil
}
