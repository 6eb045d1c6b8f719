package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/rules"
)

// mapRuleWriteError maps a failed rule INSERT to the persistence sentinel
// errors, falling back to the generic mapper for anything unrecognized.
func mapRuleWriteError(mapper *ErrorMapper, err error) error {
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

// ruleColumns is the scan destination shared by availability_rules and
// business_rules: both tables carry the same HourRule column set (§6).
type ruleColumns struct {
	startTime    string
	endTime      string
	specificDate sql.NullString
	isRecurring  bool
	dayOfWeek    sql.NullInt64
	startDate    sql.NullString
	endDate      sql.NullString
}

func decodeHourRule(c ruleColumns) (rules.HourRule, error) {
	start, err := rules.ParseTimeOfDay(c.startTime)
	if err != nil {
		return rules.HourRule{}, fmt.Errorf("sqlite: decode start_time: %w", err)
	}
	end, err := rules.ParseTimeOfDay(c.endTime)
	if err != nil {
		return rules.HourRule{}, fmt.Errorf("sqlite: decode end_time: %w", err)
	}

	rule := rules.HourRule{StartTime: start, EndTime: end, IsRecurring: c.isRecurring}

	if c.specificDate.Valid {
		d, err := calendar.ParseDate(c.specificDate.String)
		if err != nil {
			return rules.HourRule{}, fmt.Errorf("sqlite: decode specific_date: %w", err)
		}
		rule.SpecificDate = &d
	}
	if c.dayOfWeek.Valid {
		dow := int(c.dayOfWeek.Int64)
		rule.DayOfWeek = &dow
	}
	if c.startDate.Valid {
		d, err := calendar.ParseDate(c.startDate.String)
		if err != nil {
			return rules.HourRule{}, fmt.Errorf("sqlite: decode start_date: %w", err)
		}
		rule.StartDate = &d
	}
	if c.endDate.Valid {
		d, err := calendar.ParseDate(c.endDate.String)
		if err != nil {
			return rules.HourRule{}, fmt.Errorf("sqlite: decode end_date: %w", err)
		}
		rule.EndDate = &d
	}
	return rule, nil
}

// encodeHourRule produces the positional argument list matching the
// (start_time, end_time, specific_date, is_recurring, day_of_week,
// start_date, end_date) column order used by every rule INSERT in this
// package.
func encodeHourRule(rule rules.HourRule) []interface{} {
	var specificDate, startDate, endDate sql.NullString
	var dayOfWeek sql.NullInt64

	if rule.SpecificDate != nil {
		specificDate = sql.NullString{String: rule.SpecificDate.String(), Valid: true}
	}
	if rule.DayOfWeek != nil {
		dayOfWeek = sql.NullInt64{Int64: int64(*rule.DayOfWeek), Valid: true}
	}
	if rule.StartDate != nil {
		startDate = sql.NullString{String: rule.StartDate.String(), Valid: true}
	}
	if rule.EndDate != nil {
		endDate = sql.NullString{String: rule.EndDate.String(), Valid: true}
	}

	return []interface{}{
		rule.StartTime.String(),
		rule.EndTime.String(),
		specificDate,
		rule.IsRecurring,
		dayOfWeek,
		startDate,
		endDate,
	}
}
