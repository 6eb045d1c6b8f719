// Package rules implements the HourRule tagged variant and its expansion
// into concrete dated (date, start, end) instances within a date window
// (§3, §4.B). Recurring-weekday expansion is delegated to
// github.com/teambition/rrule-go rather than a hand-rolled day-stepping
// loop, the same library the wider example corpus reaches for when it needs
// weekday recurrence.
package rules

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/agenda-generator/internal/calendar"
)

// Mode identifies which of the three HourRule variants is active.
type Mode int

const (
	// ModeNone is returned when no field combination matches a known mode;
	// such rules yield no instances.
	ModeNone Mode = iota
	// ModeSpecificDate applies the rule on exactly one calendar date.
	ModeSpecificDate
	// ModeRecurringWeekday applies the rule on every matching weekday
	// within an optional [start_date, end_date] window.
	ModeRecurringWeekday
	// ModeDatedRange applies the rule on every date within
	// [start_date, end_date], regardless of weekday.
	ModeDatedRange
)

// HourRule is the tagged-variant form of the flat, optional-field rule
// representation described by §9: exactly one mode is resolved by
// precedence, never by the caller picking a variant directly.
type HourRule struct {
	StartTime TimeOfDay
	EndTime   TimeOfDay

	// SpecificDate, when non-nil, selects ModeSpecificDate.
	SpecificDate *calendar.Date

	// IsRecurring and DayOfWeek together select ModeRecurringWeekday when
	// DayOfWeek is non-nil. DayOfWeek is numbered 0=Monday..6=Sunday.
	IsRecurring bool
	DayOfWeek   *int

	// StartDate and EndDate bound ModeRecurringWeekday (optionally) and
	// select ModeDatedRange (both required) when neither SpecificDate nor
	// the IsRecurring/DayOfWeek pair selects an earlier mode.
	StartDate *calendar.Date
	EndDate   *calendar.Date
}

// Mode resolves the active variant by the precedence rule in §3:
// specific_date dominates, then recurring-by-weekday, then dated range.
func (r HourRule) Mode() Mode {
	switch {
	case r.SpecificDate != nil:
		return ModeSpecificDate
	case r.IsRecurring && r.DayOfWeek != nil:
		return ModeRecurringWeekday
	case r.StartDate != nil && r.EndDate != nil:
		return ModeDatedRange
	default:
		return ModeNone
	}
}

// Instance is one concrete dated occurrence of a rule.
type Instance struct {
	Date  calendar.Date
	Start TimeOfDay
	End   TimeOfDay
}

// Expand returns the set of dated instances rule produces within window,
// per the precedence and gating logic of §4.B. window must be sorted
// ascending; it is typically calendar.DatesForWeeks' output. The result is
// sorted by date and is stable across repeated calls given the same inputs
// (Testable property 4).
func Expand(rule HourRule, window []calendar.Date) []Instance {
	switch rule.Mode() {
	case ModeSpecificDate:
		return expandSpecificDate(rule, window)
	case ModeRecurringWeekday:
		return expandRecurringWeekday(rule, window)
	case ModeDatedRange:
		return expandDatedRange(rule, window)
	default:
		return nil
	}
}

func expandSpecificDate(rule HourRule, window []calendar.Date) []Instance {
	for _, d := range window {
		if d.Equal(*rule.SpecificDate) {
			return []Instance{{Date: d, Start: rule.StartTime, End: rule.EndTime}}
		}
	}
	return nil
}

func expandDatedRange(rule HourRule, window []calendar.Date) []Instance {
	var out []Instance
	for _, d := range window {
		if d.Before(*rule.StartDate) || d.After(*rule.EndDate) {
			continue
		}
		out = append(out, Instance{Date: d, Start: rule.StartTime, End: rule.EndTime})
	}
	return out
}

func expandRecurringWeekday(rule HourRule, window []calendar.Date) []Instance {
	if len(window) == 0 {
		return nil
	}

	span := make([]calendar.Date, len(window))
	copy(span, window)
	calendar.SortDates(span)
	first, last := span[0], span[len(span)-1]

	dtstart := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	until := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, time.UTC)

	rruleSet, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Until:     until,
		Byweekday: []rrule.Weekday{toRRuleWeekday(*rule.DayOfWeek)},
	})
	if err != nil {
		return nil
	}

	inWindow := make(map[calendar.Date]struct{}, len(window))
	for _, d := range window {
		inWindow[d] = struct{}{}
	}

	var out []Instance
	for _, occurrence := range rruleSet.Between(dtstart, until, true) {
		d := calendar.DateFromTime(occurrence)
		if _, ok := inWindow[d]; !ok {
			continue
		}
		if rule.StartDate != nil && d.Before(*rule.StartDate) {
			continue
		}
		if rule.EndDate != nil && d.After(*rule.EndDate) {
			continue
		}
		out = append(out, Instance{Date: d, Start: rule.StartTime, End: rule.EndTime})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// toRRuleWeekday converts the system's 0=Monday..6=Sunday numbering to
// rrule-go's Weekday constants.
func toRRuleWeekday(dayOfWeek int) rrule.Weekday {
	switch dayOfWeek {
	case 0:
		return rrule.MO
	case 1:
		return rrule.TU
	case 2:
		return rrule.WE
	case 3:
		return rrule.TH
	case 4:
		return rrule.FR
	case 5:
		return rrule.SA
	default:
		return rrule.SU
	}
}
