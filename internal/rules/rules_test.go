package rules

import (
	"testing"
	"time"

	"github.com/example/agenda-generator/internal/calendar"
)

func week1Window() []calendar.Date {
	return calendar.DatesForWeeks([]int{1}, 2024)
}

func dayOfWeek(n int) *int { return &n }

func date(y int, m time.Month, d int) *calendar.Date {
	v := calendar.NewDate(y, m, d)
	return &v
}

func TestExpandSpecificDateMode(t *testing.T) {
	rule := HourRule{
		StartTime:    NewTimeOfDay(9, 0, 0),
		EndTime:      NewTimeOfDay(17, 0, 0),
		SpecificDate: date(2024, time.January, 1),
	}
	got := Expand(rule, week1Window())
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if !got[0].Date.Equal(calendar.NewDate(2024, time.January, 1)) {
		t.Fatalf("got[0].Date = %s, want 2024-01-01", got[0].Date)
	}
}

func TestExpandSpecificDateOutsideWindowYieldsNothing(t *testing.T) {
	rule := HourRule{
		StartTime:    NewTimeOfDay(9, 0, 0),
		EndTime:      NewTimeOfDay(17, 0, 0),
		SpecificDate: date(2024, time.February, 1),
	}
	if got := Expand(rule, week1Window()); len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestExpandRecurringWeekday(t *testing.T) {
	rule := HourRule{
		StartTime:   NewTimeOfDay(9, 0, 0),
		EndTime:     NewTimeOfDay(17, 0, 0),
		IsRecurring: true,
		DayOfWeek:   dayOfWeek(0), // Monday
	}
	got := Expand(rule, week1Window())
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if !got[0].Date.Equal(calendar.NewDate(2024, time.January, 1)) {
		t.Fatalf("got[0].Date = %s, want 2024-01-01 (Monday)", got[0].Date)
	}
}

func TestExpandRecurringWeekdayNonMatchingDay(t *testing.T) {
	rule := HourRule{
		StartTime:   NewTimeOfDay(9, 0, 0),
		EndTime:     NewTimeOfDay(17, 0, 0),
		IsRecurring: true,
		DayOfWeek:   dayOfWeek(1), // Tuesday, scenario S2
	}
	got := Expand(rule, week1Window())
	if len(got) != 1 || !got[0].Date.Equal(calendar.NewDate(2024, time.January, 2)) {
		t.Fatalf("got = %+v, want single instance on Tuesday 2024-01-02, none on Monday 2024-01-01", got)
	}
}

func TestExpandRecurringWeekdayGatedByDateWindow(t *testing.T) {
	rule := HourRule{
		StartTime:   NewTimeOfDay(9, 0, 0),
		EndTime:     NewTimeOfDay(17, 0, 0),
		IsRecurring: true,
		DayOfWeek:   dayOfWeek(0),
		StartDate:   date(2024, time.January, 8),
		EndDate:     date(2024, time.January, 31),
	}
	got := Expand(rule, week1Window())
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0 (start_date excludes week 1's Monday)", len(got))
	}
}

func TestExpandDatedRange(t *testing.T) {
	rule := HourRule{
		StartTime: NewTimeOfDay(9, 0, 0),
		EndTime:   NewTimeOfDay(17, 0, 0),
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 2),
	}
	got := Expand(rule, week1Window())
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
}

func TestExpandNoModeYieldsNothing(t *testing.T) {
	rule := HourRule{StartTime: NewTimeOfDay(9, 0, 0), EndTime: NewTimeOfDay(17, 0, 0)}
	if got := Expand(rule, week1Window()); len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestModePrecedenceSpecificDateDominates(t *testing.T) {
	rule := HourRule{
		StartTime:    NewTimeOfDay(9, 0, 0),
		EndTime:      NewTimeOfDay(17, 0, 0),
		SpecificDate: date(2024, time.January, 1),
		IsRecurring:  true,
		DayOfWeek:    dayOfWeek(1), // would otherwise select Tuesday
	}
	if rule.Mode() != ModeSpecificDate {
		t.Fatalf("Mode() = %v, want ModeSpecificDate", rule.Mode())
	}
	got := Expand(rule, week1Window())
	if len(got) != 1 || !got[0].Date.Equal(calendar.NewDate(2024, time.January, 1)) {
		t.Fatalf("got = %+v, want single instance on 2024-01-01", got)
	}
}

func TestExpandIsOrderStable(t *testing.T) {
	rule := HourRule{
		StartTime:   NewTimeOfDay(9, 0, 0),
		EndTime:     NewTimeOfDay(17, 0, 0),
		IsRecurring: true,
		DayOfWeek:   dayOfWeek(0),
	}
	window := calendar.DatesForWeeks([]int{1, 2, 3}, 2024)
	first := Expand(rule, window)
	second := Expand(rule, window)
	if len(first) != len(second) {
		t.Fatalf("len mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Date.Equal(second[i].Date) {
			t.Fatalf("instance %d differs: %s vs %s", i, first[i].Date, second[i].Date)
		}
	}
}

func TestTimeOfDayParseAndString(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30:15")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	if got := tod.String(); got != "09:30:15" {
		t.Fatalf("String() = %q, want 09:30:15", got)
	}
	if _, err := ParseTimeOfDay("25:00:00"); err == nil {
		t.Fatalf("expected error for out-of-range hour")
	}
}
