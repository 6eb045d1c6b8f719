package sqlite

import (
	"context"
	"testing"

	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/rules"
)

func TestAvailabilityRepository_CreateAndByRole(t *testing.T) {
	pool := newTestPool(t)
	createTestRole(t, pool, "role-1", "Nurse")
	createTestPerson(t, pool, "p1", "Alice", "alice@example.com")

	repo := NewAvailabilityRepository(pool)
	dow := 0
	rule := persistence.AvailabilityRule{
		ID: "avail-1", PersonID: "p1", RoleID: "role-1",
		Rule: rules.HourRule{
			StartTime: rules.NewTimeOfDay(9, 0, 0), EndTime: rules.NewTimeOfDay(17, 0, 0),
			IsRecurring: true, DayOfWeek: &dow,
		},
	}
	if err := repo.Create(context.Background(), rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ByRole(context.Background(), "role-1")
	if err != nil {
		t.Fatalf("ByRole: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].PersonID != "p1" || got[0].Rule.StartTime.String() != "09:00:00" {
		t.Errorf("got = %+v", got[0])
	}
	if got[0].Rule.DayOfWeek == nil || *got[0].Rule.DayOfWeek != 0 {
		t.Errorf("DayOfWeek = %v, want 0", got[0].Rule.DayOfWeek)
	}
}

func TestAvailabilityRepository_ByRoleEmpty(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAvailabilityRepository(pool)

	got, err := repo.ByRole(context.Background(), "no-such-role")
	if err != nil {
		t.Fatalf("ByRole: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestAvailabilityRepository_SpecificDateRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	createTestRole(t, pool, "role-1", "Nurse")
	createTestPerson(t, pool, "p1", "Alice", "alice@example.com")

	repo := NewAvailabilityRepository(pool)
	d := mustParseDate(t, "2024-03-15")
	rule := persistence.AvailabilityRule{
		ID: "avail-1", PersonID: "p1", RoleID: "role-1",
		Rule: rules.HourRule{
			StartTime: rules.NewTimeOfDay(8, 0, 0), EndTime: rules.NewTimeOfDay(12, 0, 0),
			SpecificDate: &d,
		},
	}
	if err := repo.Create(context.Background(), rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ByRole(context.Background(), "role-1")
	if err != nil {
		t.Fatalf("ByRole: %v", err)
	}
	if len(got) != 1 || got[0].Rule.SpecificDate == nil || !got[0].Rule.SpecificDate.Equal(d) {
		t.Fatalf("got = %+v", got)
	}
}
