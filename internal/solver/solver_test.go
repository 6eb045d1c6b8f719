package solver

import (
	"context"
	"testing"
	"time"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/constraint"
	"github.com/example/agenda-generator/internal/rules"
	"github.com/example/agenda-generator/internal/slotmodel"
)

func slot(y int, m time.Month, d, sh, eh int) slotmodel.RequiredSlot {
	return slotmodel.RequiredSlot{
		Date:                calendar.NewDate(y, m, d),
		Start:               rules.NewTimeOfDay(sh, 0, 0),
		End:                 rules.NewTimeOfDay(eh, 0, 0),
		RoleID:              "role-1",
		RequiredPersonCount: 1,
	}
}

func avail(person string, y int, m time.Month, d, sh, eh int) slotmodel.AvailabilityInstance {
	return slotmodel.AvailabilityInstance{
		PersonID: person,
		Date:     calendar.NewDate(y, m, d),
		Start:    rules.NewTimeOfDay(sh, 0, 0),
		End:      rules.NewTimeOfDay(eh, 0, 0),
	}
}

// TestSolveScenarioS1 pins §8 S1: one person available Monday 09-17,
// business requires Monday 09-17, maximize_coverage. Expect the slot
// covered by that person.
func TestSolveScenarioS1(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	availability := []slotmodel.AvailabilityInstance{avail("p1", 2024, time.January, 1, 9, 17)}
	m := constraint.NewModel([]string{"p1"}, slots, availability)

	got := New(time.Second).Solve(context.Background(), m, constraint.MaximizeCoverage{})
	if !got.IsCovered(0) {
		t.Fatal("expected slot to be covered")
	}
	if got.SlotPersons[0][0] != 0 {
		t.Fatalf("assigned person index = %d, want 0 (p1)", got.SlotPersons[0][0])
	}
}

// TestSolveScenarioS2 pins S2: P1 only available Tuesday; business requires
// Monday. Expect zero entries.
func TestSolveScenarioS2(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)} // Monday
	availability := []slotmodel.AvailabilityInstance{avail("p1", 2024, time.January, 2, 9, 17)} // Tuesday
	m := constraint.NewModel([]string{"p1"}, slots, availability)

	got := New(time.Second).Solve(context.Background(), m, constraint.MaximizeCoverage{})
	if got.IsCovered(0) {
		t.Fatal("expected slot to remain uncovered")
	}
}

// TestSolveScenarioS3 pins S3: two persons both available; exactly one
// assignment is made, deterministically the first in sorted order.
func TestSolveScenarioS3(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	availability := []slotmodel.AvailabilityInstance{
		avail("p1", 2024, time.January, 1, 9, 17),
		avail("p2", 2024, time.January, 1, 9, 17),
	}
	m := constraint.NewModel([]string{"p1", "p2"}, slots, availability)

	got := New(time.Second).Solve(context.Background(), m, constraint.MaximizeCoverage{})
	if len(got.SlotPersons[0]) != 1 {
		t.Fatalf("len(assigned) = %d, want exactly 1", len(got.SlotPersons[0]))
	}
	if got.SlotPersons[0][0] != 0 {
		t.Fatalf("assigned person index = %d, want 0 (p1, deterministic tie-break)", got.SlotPersons[0][0])
	}
}

// TestSolveScenarioS4 pins S4: P1 available Mon 09-12 and Mon 13-17;
// minimize_gaps assigns both slots to P1.
func TestSolveScenarioS4(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 12),
		slot(2024, time.January, 1, 13, 17),
	}
	availability := []slotmodel.AvailabilityInstance{
		avail("p1", 2024, time.January, 1, 9, 12),
		avail("p1", 2024, time.January, 1, 13, 17),
	}
	m := constraint.NewModel([]string{"p1"}, slots, availability)

	got := New(time.Second).Solve(context.Background(), m, constraint.MinimizeGaps{})
	if !got.IsCovered(0) || !got.IsCovered(1) {
		t.Fatal("expected both slots covered")
	}
}

// TestSolveScenarioS5 pins S5: three persons available all three days,
// three business slots one per day, balance_workload. Expect each person
// assigned exactly one distinct day.
func TestSolveScenarioS5(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 17),
		slot(2024, time.January, 2, 9, 17),
		slot(2024, time.January, 3, 9, 17),
	}
	var availability []slotmodel.AvailabilityInstance
	for _, p := range []string{"p1", "p2", "p3"} {
		for day := 1; day <= 3; day++ {
			availability = append(availability, avail(p, 2024, time.January, day, 9, 17))
		}
	}
	m := constraint.NewModel([]string{"p1", "p2", "p3"}, slots, availability)

	got := New(time.Second).Solve(context.Background(), m, constraint.BalanceWorkload{})

	assignedTo := make(map[int]bool)
	for i := range slots {
		if !got.IsCovered(i) {
			t.Fatalf("slot %d not covered", i)
		}
		if len(got.SlotPersons[i]) != 1 {
			t.Fatalf("slot %d assigned to %d persons, want 1", i, len(got.SlotPersons[i]))
		}
		p := got.SlotPersons[i][0]
		if assignedTo[p] {
			t.Fatalf("person %d assigned to more than one slot, want each person exactly one distinct day", p)
		}
		assignedTo[p] = true
	}
	if len(assignedTo) != 3 {
		t.Fatalf("distinct persons assigned = %d, want 3", len(assignedTo))
	}

	score := (constraint.BalanceWorkload{}).Score(m, got)
	if score != 0 {
		t.Fatalf("balance score = %v, want 0", score)
	}
}

// TestSolveScenarioS6 pins S6: specific-date business rule with no matching
// availability. Expect zero entries, not an error.
func TestSolveScenarioS6(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	m := constraint.NewModel([]string{"p1"}, slots, nil)

	got := New(time.Second).Solve(context.Background(), m, constraint.MaximizeCoverage{})
	if got.IsCovered(0) {
		t.Fatal("expected uncovered slot with no availability")
	}
}

// TestSolveScenarioS7 pins S7: overlapping business slots Mon 09-12 and
// Mon 10-13, one person available 09-17. At most one of the two is
// assigned to that person.
func TestSolveScenarioS7(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 12),
		slot(2024, time.January, 1, 10, 13),
	}
	availability := []slotmodel.AvailabilityInstance{avail("p1", 2024, time.January, 1, 9, 17)}
	m := constraint.NewModel([]string{"p1"}, slots, availability)

	got := New(time.Second).Solve(context.Background(), m, constraint.MaximizeCoverage{})
	coveredCount := 0
	if got.IsCovered(0) {
		coveredCount++
	}
	if got.IsCovered(1) {
		coveredCount++
	}
	if coveredCount > 1 {
		t.Fatalf("covered count = %d, want at most 1 (non-overlap invariant)", coveredCount)
	}
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	availability := []slotmodel.AvailabilityInstance{avail("p1", 2024, time.January, 1, 9, 17)}
	m := constraint.NewModel([]string{"p1"}, slots, availability)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := New(time.Second).Solve(ctx, m, constraint.MaximizeCoverage{})
	if got.IsCovered(0) {
		t.Fatal("expected an already-cancelled context to short-circuit to an empty assignment")
	}
}
