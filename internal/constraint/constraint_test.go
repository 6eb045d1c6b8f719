package constraint

import (
	"testing"
	"time"

	"github.com/example/agenda-generator/internal/calendar"
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

func TestNewModelEligibility(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	availability := []slotmodel.AvailabilityInstance{avail("p1", 2024, time.January, 1, 9, 17)}
	m := NewModel([]string{"p1", "p2"}, slots, availability)

	if !m.IsEligible(0, 0) {
		t.Fatal("p1 should be eligible for the 9-17 slot")
	}
	if m.IsEligible(1, 0) {
		t.Fatal("p2 has no availability and should not be eligible")
	}
}

func TestModelOverlaps(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 12),
		slot(2024, time.January, 1, 10, 13),
		slot(2024, time.January, 1, 13, 17),
	}
	m := NewModel(nil, slots, nil)
	if !m.Overlaps(0, 1) {
		t.Fatal("slots 0 and 1 should overlap")
	}
	if m.Overlaps(1, 2) {
		t.Fatal("slots 1 and 2 are adjacent, not overlapping")
	}
}

func TestMaximizeCoverageScore(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	m := NewModel([]string{"p1"}, slots, nil)

	empty := NewEmptyAssignment(1)
	if got := (MaximizeCoverage{}).Score(m, empty); got != 0 {
		t.Fatalf("uncovered score = %v, want 0", got)
	}

	covered := Assignment{SlotPersons: [][]int{{0}}}
	if got := (MaximizeCoverage{}).Score(m, covered); got != 1 {
		t.Fatalf("covered score = %v, want 1", got)
	}
}

// TestMinimizeGapsScenarioS4 pins §8 scenario S4: P1 available Mon 09-12 and
// Mon 13-17, business requires the same two slots; both assigned to P1
// should yield a gap penalty of 1 hour.
func TestMinimizeGapsScenarioS4(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 12),
		slot(2024, time.January, 1, 13, 17),
	}
	m := NewModel([]string{"p1"}, slots, nil)
	assignment := Assignment{SlotPersons: [][]int{{0}, {0}}}

	got := (MinimizeGaps{}).Score(m, assignment)
	if got != -1 {
		t.Fatalf("gap score = %v, want -1 (1 hour gap)", got)
	}
}

func TestMinimizeGapsNoGapWhenOnlyOneSlotAssigned(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 12),
		slot(2024, time.January, 1, 13, 17),
	}
	m := NewModel([]string{"p1"}, slots, nil)
	assignment := Assignment{SlotPersons: [][]int{{0}, nil}}

	if got := (MinimizeGaps{}).Score(m, assignment); got != 0 {
		t.Fatalf("gap score = %v, want 0", got)
	}
}

// TestBalanceWorkloadScenarioS5 pins §8 scenario S5: three persons each
// assigned exactly one distinct 8-hour day should have zero variance.
func TestBalanceWorkloadScenarioS5(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 17),
		slot(2024, time.January, 2, 9, 17),
		slot(2024, time.January, 3, 9, 17),
	}
	m := NewModel([]string{"p1", "p2", "p3"}, slots, nil)
	assignment := Assignment{SlotPersons: [][]int{{0}, {1}, {2}}}

	got := (BalanceWorkload{}).Score(m, assignment)
	if got != 0 {
		t.Fatalf("balance score = %v, want 0 (equal 8h workloads)", got)
	}
}

func TestBalanceWorkloadSinglePersonIsZero(t *testing.T) {
	slots := []slotmodel.RequiredSlot{slot(2024, time.January, 1, 9, 17)}
	m := NewModel([]string{"p1"}, slots, nil)
	assignment := Assignment{SlotPersons: [][]int{{0}}}

	if got := (BalanceWorkload{}).Score(m, assignment); got != 0 {
		t.Fatalf("single-person balance score = %v, want 0", got)
	}
}

func TestBalanceWorkloadUnevenSplit(t *testing.T) {
	slots := []slotmodel.RequiredSlot{
		slot(2024, time.January, 1, 9, 17),  // 8h
		slot(2024, time.January, 2, 9, 13),  // 4h
		slot(2024, time.January, 3, 9, 13),  // 4h
	}
	m := NewModel([]string{"p1", "p2"}, slots, nil)
	// p1 gets the 8h slot, p2 gets both 4h slots: totals [8, 8] -> balanced.
	assignment := Assignment{SlotPersons: [][]int{{0}, {1}, {1}}}
	if got := (BalanceWorkload{}).Score(m, assignment); got != 0 {
		t.Fatalf("balance score = %v, want 0", got)
	}
}

func TestForStrategyUnknownIsNoOp(t *testing.T) {
	obj := ForStrategy("not_a_real_strategy")
	if _, ok := obj.(NoOpObjective); !ok {
		t.Fatalf("ForStrategy(unknown) = %T, want NoOpObjective", obj)
	}
}
