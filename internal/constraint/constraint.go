// Package constraint builds the boolean CSP over persons and required slots
// described by §4.D: eligibility (the availability hard constraint),
// non-overlap pairs, and the three named objective terms. No CP-SAT or ILP
// binding is available anywhere in the retrieved example corpus, so the
// model here is a plain in-memory structure consumed directly by
// internal/solver's search rather than handed to an external solver
// library.
package constraint

import (
	"sort"

	"github.com/example/agenda-generator/internal/slotmodel"
)

// Model is the boolean CSP instance: the person set P, the required slot
// set R (stable, sorted order per §5), and which (person, slot) pairs are
// eligible per the availability containment rule (§4.B).
type Model struct {
	Persons      []string
	Slots        []slotmodel.RequiredSlot
	availability []slotmodel.AvailabilityInstance
	eligible     [][]bool // eligible[personIdx][slotIdx]
	overlaps     [][]bool // overlaps[i][j], i != j, same date overlapping slots (symmetric)
}

// NewModel builds the eligibility and overlap matrices for persons and
// slots. persons must already be sorted by id and slots sorted by
// (date, start, end) — the stable iteration orders required by §5.
func NewModel(persons []string, slots []slotmodel.RequiredSlot, availability []slotmodel.AvailabilityInstance) *Model {
	m := &Model{
		Persons:      persons,
		Slots:        slots,
		availability: availability,
	}

	m.eligible = make([][]bool, len(persons))
	for pi, person := range persons {
		row := make([]bool, len(slots))
		for si, slot := range slots {
			row[si] = slotmodel.IsPersonAvailable(person, availability, slot)
		}
		m.eligible[pi] = row
	}

	m.overlaps = make([][]bool, len(slots))
	for i := range slots {
		row := make([]bool, len(slots))
		for j := range slots {
			if i == j {
				continue
			}
			row[j] = slotmodel.Overlaps(slots[i], slots[j])
		}
		m.overlaps[i] = row
	}

	return m
}

// IsEligible reports whether personIdx may be assigned slotIdx under the
// availability hard constraint.
func (m *Model) IsEligible(personIdx, slotIdx int) bool {
	return m.eligible[personIdx][slotIdx]
}

// Overlaps reports whether slots i and j conflict for the same person
// (hard constraint 3: non-overlap).
func (m *Model) Overlaps(i, j int) bool {
	return m.overlaps[i][j]
}

// Assignment is the extracted solution: for each slot index, the indices
// (into Model.Persons) of the persons assigned to it. A slot with no
// eligible persons, or one the search could not cover within the time
// budget, has an empty (possibly nil) slice.
type Assignment struct {
	SlotPersons [][]int
}

// NewEmptyAssignment returns an Assignment with no one assigned to any
// slot, the fallback used on SolverTimeout or total infeasibility (§7).
func NewEmptyAssignment(slotCount int) Assignment {
	return Assignment{SlotPersons: make([][]int, slotCount)}
}

// IsCovered reports whether slot i has at least one assigned person.
func (a Assignment) IsCovered(i int) bool {
	return len(a.SlotPersons[i]) > 0
}

// durationHours returns the whole-hour duration of a required slot. Gap and
// balance objectives use integer hours so the model stays CP-SAT-friendly
// (§9); fractional inputs are truncated.
func durationHours(s slotmodel.RequiredSlot) int {
	return (s.End.Seconds() - s.Start.Seconds()) / 3600
}

// gapHours returns the whole-hour gap between the end of slot "from" and the
// start of slot "to", spanning calendar days when the dates differ.
func gapHours(from, to slotmodel.RequiredSlot) int {
	dayDiff := to.Date.DaysSince(from.Date)
	seconds := dayDiff*86400 + (to.Start.Seconds() - from.End.Seconds())
	return seconds / 3600
}

// Objective scores a candidate assignment; higher is better, matching the
// "maximize total score" framing of §4.D (gap and balance penalties are
// folded in as negative terms).
type Objective interface {
	Score(m *Model, a Assignment) float64
}

// ForStrategy resolves the named optimization strategy. An unrecognized
// name yields NoOpObjective, per §4.D: "the model is solved with an empty
// objective (any feasible assignment)".
func ForStrategy(name string) Objective {
	switch name {
	case "maximize_coverage":
		return MaximizeCoverage{}
	case "minimize_gaps":
		return MinimizeGaps{}
	case "balance_workload":
		return BalanceWorkload{}
	default:
		return NoOpObjective{}
	}
}

// NoOpObjective scores every assignment equally; used for unrecognized
// strategy names.
type NoOpObjective struct{}

// Score always returns 0.
func (NoOpObjective) Score(*Model, Assignment) float64 { return 0 }

// MaximizeCoverage counts covered slots. With coverage hard-constrained
// this has a trivial optimum for any feasible instance; the term still
// distinguishes partially-infeasible instances where some slots have no
// eligible person.
type MaximizeCoverage struct{}

// Score returns the number of slots with at least one assigned person.
func (MaximizeCoverage) Score(m *Model, a Assignment) float64 {
	covered := 0
	for i := range m.Slots {
		if a.IsCovered(i) {
			covered++
		}
	}
	return float64(covered)
}

// MinimizeGaps penalizes idle time between a person's consecutive assigned
// slots. Objective = -penalty.
type MinimizeGaps struct{}

// Score computes the negated total gap penalty across all persons.
func (MinimizeGaps) Score(m *Model, a Assignment) float64 {
	penalty := 0
	bySlot := personSlotIndex(m, a)
	for pi := range m.Persons {
		assigned := bySlot[pi]
		for i := 0; i+1 < len(assigned); i++ {
			from := m.Slots[assigned[i]]
			to := m.Slots[assigned[i+1]]
			penalty += gapHours(from, to)
		}
	}
	return -float64(penalty)
}

// BalanceWorkload penalizes deviation from the mean workload (hours) across
// every person in the model, including those with no assigned slots.
// Objective = -penalty.
type BalanceWorkload struct{}

// Score computes the negated mean-absolute-deviation workload penalty.
func (BalanceWorkload) Score(m *Model, a Assignment) float64 {
	if len(m.Persons) <= 1 {
		return 0
	}

	bySlot := personSlotIndex(m, a)

	totals := make([]int, len(m.Persons))
	for pi := range m.Persons {
		hours := 0
		for _, si := range bySlot[pi] {
			hours += durationHours(m.Slots[si])
		}
		totals[pi] = hours
	}

	sum := 0
	for _, h := range totals {
		sum += h
	}
	mean := sum / len(totals) // integer division, per §4.D

	penalty := 0
	for _, h := range totals {
		diff := h - mean
		if diff < 0 {
			diff = -diff
		}
		penalty += diff
	}
	return -float64(penalty)
}

// personSlotIndex returns, for each person index, the sorted slot indices
// assigned to that person. Model.Slots is already sorted by (date, start,
// end), so filtering preserves that order.
func personSlotIndex(m *Model, a Assignment) [][]int {
	out := make([][]int, len(m.Persons))
	for si, persons := range a.SlotPersons {
		for _, pi := range persons {
			out[pi] = append(out[pi], si)
		}
	}
	for pi := range out {
		sort.Ints(out[pi])
	}
	return out
}
