// Package solver runs the bounded search that stands in for the CP-SAT
// solver used by the original implementation (§4.E). No constraint or ILP
// solver library exists anywhere in the retrieved example corpus (searched
// explicitly; see DESIGN.md), so this package implements a deterministic
// greedy construction followed by a bounded local-search improvement pass,
// the practical substitute for branch-and-cut within a wall-clock time
// budget.
package solver

import (
	"context"
	"math"
	"time"

	"github.com/example/agenda-generator/internal/constraint"
)

// Solver drives assignment search with a wall-clock time budget,
// recommended default 30s (§4.E).
type Solver struct {
	TimeBudget time.Duration
}

// New constructs a Solver with the given time budget.
func New(timeBudget time.Duration) *Solver {
	if timeBudget <= 0 {
		timeBudget = 30 * time.Second
	}
	return &Solver{TimeBudget: timeBudget}
}

// Solve extracts {(p, slot) : x[p,slot]=1} for the given model and
// objective. It is deterministic for a fixed input order (Model.Persons and
// Model.Slots must already be in the stable sort order required by §5).
// On context cancellation or budget exhaustion it returns the assignment
// built so far: during greedy construction, the slots filled before the
// deadline (an empty assignment if none were); during local search, the
// best assignment reached (§7 SolverTimeout).
func (s *Solver) Solve(ctx context.Context, m *constraint.Model, objective constraint.Objective) constraint.Assignment {
	deadline := time.Now().Add(s.TimeBudget)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	assignment := constraint.NewEmptyAssignment(len(m.Slots))

	for slotIdx, slot := range m.Slots {
		for len(assignment.SlotPersons[slotIdx]) < slot.RequiredPersonCount {
			if deadlineExceeded(ctx, deadline) {
				return assignment
			}
			candidate := bestCandidate(m, assignment, slotIdx, objective)
			if candidate < 0 {
				break // no eligible, non-conflicting person remains for this slot
			}
			assignment.SlotPersons[slotIdx] = append(assignment.SlotPersons[slotIdx], candidate)
		}
	}

	improve(ctx, m, &assignment, objective, deadline)
	return assignment
}

func deadlineExceeded(ctx context.Context, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	return time.Now().After(deadline)
}

// bestCandidate returns the eligible, non-conflicting person index that
// maximizes objective.Score if added to slotIdx, breaking ties by lowest
// person index (Model.Persons' stable sort order) so reruns are
// reproducible. Returns -1 when no candidate exists.
func bestCandidate(m *constraint.Model, assignment constraint.Assignment, slotIdx int, objective constraint.Objective) int {
	best := -1
	bestScore := math.Inf(-1)

	for pi := range m.Persons {
		if !m.IsEligible(pi, slotIdx) {
			continue
		}
		if containsInt(assignment.SlotPersons[slotIdx], pi) {
			continue
		}
		if conflicts(m, assignment, pi, slotIdx) {
			continue
		}

		trial := cloneAssignment(assignment)
		trial.SlotPersons[slotIdx] = append(trial.SlotPersons[slotIdx], pi)
		score := objective.Score(m, trial)
		if score > bestScore {
			bestScore = score
			best = pi
		}
	}

	return best
}

// conflicts reports whether assigning person pi to slotIdx would overlap one
// of pi's existing assignments on the same date (hard constraint 3).
func conflicts(m *constraint.Model, assignment constraint.Assignment, pi, slotIdx int) bool {
	for si, persons := range assignment.SlotPersons {
		if si == slotIdx {
			continue
		}
		if !containsInt(persons, pi) {
			continue
		}
		if m.Overlaps(slotIdx, si) {
			return true
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func cloneAssignment(a constraint.Assignment) constraint.Assignment {
	out := constraint.Assignment{SlotPersons: make([][]int, len(a.SlotPersons))}
	for i, persons := range a.SlotPersons {
		out.SlotPersons[i] = append([]int{}, persons...)
	}
	return out
}

// improve runs bounded local search over the greedy result: repeated
// passes of pairwise swap moves between two slots' assigned persons, each
// applied only when it strictly increases the objective score and keeps
// both hard constraints intact. Stops at a local optimum or when the
// deadline is reached.
func improve(ctx context.Context, m *constraint.Model, assignment *constraint.Assignment, objective constraint.Objective, deadline time.Time) {
	for {
		if deadlineExceeded(ctx, deadline) {
			return
		}
		improved := false
		for i := range m.Slots {
			for j := i + 1; j < len(m.Slots); j++ {
				if deadlineExceeded(ctx, deadline) {
					return
				}
				if trySwap(m, assignment, objective, i, j) {
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

// trySwap attempts to exchange the first assigned person of slot i with the
// first assigned person of slot j, keeping the move only if it is feasible
// (eligibility and non-overlap preserved for both persons at their new
// slot) and strictly improves the objective score.
func trySwap(m *constraint.Model, assignment *constraint.Assignment, objective constraint.Objective, i, j int) bool {
	pi := firstOrNone(assignment.SlotPersons[i])
	pj := firstOrNone(assignment.SlotPersons[j])
	if pi < 0 || pj < 0 || pi == pj {
		return false
	}
	if !m.IsEligible(pi, j) || !m.IsEligible(pj, i) {
		return false
	}

	before := objective.Score(m, *assignment)

	trial := cloneAssignment(*assignment)
	replaceFirst(trial.SlotPersons[i], pi, pj)
	replaceFirst(trial.SlotPersons[j], pj, pi)

	if conflictsWithin(m, trial, pj, i) || conflictsWithin(m, trial, pi, j) {
		return false
	}

	after := objective.Score(m, trial)
	if after <= before {
		return false
	}

	*assignment = trial
	return true
}

func firstOrNone(xs []int) int {
	if len(xs) == 0 {
		return -1
	}
	return xs[0]
}

func replaceFirst(xs []int, old, replacement int) {
	for i, x := range xs {
		if x == old {
			xs[i] = replacement
			return
		}
	}
}

// conflictsWithin reports whether person pi's assignment to slotIdx within
// the given (already-mutated) assignment overlaps any of pi's other
// assigned slots.
func conflictsWithin(m *constraint.Model, assignment constraint.Assignment, pi, slotIdx int) bool {
	return conflicts(m, assignment, pi, slotIdx)
}
