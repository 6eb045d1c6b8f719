// Package slotmodel normalizes expanded rule instances into the required
// slot list R and the availability set A that the constraint model builder
// consumes (§4.C), and provides the overlap and containment predicates
// shared by the hard constraints in §4.D.
package slotmodel

import (
	"sort"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/rules"
)

// RequiredSlot is one business-service slot: a unit of required coverage.
type RequiredSlot struct {
	Date                calendar.Date
	Start               rules.TimeOfDay
	End                 rules.TimeOfDay
	RoleID              string
	RequiredPersonCount int
}

// Key identifies a slot by its (date, start, end) triple, the identity used
// for deduplication, sorting, and matching entries back to coverage rows.
type Key struct {
	Date  calendar.Date
	Start rules.TimeOfDay
	End   rules.TimeOfDay
}

// Key returns the slot's (date, start, end) identity.
func (s RequiredSlot) Key() Key {
	return Key{Date: s.Date, Start: s.Start, End: s.End}
}

// AvailabilityInstance is one concrete window in which a person is declared
// available for a role.
type AvailabilityInstance struct {
	PersonID string
	Date     calendar.Date
	Start    rules.TimeOfDay
	End      rules.TimeOfDay
}

// BuildRequiredSlots expands every business rule instance into a
// RequiredSlot, then sorts and deduplicates by (date, start, end) per
// invariant 5 (expansion is order-independent of rule insertion order).
// Instances produced by distinct rules that happen to coincide collapse
// into a single required slot.
func BuildRequiredSlots(roleID string, requiredPersonCount int, perRule [][]rules.Instance) []RequiredSlot {
	if requiredPersonCount <= 0 {
		requiredPersonCount = 1
	}

	seen := make(map[Key]struct{})
	var out []RequiredSlot
	for _, instances := range perRule {
		for _, inst := range instances {
			slot := RequiredSlot{
				Date:                inst.Date,
				Start:               inst.Start,
				End:                 inst.End,
				RoleID:              roleID,
				RequiredPersonCount: requiredPersonCount,
			}
			key := slot.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, slot)
		}
	}

	sort.Slice(out, func(i, j int) bool { return lessKey(out[i].Key(), out[j].Key()) })
	return out
}

// BuildAvailabilitySet expands every (person, availability-rule) instance
// into the multiset A, keyed by (person, date, start, end).
func BuildAvailabilitySet(perPersonRule map[string][][]rules.Instance) []AvailabilityInstance {
	var out []AvailabilityInstance
	for personID, perRule := range perPersonRule {
		for _, instances := range perRule {
			for _, inst := range instances {
				out = append(out, AvailabilityInstance{
					PersonID: personID,
					Date:     inst.Date,
					Start:    inst.Start,
					End:      inst.End,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PersonID != out[j].PersonID {
			return out[i].PersonID < out[j].PersonID
		}
		return lessKey(Key{out[i].Date, out[i].Start, out[i].End}, Key{out[j].Date, out[j].Start, out[j].End})
	})
	return out
}

func lessKey(a, b Key) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c < 0
	}
	if a.Start != b.Start {
		return a.Start.Before(b.Start)
	}
	return a.End.Before(b.End)
}

// Overlaps reports whether two required slots overlap: same date and their
// [start, end) intervals intersect (§4.C).
func Overlaps(a, b RequiredSlot) bool {
	if !a.Date.Equal(b.Date) {
		return false
	}
	return !(a.End.LessEqual(b.Start) || b.End.LessEqual(a.Start))
}

// Contains reports whether availability instance avail fully contains
// required slot r: same date and avail.Start <= r.Start && r.End <= avail.End
// (§4.B containment).
func Contains(avail AvailabilityInstance, r RequiredSlot) bool {
	if !avail.Date.Equal(r.Date) {
		return false
	}
	return avail.Start.LessEqual(r.Start) && r.End.LessEqual(avail.End)
}

// IsPersonAvailable reports whether any instance in availability satisfies
// Contains for the given required slot and person.
func IsPersonAvailable(personID string, availability []AvailabilityInstance, r RequiredSlot) bool {
	for _, avail := range availability {
		if avail.PersonID != personID {
			continue
		}
		if Contains(avail, r) {
			return true
		}
	}
	return false
}
