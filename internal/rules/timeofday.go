package rules

import "fmt"

// TimeOfDay is a wall-clock time with second resolution, stored as seconds
// since midnight. Cross-midnight ranges are never produced by this system;
// callers are expected to validate Start < End themselves.
type TimeOfDay struct {
	seconds int
}

// NewTimeOfDay constructs a TimeOfDay from an hour/minute/second triple.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}
}

// ParseTimeOfDay parses a "HH:MM:SS" string, the wire format used by rule
// tables (§6).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return TimeOfDay{}, fmt.Errorf("rules: invalid time-of-day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return TimeOfDay{}, fmt.Errorf("rules: invalid time-of-day %q: out of range", s)
	}
	return NewTimeOfDay(h, m, sec), nil
}

// String renders the time as "HH:MM:SS".
func (t TimeOfDay) String() string {
	h := t.seconds / 3600
	m := (t.seconds % 3600) / 60
	s := t.seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int { return t.seconds }

// Before reports whether t occurs strictly before other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t.seconds < other.seconds }

// After reports whether t occurs strictly after other.
func (t TimeOfDay) After(other TimeOfDay) bool { return t.seconds > other.seconds }

// Equal reports whether t and other denote the same time of day.
func (t TimeOfDay) Equal(other TimeOfDay) bool { return t.seconds == other.seconds }

// LessEqual reports whether t is before or equal to other.
func (t TimeOfDay) LessEqual(other TimeOfDay) bool { return t.seconds <= other.seconds }
