package persistence

import (
	"time"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/rules"
)

// Role identifies a required-coverage category, e.g. "Nurse" (§3).
type Role struct {
	ID          string
	Name        string
	Description *string
}

// Person is an employee identity, referenced only by id inside the core
// (§3). Person records are owned by an external collaborator; the core
// never creates or mutates them.
type Person struct {
	ID    string
	Name  string
	Email string
}

// AvailabilityRule is an HourRule owned by (person, role): a declared
// working window (§3).
type AvailabilityRule struct {
	ID       string
	PersonID string
	RoleID   string
	Rule     rules.HourRule
}

// BusinessRule is an HourRule owned by (role): a required-coverage window
// (§3).
type BusinessRule struct {
	ID     string
	RoleID string
	Rule   rules.HourRule
}

// AgendaStatus enumerates the lifecycle states persisted against an agenda.
// The core only ever produces AgendaStatusDraft (§3); later statuses are
// set by external collaborators via AgendaRepo.UpdateStatus.
type AgendaStatus string

const (
	AgendaStatusDraft     AgendaStatus = "draft"
	AgendaStatusPublished AgendaStatus = "published"
	AgendaStatusArchived  AgendaStatus = "archived"
)

// Agenda is the header record of one generation run (§3).
type Agenda struct {
	ID        string
	RoleID    string
	Status    AgendaStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgendaEntry mirrors one solver assignment: a person covering a required
// slot (§3, invariant 1).
type AgendaEntry struct {
	ID       string
	AgendaID string
	PersonID string
	RoleID   string
	Date     calendar.Date
	Start    rules.TimeOfDay
	End      rules.TimeOfDay
}

// AgendaCoverage is the 1-to-1 bookkeeping row for an expanded business slot
// (§3, invariant 4).
type AgendaCoverage struct {
	ID                  string
	AgendaID            string
	RoleID              string
	Date                calendar.Date
	Start               rules.TimeOfDay
	End                 rules.TimeOfDay
	IsCovered           bool
	RequiredPersonCount int
}
