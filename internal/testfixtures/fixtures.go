package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/rules"
)

var (
	roleCounter         uint64
	personCounter       uint64
	availabilityCounter uint64
	businessCounter     uint64
	agendaCounter       uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Role fixtures -----------------------------

// RoleFixture is a deterministic role record (§3).
type RoleFixture struct {
	ID          string
	Name        string
	Description *string
}

// RoleOption configures the generated role fixture.
type RoleOption func(*RoleFixture)

// NewRoleFixture returns a deterministic role fixture with optional overrides.
func NewRoleFixture(opts ...RoleOption) RoleFixture {
	idx := atomic.AddUint64(&roleCounter, 1)
	fixture := RoleFixture{
		ID:   fmt.Sprintf("role-%03d", idx),
		Name: fmt.Sprintf("Role %03d", idx),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoleID overrides the generated role ID.
func WithRoleID(id string) RoleOption {
	return func(f *RoleFixture) { f.ID = id }
}

// WithRoleName overrides the generated role name.
func WithRoleName(name string) RoleOption {
	return func(f *RoleFixture) { f.Name = name }
}

// WithRoleDescription sets the role description.
func WithRoleDescription(description string) RoleOption {
	return func(f *RoleFixture) { f.Description = &description }
}

// Persistence returns the fixture as a persistence.Role value.
func (f RoleFixture) Persistence() persistence.Role {
	return persistence.Role{ID: f.ID, Name: f.Name, Description: f.Description}
}

// ---------------------------- Person fixtures -----------------------------

// PersonFixture is a deterministic person record (§3). Person records are
// owned by an external collaborator in the real system; the fixture exists
// only to seed availability rules for tests.
type PersonFixture struct {
	ID    string
	Name  string
	Email string
}

// PersonOption configures the generated person fixture.
type PersonOption func(*PersonFixture)

// NewPersonFixture returns a deterministic person fixture with optional
// overrides.
func NewPersonFixture(opts ...PersonOption) PersonFixture {
	idx := atomic.AddUint64(&personCounter, 1)
	id := fmt.Sprintf("person-%03d", idx)
	fixture := PersonFixture{
		ID:    id,
		Name:  fmt.Sprintf("Person %03d", idx),
		Email: fmt.Sprintf("%s@example.com", id),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPersonID overrides the generated person ID.
func WithPersonID(id string) PersonOption {
	return func(f *PersonFixture) { f.ID = id }
}

// WithPersonName overrides the generated person name.
func WithPersonName(name string) PersonOption {
	return func(f *PersonFixture) { f.Name = name }
}

// WithPersonEmail overrides the generated email address.
func WithPersonEmail(email string) PersonOption {
	return func(f *PersonFixture) { f.Email = email }
}

// Persistence returns the fixture as a persistence.Person value.
func (f PersonFixture) Persistence() persistence.Person {
	return persistence.Person{ID: f.ID, Name: f.Name, Email: f.Email}
}

// -------------------------- HourRule fixtures -----------------------------

// HourRuleFixture builds a rules.HourRule for either a recurring weekday
// window or a one-off specific date, two of the three HourRule modes.
type HourRuleFixture struct {
	rule rules.HourRule
}

// NewRecurringHourRule builds a weekly-recurring HourRule fixture for the
// given day of week (0 is Monday through 6 is Sunday, the HourRule
// numbering) and hour range.
func NewRecurringHourRule(dayOfWeek, startHour, endHour int) HourRuleFixture {
	day := dayOfWeek
	return HourRuleFixture{rule: rules.HourRule{
		StartTime:   rules.NewTimeOfDay(startHour, 0, 0),
		EndTime:     rules.NewTimeOfDay(endHour, 0, 0),
		IsRecurring: true,
		DayOfWeek:   &day,
	}}
}

// NewSpecificDateHourRule builds a one-off HourRule fixture for a single
// calendar date and hour range.
func NewSpecificDateHourRule(date calendar.Date, startHour, endHour int) HourRuleFixture {
	return HourRuleFixture{rule: rules.HourRule{
		StartTime:    rules.NewTimeOfDay(startHour, 0, 0),
		EndTime:      rules.NewTimeOfDay(endHour, 0, 0),
		IsRecurring:  false,
		SpecificDate: &date,
	}}
}

// Rule returns the built rules.HourRule.
func (f HourRuleFixture) Rule() rules.HourRule {
	return f.rule
}

// ----------------------- AvailabilityRule fixtures ------------------------

// AvailabilityRuleFixture is a deterministic (person, role) availability
// window (§3).
type AvailabilityRuleFixture struct {
	ID       string
	PersonID string
	RoleID   string
	Rule     rules.HourRule
}

// AvailabilityRuleOption configures the generated availability fixture.
type AvailabilityRuleOption func(*AvailabilityRuleFixture)

// NewAvailabilityRuleFixture returns a deterministic availability rule
// fixture. personID and roleID must be supplied by the caller since
// availability rules always reference an existing person and role.
func NewAvailabilityRuleFixture(personID, roleID string, rule HourRuleFixture, opts ...AvailabilityRuleOption) AvailabilityRuleFixture {
	idx := atomic.AddUint64(&availabilityCounter, 1)
	fixture := AvailabilityRuleFixture{
		ID:       fmt.Sprintf("availability-%03d", idx),
		PersonID: personID,
		RoleID:   roleID,
		Rule:     rule.Rule(),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAvailabilityID overrides the generated availability rule ID.
func WithAvailabilityID(id string) AvailabilityRuleOption {
	return func(f *AvailabilityRuleFixture) { f.ID = id }
}

// Persistence returns the fixture as a persistence.AvailabilityRule value.
func (f AvailabilityRuleFixture) Persistence() persistence.AvailabilityRule {
	return persistence.AvailabilityRule{ID: f.ID, PersonID: f.PersonID, RoleID: f.RoleID, Rule: f.Rule}
}

// ------------------------- BusinessRule fixtures ---------------------------

// BusinessRuleFixture is a deterministic role-owned coverage requirement
// window (§3).
type BusinessRuleFixture struct {
	ID     string
	RoleID string
	Rule   rules.HourRule
}

// BusinessRuleOption configures the generated business rule fixture.
type BusinessRuleOption func(*BusinessRuleFixture)

// NewBusinessRuleFixture returns a deterministic business rule fixture.
func NewBusinessRuleFixture(roleID string, rule HourRuleFixture, opts ...BusinessRuleOption) BusinessRuleFixture {
	idx := atomic.AddUint64(&businessCounter, 1)
	fixture := BusinessRuleFixture{
		ID:     fmt.Sprintf("business-%03d", idx),
		RoleID: roleID,
		Rule:   rule.Rule(),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBusinessID overrides the generated business rule ID.
func WithBusinessID(id string) BusinessRuleOption {
	return func(f *BusinessRuleFixture) { f.ID = id }
}

// Persistence returns the fixture as a persistence.BusinessRule value.
func (f BusinessRuleFixture) Persistence() persistence.BusinessRule {
	return persistence.BusinessRule{ID: f.ID, RoleID: f.RoleID, Rule: f.Rule}
}

// ----------------------------- Agenda fixtures -----------------------------

// AgendaFixture is a deterministic agenda header record (§3).
type AgendaFixture struct {
	ID        string
	RoleID    string
	Status    persistence.AgendaStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgendaOption configures the generated agenda fixture.
type AgendaOption func(*AgendaFixture)

// NewAgendaFixture returns a deterministic draft agenda fixture.
func NewAgendaFixture(roleID string, opts ...AgendaOption) AgendaFixture {
	idx := atomic.AddUint64(&agendaCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := AgendaFixture{
		ID:        fmt.Sprintf("agenda-%03d", idx),
		RoleID:    roleID,
		Status:    persistence.AgendaStatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAgendaID overrides the generated agenda ID.
func WithAgendaID(id string) AgendaOption {
	return func(f *AgendaFixture) { f.ID = id }
}

// WithAgendaStatus overrides the generated agenda status.
func WithAgendaStatus(status persistence.AgendaStatus) AgendaOption {
	return func(f *AgendaFixture) { f.Status = status }
}

// Persistence returns the fixture as a persistence.Agenda value.
func (f AgendaFixture) Persistence() persistence.Agenda {
	return persistence.Agenda{ID: f.ID, RoleID: f.RoleID, Status: f.Status, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}
