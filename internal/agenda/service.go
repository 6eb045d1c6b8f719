// Package agenda implements component F (agenda assembly): orchestrating
// rule lookup, slot expansion, constraint solving, and the writes that
// produce an Agenda, its AgendaEntry rows, and its AgendaCoverage rows
// (§4.F). Each row is written by its own repository call, with no enclosing
// transaction. It is grounded on
// internal/application/schedule_service.go's validate-then-lookup-then-
// persist shape, adapted from a CRUD service into a generate-and-persist
// pipeline.
package agenda

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/example/agenda-generator/internal/calendar"
	"github.com/example/agenda-generator/internal/constraint"
	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/rules"
	"github.com/example/agenda-generator/internal/slotmodel"
	"github.com/example/agenda-generator/internal/solver"
)

// validStrategies are the only optimization_strategy values the HTTP
// surface accepts (§6). Anything else is rejected before a model is ever
// built.
var validStrategies = map[string]bool{
	"maximize_coverage": true,
	"minimize_gaps":      true,
	"balance_workload":   true,
}

// Solver abstracts the search driver so the service can be tested without
// running a full search (§4.E's "strategy interface with a single optimize
// method", §9).
type Solver interface {
	Solve(ctx context.Context, m *constraint.Model, objective constraint.Objective) constraint.Assignment
}

// Service orchestrates agenda generation and read access.
type Service struct {
	roles         persistence.RoleRepo
	availability  persistence.AvailabilityRepo
	business      persistence.BusinessRepo
	agendas       persistence.AgendaRepo
	solver        Solver
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewService wires the repositories, solver, id generator and clock used by
// agenda generation. A nil solver defaults to solver.New(30 * time.Second),
// a nil idGenerator or now defaults as in the teacher's service
// constructors.
func NewService(
	roles persistence.RoleRepo,
	availability persistence.AvailabilityRepo,
	business persistence.BusinessRepo,
	agendas persistence.AgendaRepo,
	solverDriver Solver,
	idGenerator func() string,
	now func() time.Time,
) *Service {
	return NewServiceWithLogger(roles, availability, business, agendas, solverDriver, idGenerator, now, nil)
}

// NewServiceWithLogger is NewService with an explicit logger, mirroring the
// teacher's WithLogger constructor convention.
func NewServiceWithLogger(
	roles persistence.RoleRepo,
	availability persistence.AvailabilityRepo,
	business persistence.BusinessRepo,
	agendas persistence.AgendaRepo,
	solverDriver Solver,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *Service {
	if solverDriver == nil {
		solverDriver = solver.New(30 * time.Second)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		roles:        roles,
		availability: availability,
		business:     business,
		agendas:      agendas,
		solver:       solverDriver,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *Service) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AgendaService", operation, attrs...)
}

// GenerateParams is the input to Generate, mirroring the HTTP request body
// of POST /agendas/generate (§6).
type GenerateParams struct {
	RoleID               string
	Weeks                []int
	Year                 int
	OptimizationStrategy string
}

// GenerateResult is the full generated agenda: header, entries and
// coverage, the same shape returned by the 201 response (§6).
type GenerateResult struct {
	Agenda   persistence.Agenda
	Entries  []persistence.AgendaEntry
	Coverage []persistence.AgendaCoverage
}

// Generate runs the full pipeline described by §4.F: validate, expand
// rules into slots, solve, and persist the Agenda/AgendaEntry/
// AgendaCoverage group as a single logical unit.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (result GenerateResult, err error) {
	logger := s.loggerWith(ctx, "Generate", "role_id", params.RoleID, "strategy", params.OptimizationStrategy)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "agenda generation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("agenda_id", result.Agenda.ID, "entry_count", len(result.Entries)).
			InfoContext(ctx, "agenda generated")
	}()

	if !validStrategies[params.OptimizationStrategy] {
		err = &ValidationError{FieldErrors: map[string]string{
			"optimization_strategy": "must be one of maximize_coverage, minimize_gaps, balance_workload",
		}}
		return
	}
	if len(params.Weeks) == 0 {
		err = &ValidationError{FieldErrors: map[string]string{"weeks": "must contain at least one week number"}}
		return
	}

	if _, getErr := s.roles.Get(ctx, params.RoleID); getErr != nil {
		if errors.Is(getErr, persistence.ErrNotFound) {
			err = ErrNotFound
			return
		}
		err = wrapStorageError(getErr)
		return
	}

	window := calendar.DatesForWeeks(params.Weeks, params.Year)

	businessRules, getErr := s.business.ByRole(ctx, params.RoleID)
	if getErr != nil {
		err = wrapStorageError(getErr)
		return
	}
	availabilityRules, getErr := s.availability.ByRole(ctx, params.RoleID)
	if getErr != nil {
		err = wrapStorageError(getErr)
		return
	}

	businessExpansions := expandAll(businessRules, window)
	if totalInstances(businessExpansions) == 0 {
		err = ErrNoData
		return
	}

	personExpansions, persons := expandAvailability(availabilityRules, window)
	if len(persons) == 0 || totalInstancesByPerson(personExpansions) == 0 {
		err = ErrNoData
		return
	}

	requiredSlots := slotmodel.BuildRequiredSlots(params.RoleID, 1, businessExpansions)
	availabilitySet := slotmodel.BuildAvailabilitySet(personExpansions)

	model := constraint.NewModel(persons, requiredSlots, availabilitySet)
	objective := constraint.ForStrategy(params.OptimizationStrategy)
	assignment := s.solver.Solve(ctx, model, objective)

	now := s.now()
	agendaRecord := persistence.Agenda{
		ID:        s.idGenerator(),
		RoleID:    params.RoleID,
		Status:    persistence.AgendaStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if createErr := s.agendas.Create(ctx, agendaRecord); createErr != nil {
		err = wrapStorageError(createErr)
		return
	}

	entries, createErr := s.persistEntries(ctx, agendaRecord, requiredSlots, persons, assignment)
	if createErr != nil {
		err = wrapStorageError(createErr)
		return
	}

	coverage, createErr := s.persistCoverage(ctx, agendaRecord, requiredSlots, assignment)
	if createErr != nil {
		err = wrapStorageError(createErr)
		return
	}

	result = GenerateResult{Agenda: agendaRecord, Entries: entries, Coverage: coverage}
	return
}

func (s *Service) persistEntries(
	ctx context.Context,
	agendaRecord persistence.Agenda,
	requiredSlots []slotmodel.RequiredSlot,
	persons []string,
	assignment constraint.Assignment,
) ([]persistence.AgendaEntry, error) {
	var entries []persistence.AgendaEntry
	for slotIdx, slot := range requiredSlots {
		for _, personIdx := range assignment.SlotPersons[slotIdx] {
			entry := persistence.AgendaEntry{
				ID:       s.idGenerator(),
				AgendaID: agendaRecord.ID,
				PersonID: persons[personIdx],
				RoleID:   slot.RoleID,
				Date:     slot.Date,
				Start:    slot.Start,
				End:      slot.End,
			}
			if err := s.agendas.CreateEntry(ctx, entry); err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// persistCoverage writes one AgendaCoverage row per expanded business slot
// (§4.F step 4). agenda_id always references agendaRecord.ID: this is the
// branch the original implementation's bug reassigned to a fresh id (§9
// open question); that anomaly is deliberately not replicated here.
func (s *Service) persistCoverage(
	ctx context.Context,
	agendaRecord persistence.Agenda,
	requiredSlots []slotmodel.RequiredSlot,
	assignment constraint.Assignment,
) ([]persistence.AgendaCoverage, error) {
	var coverage []persistence.AgendaCoverage
	for slotIdx, slot := range requiredSlots {
		row := persistence.AgendaCoverage{
			ID:                  s.idGenerator(),
			AgendaID:            agendaRecord.ID,
			RoleID:              slot.RoleID,
			Date:                slot.Date,
			Start:               slot.Start,
			End:                 slot.End,
			IsCovered:           assignment.IsCovered(slotIdx),
			RequiredPersonCount: slot.RequiredPersonCount,
		}
		if err := s.agendas.CreateCoverage(ctx, row); err != nil {
			return nil, err
		}
		coverage = append(coverage, row)
	}
	return coverage, nil
}

// Get retrieves a previously generated agenda with its entries and
// coverage (§6 GET /agendas/{id}).
func (s *Service) Get(ctx context.Context, id string) (GenerateResult, error) {
	agendaRecord, err := s.agendas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return GenerateResult{}, ErrNotFound
		}
		return GenerateResult{}, wrapStorageError(err)
	}
	entries, err := s.agendas.EntriesByAgenda(ctx, id)
	if err != nil {
		return GenerateResult{}, wrapStorageError(err)
	}
	coverage, err := s.agendas.CoverageByAgenda(ctx, id)
	if err != nil {
		return GenerateResult{}, wrapStorageError(err)
	}
	return GenerateResult{Agenda: agendaRecord, Entries: entries, Coverage: coverage}, nil
}

// List retrieves agendas for a role, optionally filtered by status (§6
// GET /agendas).
func (s *Service) List(ctx context.Context, roleID string, status *persistence.AgendaStatus) ([]persistence.Agenda, error) {
	agendas, err := s.agendas.ByRole(ctx, roleID, persistence.AgendaListFilter{Status: status})
	if err != nil {
		return nil, wrapStorageError(err)
	}
	return agendas, nil
}

func wrapStorageError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStorageError, err)
}

func expandAll(businessRules []persistence.BusinessRule, window []calendar.Date) [][]rules.Instance {
	out := make([][]rules.Instance, 0, len(businessRules))
	for _, rule := range businessRules {
		out = append(out, rules.Expand(rule.Rule, window))
	}
	return out
}

func totalInstances(perRule [][]rules.Instance) int {
	total := 0
	for _, instances := range perRule {
		total += len(instances)
	}
	return total
}

func expandAvailability(availabilityRules []persistence.AvailabilityRule, window []calendar.Date) (map[string][][]rules.Instance, []string) {
	byPerson := make(map[string][][]rules.Instance)
	personSet := make(map[string]struct{})
	for _, rule := range availabilityRules {
		personSet[rule.PersonID] = struct{}{}
		byPerson[rule.PersonID] = append(byPerson[rule.PersonID], rules.Expand(rule.Rule, window))
	}

	persons := make([]string, 0, len(personSet))
	for p := range personSet {
		persons = append(persons, p)
	}
	sort.Strings(persons)

	return byPerson, persons
}

func totalInstancesByPerson(byPerson map[string][][]rules.Instance) int {
	total := 0
	for _, perRule := range byPerson {
		total += totalInstances(perRule)
	}
	return total
}
