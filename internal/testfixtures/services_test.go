package testfixtures

import (
	"context"
	"testing"

	"github.com/example/agenda-generator/internal/agenda"
	"github.com/example/agenda-generator/internal/persistence"
)

type capturingRoleRepo struct {
	role persistence.Role
}

func (c *capturingRoleRepo) Get(_ context.Context, roleID string) (persistence.Role, error) {
	if roleID != c.role.ID {
		return persistence.Role{}, persistence.ErrNotFound
	}
	return c.role, nil
}

type emptyAvailabilityRepo struct{}

func (emptyAvailabilityRepo) ByRole(context.Context, string) ([]persistence.AvailabilityRule, error) {
	return nil, nil
}

type emptyBusinessRepo struct{}

func (emptyBusinessRepo) ByRole(context.Context, string) ([]persistence.BusinessRule, error) {
	return nil, nil
}

type capturingAgendaRepo struct {
	created persistence.Agenda
}

func (c *capturingAgendaRepo) Create(_ context.Context, a persistence.Agenda) error {
	c.created = a
	return nil
}
func (c *capturingAgendaRepo) CreateEntry(context.Context, persistence.AgendaEntry) error { return nil }
func (c *capturingAgendaRepo) CreateCoverage(context.Context, persistence.AgendaCoverage) error {
	return nil
}
func (c *capturingAgendaRepo) GetByID(context.Context, string) (persistence.Agenda, error) {
	return persistence.Agenda{}, persistence.ErrNotFound
}
func (c *capturingAgendaRepo) EntriesByAgenda(context.Context, string) ([]persistence.AgendaEntry, error) {
	return nil, nil
}
func (c *capturingAgendaRepo) CoverageByAgenda(context.Context, string) ([]persistence.AgendaCoverage, error) {
	return nil, nil
}
func (c *capturingAgendaRepo) ByRole(context.Context, string, persistence.AgendaListFilter) ([]persistence.Agenda, error) {
	return nil, nil
}
func (c *capturingAgendaRepo) UpdateStatus(context.Context, string, persistence.AgendaStatus) error {
	return nil
}

// TestServiceFactoryNewAgendaService checks that a factory-built service
// rejects generation for a role that has no business rules.
func TestServiceFactoryNewAgendaService(t *testing.T) {
	factory := NewServiceFactory()
	role := NewRoleFixture().Persistence()
	roleRepo := &capturingRoleRepo{role: role}
	agendaRepo := &capturingAgendaRepo{}

	svc := factory.NewAgendaService(AgendaServiceDeps{
		Roles:        roleRepo,
		Availability: emptyAvailabilityRepo{},
		Business:     emptyBusinessRepo{},
		Agendas:      agendaRepo,
	})

	_, err := svc.Generate(context.Background(), agenda.GenerateParams{
		RoleID: role.ID, Weeks: []int{1}, Year: 2024, OptimizationStrategy: "maximize_coverage",
	})
	if err == nil {
		t.Fatal("expected ErrNoData when no business rules exist for the role")
	}
}
