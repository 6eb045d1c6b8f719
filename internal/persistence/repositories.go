package persistence

import "context"

// RoleRepo resolves role identities (§4.G).
type RoleRepo interface {
	Get(ctx context.Context, roleID string) (Role, error)
}

// AvailabilityRepo fetches availability rules (§4.G).
type AvailabilityRepo interface {
	ByRole(ctx context.Context, roleID string) ([]AvailabilityRule, error)
}

// BusinessRepo fetches business-service rules (§4.G).
type BusinessRepo interface {
	ByRole(ctx context.Context, roleID string) ([]BusinessRule, error)
}

// AgendaListFilter narrows AgendaRepo.ByRole queries (§6 GET /agendas).
type AgendaListFilter struct {
	Status *AgendaStatus
}

// AgendaRepo persists the Agenda/AgendaEntry/AgendaCoverage group produced
// by one generation run, and supports the read-only lookups backing the
// peripheral HTTP endpoints (§4.G, §6).
type AgendaRepo interface {
	Create(ctx context.Context, agenda Agenda) error
	CreateEntry(ctx context.Context, entry AgendaEntry) error
	CreateCoverage(ctx context.Context, coverage AgendaCoverage) error
	GetByID(ctx context.Context, id string) (Agenda, error)
	EntriesByAgenda(ctx context.Context, agendaID string) ([]AgendaEntry, error)
	CoverageByAgenda(ctx context.Context, agendaID string) ([]AgendaCoverage, error)
	ByRole(ctx context.Context, roleID string, filter AgendaListFilter) ([]Agenda, error)
	UpdateStatus(ctx context.Context, id string, status AgendaStatus) error
}
