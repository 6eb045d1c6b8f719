package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/agenda-generator/internal/agenda"
	"github.com/example/agenda-generator/internal/persistence"
)

// ServiceFactory assists tests with constructing the agenda service using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// AgendaServiceDeps captures dependencies for constructing an agenda.Service.
type AgendaServiceDeps struct {
	Roles        persistence.RoleRepo
	Availability persistence.AvailabilityRepo
	Business     persistence.BusinessRepo
	Agendas      persistence.AgendaRepo
	Solver       agenda.Solver
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewAgendaService builds an agenda.Service using the supplied dependencies
// combined with the factory's deterministic clock and id generator.
func (f *ServiceFactory) NewAgendaService(deps AgendaServiceDeps) *agenda.Service {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return agenda.NewServiceWithLogger(
		deps.Roles,
		deps.Availability,
		deps.Business,
		deps.Agendas,
		deps.Solver,
		idGen,
		now,
		deps.Logger,
	)
}
