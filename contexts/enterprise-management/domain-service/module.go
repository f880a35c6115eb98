package domainsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httpadapter "locker/contexts/enterprise-management/domain-service/adapters/http"
	"locker/contexts/enterprise-management/domain-service/adapters/memory"
	"locker/contexts/enterprise-management/domain-service/application"
	"locker/contexts/enterprise-management/domain-service/application/workers"
	"locker/contexts/enterprise-management/domain-service/ports"
)

// Module is the domain-service composition root exposed to runtime wiring.
type Module struct {
	Service            application.Service
	Handler            httpadapter.Handler
	VerificationPoller workers.VerificationPoller
	AutoApproveSweeper workers.AutoApproveSweeper
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Resolver    ports.DNSResolver
	Members     ports.MemberAdmission
	Seats       ports.SeatRequester
	Audit       ports.AuditSink
	Notifier    ports.NotificationDispatcher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the domain use-cases, workers, and transport handler.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Resolver:    deps.Resolver,
		Members:     deps.Members,
		Seats:       deps.Seats,
		Audit:       deps.Audit,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		VerificationPoller: workers.VerificationPoller{
			Service:  service,
			Repo:     deps.Repository,
			Notifier: deps.Notifier,
			Logger:   deps.Logger,
		},
		AutoApproveSweeper: workers.AutoApproveSweeper{
			Service: service,
			Repo:    deps.Repository,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the memory store, for tests and
// local development. The store doubles as the DNS zone and every collaborator
// fake.
func NewInMemoryModule(logger *slog.Logger) (Module, *memory.Store) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Resolver:    store,
		Members:     store,
		Seats:       store,
		Audit:       store,
		Notifier:    store,
		Clock:       systemClock{},
		IDGenerator: uuidGenerator{},
		Logger:      logger,
	})
	return module, store
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type uuidGenerator struct{}

func (uuidGenerator) NewID(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
