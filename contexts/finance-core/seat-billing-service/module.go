package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httpadapter "locker/contexts/finance-core/seat-billing-service/adapters/http"
	"locker/contexts/finance-core/seat-billing-service/adapters/memory"
	"locker/contexts/finance-core/seat-billing-service/application"
	"locker/contexts/finance-core/seat-billing-service/application/workers"
	"locker/contexts/finance-core/seat-billing-service/ports"
)

// Module is the seat-billing composition root exposed to runtime wiring.
type Module struct {
	Service    application.Service
	Handler    httpadapter.Handler
	Settlement workers.SettlementWorker
	Downgrade  workers.DowngradeWorker
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Enterprises ports.EnterpriseDirectory
	Gateway     ports.PaymentGateway
	Audit       ports.AuditSink
	Notifier    ports.NotificationDispatcher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	MaxAttempts int
	Logger      *slog.Logger
}

// NewModule wires the billing use-cases, workers, and transport handler.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Enterprises: deps.Enterprises,
		Gateway:     deps.Gateway,
		Audit:       deps.Audit,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Settlement: workers.SettlementWorker{
			Service: service,
			Repo:    deps.Repository,
			Logger:  deps.Logger,
		},
		Downgrade: workers.DowngradeWorker{
			Service:     service,
			Repo:        deps.Repository,
			MaxAttempts: deps.MaxAttempts,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the memory store, for tests and
// local development. The store doubles as the gateway fake and membership
// projection.
func NewInMemoryModule(logger *slog.Logger) (Module, *memory.Store) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Enterprises: store,
		Gateway:     store,
		Audit:       store,
		Notifier:    store,
		Clock:       systemClock{},
		IDGenerator: uuidGenerator{},
		MaxAttempts: 3,
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
