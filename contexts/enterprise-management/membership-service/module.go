package membership

import (
	"log/slog"
	"time"

	httpadapter "locker/contexts/enterprise-management/membership-service/adapters/http"
	jwtadapter "locker/contexts/enterprise-management/membership-service/adapters/jwt"
	"locker/contexts/enterprise-management/membership-service/adapters/memory"
	postgresadapter "locker/contexts/enterprise-management/membership-service/adapters/postgres"
	"locker/contexts/enterprise-management/membership-service/application"
	"locker/contexts/enterprise-management/membership-service/ports"
)

// Module is the membership-service composition root exposed to runtime wiring.
type Module struct {
	Service application.Service
	Handler httpadapter.Handler
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Groups         ports.GroupDirectory
	Domains        ports.DomainDirectory
	Seats          ports.SeatLedger
	Users          ports.UserDirectory
	Tokens         ports.InvitationTokens
	Audit          ports.AuditSink
	Notifier       ports.NotificationDispatcher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// NewModule wires the membership use-cases and transport handler.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Groups:         deps.Groups,
		Domains:        deps.Domains,
		Seats:          deps.Seats,
		Users:          deps.Users,
		Tokens:         deps.Tokens,
		Audit:          deps.Audit,
		Notifier:       deps.Notifier,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the module against the memory store, for tests and
// local development. The returned store doubles as every collaborator fake.
func NewInMemoryModule(logger *slog.Logger) (Module, *memory.Store) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		Groups:         store,
		Domains:        store,
		Seats:          store,
		Users:          store,
		Tokens:         jwtadapter.NewTokens("membership-test-secret", 30*24*time.Hour),
		Audit:          store,
		Notifier:       store,
		Clock:          postgresadapter.SystemClock{},
		IDGenerator:    postgresadapter.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	return module, store
}
