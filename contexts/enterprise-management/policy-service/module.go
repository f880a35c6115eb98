package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httpadapter "locker/contexts/enterprise-management/policy-service/adapters/http"
	"locker/contexts/enterprise-management/policy-service/adapters/memory"
	"locker/contexts/enterprise-management/policy-service/application"
	"locker/contexts/enterprise-management/policy-service/ports"
)

// Module is the policy-service composition root exposed to runtime wiring.
type Module struct {
	Service application.Service
	Handler httpadapter.Handler
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Members     ports.MemberDirectory
	Cache       ports.PolicyCache
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	CacheTTL    time.Duration
	Logger      *slog.Logger
}

// NewModule wires the policy use-cases and transport handler.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Members:     deps.Members,
		Cache:       deps.Cache,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		CacheTTL:    deps.CacheTTL,
		Logger:      deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the module against the memory store, for tests.
func NewInMemoryModule(logger *slog.Logger) (Module, *memory.Store) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Members:     store,
		Cache:       store,
		Clock:       systemClock{},
		IDGenerator: uuidGenerator{},
		CacheTTL:    5 * time.Minute,
		Logger:      logger,
	})
	return module, store
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type uuidGenerator struct{}

func (uuidGenerator) NewID(_ context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
