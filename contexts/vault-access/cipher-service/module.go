package cipher

import (
	"log/slog"

	httpadapter "locker/contexts/vault-access/cipher-service/adapters/http"
	"locker/contexts/vault-access/cipher-service/adapters/memory"
	"locker/contexts/vault-access/cipher-service/application"
	"locker/contexts/vault-access/cipher-service/ports"
)

// Module is the cipher-service composition root exposed to runtime wiring.
type Module struct {
	Authorizer application.Authorizer
	Service    application.Service
	Handler    httpadapter.Handler
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository              ports.AccessRepository
	GroupInheritanceEnabled bool
	Logger                  *slog.Logger
}

// NewModule wires the authorizer and transport handler.
func NewModule(deps Dependencies) Module {
	authorizer := application.Authorizer{
		Repo:                    deps.Repository,
		GroupInheritanceEnabled: deps.GroupInheritanceEnabled,
		Logger:                  deps.Logger,
	}
	return Module{
		Authorizer: authorizer,
		Service:    application.Service{Repo: deps.Repository, Logger: deps.Logger},
		Handler:    httpadapter.Handler{Authorizer: authorizer, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the module against the memory store, for tests and
// local development.
func NewInMemoryModule(logger *slog.Logger) (Module, *memory.Store) {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Logger:     logger,
	})
	return module, store
}
