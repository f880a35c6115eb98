package workers

import (
	"context"
	"log/slog"

	"locker/contexts/enterprise-management/domain-service/application"
	"locker/contexts/enterprise-management/domain-service/ports"
)

// AutoApproveSweeper periodically admits REQUESTED members of verified
// auto-approve domains. The underlying admission is a bulk transition, so a
// re-run with no pending members is a no-op.
type AutoApproveSweeper struct {
	Service application.Service
	Repo    ports.Repository
	Logger  *slog.Logger
}

func (w AutoApproveSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)

	domains, err := w.Repo.ListVerifiedAutoApproveDomains(ctx)
	if err != nil {
		logger.Error("auto-approve domain list failed",
			"event", "domain_sweep_list_failed",
			"module", "enterprise-management/domain-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, domain := range domains {
		admitted, err := w.Service.AutoApprove(ctx, domain.DomainID)
		if err != nil {
			logger.Error("auto-approve admission failed",
				"event", "domain_sweep_admit_failed",
				"module", "enterprise-management/domain-service",
				"layer", "worker",
				"domain_id", domain.DomainID,
				"error", err.Error(),
			)
			continue
		}
		if admitted > 0 {
			logger.Info("pending members admitted",
				"event", "domain_sweep_admitted",
				"module", "enterprise-management/domain-service",
				"layer", "worker",
				"domain_id", domain.DomainID,
				"count", admitted,
			)
		}
	}
	return nil
}
