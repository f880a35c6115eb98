package workers

import (
	"context"
	"log/slog"

	"locker/contexts/enterprise-management/domain-service/application"
	"locker/contexts/enterprise-management/domain-service/ports"
)

// VerificationPoller re-checks every unverified domain's DNS challenges.
// Each run is idempotent: verified domains short-circuit and failed lookups
// are retried on the next cycle. Domains that keep failing are reported to
// the enterprise once via the notify-failed flag.
type VerificationPoller struct {
	Service  application.Service
	Repo     ports.Repository
	Notifier ports.NotificationDispatcher
	Logger   *slog.Logger
}

func (p VerificationPoller) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(p.Logger)

	domains, err := p.Repo.ListUnverifiedDomains(ctx)
	if err != nil {
		logger.Error("unverified domain list failed",
			"event", "domain_poll_list_failed",
			"module", "enterprise-management/domain-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, domain := range domains {
		verified, err := p.Service.CheckVerification(ctx, domain.DomainID)
		if err != nil {
			logger.Error("domain verification check failed",
				"event", "domain_poll_check_failed",
				"module", "enterprise-management/domain-service",
				"layer", "worker",
				"domain_id", domain.DomainID,
				"error", err.Error(),
			)
			continue
		}
		if verified {
			continue
		}
		if domain.IsNotifyFailed {
			continue
		}
		domain.IsNotifyFailed = true
		if _, err := p.Repo.SaveDomain(ctx, domain); err != nil {
			logger.Error("notify-failed flag save failed",
				"event", "domain_poll_flag_save_failed",
				"module", "enterprise-management/domain-service",
				"layer", "worker",
				"domain_id", domain.DomainID,
				"error", err.Error(),
			)
			continue
		}
		if err := p.Notifier.Send(ctx, "domain_verification_failed", nil, map[string]any{
			"enterprise_id": domain.EnterpriseID,
			"domain":        domain.Domain,
		}); err != nil {
			logger.Warn("verification failure notice failed",
				"event", "domain_poll_notify_failed",
				"module", "enterprise-management/domain-service",
				"layer", "worker",
				"domain_id", domain.DomainID,
				"error", err.Error(),
			)
		}
	}
	return nil
}
