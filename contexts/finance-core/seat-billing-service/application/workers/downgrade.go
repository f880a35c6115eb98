package workers

import (
	"context"
	"log/slog"

	"locker/contexts/finance-core/seat-billing-service/application"
	"locker/contexts/finance-core/seat-billing-service/ports"
)

// DowngradeWorker moves subscriptions that exhausted their payment retries
// onto the free plan. This is the one place an external-dependency failure
// eventually produces a state change.
type DowngradeWorker struct {
	Service     application.Service
	Repo        ports.Repository
	MaxAttempts int
	Logger      *slog.Logger
}

func (w DowngradeWorker) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)

	subscriptions, err := w.Repo.ListExhaustedSubscriptions(ctx, w.maxAttempts())
	if err != nil {
		return err
	}

	for _, subscription := range subscriptions {
		if err := w.Service.DowngradeSubscription(ctx, subscription); err != nil {
			logger.Error("subscription downgrade failed",
				"event", "downgrade_failed",
				"module", moduleName,
				"layer", "worker",
				"subscription_id", subscription.SubscriptionID,
				"error", err,
			)
			continue
		}
		logger.Info("subscription downgraded to free plan",
			"event", "subscription_downgraded",
			"module", moduleName,
			"layer", "worker",
			"subscription_id", subscription.SubscriptionID,
		)
	}
	return nil
}

func (w DowngradeWorker) maxAttempts() int {
	if w.MaxAttempts <= 0 {
		return 3
	}
	return w.MaxAttempts
}
