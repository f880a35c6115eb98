package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"locker/contexts/finance-core/seat-billing-service/application"
	domainerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
	"locker/contexts/finance-core/seat-billing-service/ports"
)

const moduleName = "finance-core/seat-billing-service"

// SettlementWorker reconciles every subscription against the seat ledger.
// Runs are idempotent: the per-subscription watermark keeps a re-run from
// double counting, and concurrent workers lose the compare-and-swap rather
// than bill twice.
type SettlementWorker struct {
	Service    application.Service
	Repo       ports.Repository
	MaxRetries uint64
	Logger     *slog.Logger
}

func (w SettlementWorker) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)

	subscriptions, err := w.Repo.ListSubscriptions(ctx)
	if err != nil {
		return err
	}

	for _, subscription := range subscriptions {
		backoff := retry.WithMaxRetries(w.maxRetries(), retry.NewFibonacci(time.Second))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			err := w.Service.SettleSubscription(ctx, subscription)
			if errors.Is(err, domainerrors.ErrGatewayUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		})
		if err != nil {
			logger.Warn("settlement failed, retrying next cycle",
				"event", "settlement_failed",
				"module", moduleName,
				"layer", "worker",
				"subscription_id", subscription.SubscriptionID,
				"error", err,
			)
		}
	}
	return nil
}

func (w SettlementWorker) maxRetries() uint64 {
	if w.MaxRetries == 0 {
		return 3
	}
	return w.MaxRetries
}
