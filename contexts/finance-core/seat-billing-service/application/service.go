package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	domainerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
	"locker/contexts/finance-core/seat-billing-service/ports"
	"locker/internal/shared/events"
)

const moduleName = "finance-core/seat-billing-service"

// Service owns the seat ledger and the synchronous, best-effort gateway
// calls issued on membership mutations. Membership state is never rolled
// back on a billing failure; the ledger plus the settlement worker self-heal
// any discrepancy on the next cycle.
type Service struct {
	Repo        ports.Repository
	Enterprises ports.EnterpriseDirectory
	Gateway     ports.PaymentGateway
	Audit       ports.AuditSink
	Notifier    ports.NotificationDispatcher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// RecordSeatChange appends one entry to the seat ledger.
func (s Service) RecordSeatChange(ctx context.Context, enterpriseID, memberID string, change int, reason string) error {
	if strings.TrimSpace(enterpriseID) == "" || change == 0 {
		return domainerrors.ErrInvalidRequest
	}
	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	return s.Repo.InsertSeatChange(ctx, entities.SeatChangeEvent{
		EventID:      eventID,
		EnterpriseID: enterpriseID,
		MemberID:     memberID,
		Change:       change,
		Reason:       reason,
		OccurredAt:   s.now(),
	})
}

// RequestSeatIncrease records the batch in the ledger and best-effort pushes
// the new quantity to the gateway. Gateway failures are logged and left for
// the settlement worker; the caller's membership transition proceeds either
// way.
func (s Service) RequestSeatIncrease(ctx context.Context, enterpriseID string, count int) error {
	if strings.TrimSpace(enterpriseID) == "" || count <= 0 {
		return domainerrors.ErrInvalidRequest
	}
	logger := ResolveLogger(s.Logger)

	if err := s.RecordSeatChange(ctx, enterpriseID, "", count, "domain_auto_join"); err != nil {
		return err
	}

	subscription, found, err := s.Repo.FindSubscriptionOfEnterprise(ctx, enterpriseID)
	if err != nil || !found {
		if err != nil {
			logger.Warn("subscription lookup failed, deferring to settlement",
				"event", "seat_increase_deferred",
				"module", moduleName,
				"layer", "application",
				"enterprise_id", enterpriseID,
				"error", err,
			)
		}
		return nil
	}

	if err := s.pushQuantity(ctx, subscription, subscription.Quantity+count); err != nil {
		logger.Warn("gateway seat increase failed, deferring to settlement",
			"event", "seat_increase_deferred",
			"module", moduleName,
			"layer", "application",
			"enterprise_id", enterpriseID,
			"count", count,
			"error", err,
		)
	}
	return nil
}

// pushQuantity sends an absolute seat quantity to the gateway and mirrors it
// locally on success.
func (s Service) pushQuantity(ctx context.Context, subscription entities.Subscription, quantity int) error {
	gateway, found, err := s.Gateway.GetActiveSubscription(ctx, subscription.OwnerUserID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrSubscriptionNotFound
	}
	if err := s.Gateway.UpdateSeatQuantity(ctx, gateway.GatewayID, quantity); err != nil {
		return err
	}
	subscription.Quantity = quantity
	_, err = s.Repo.SaveSubscription(ctx, subscription)
	return err
}

// SettleSubscription reconciles one subscription against the ledger and the
// gateway. Outcomes:
//   - no ledger activity since the watermark: watermark advances, no call;
//   - gateway success: quantity mirrored, attempts reset, watermark advances;
//   - unsupported method or timeout: permanent skip, watermark advances;
//   - card declined: attempts increment, watermark stays for a retry;
//   - transient failure (after in-call retries): watermark stays.
func (s Service) SettleSubscription(ctx context.Context, subscription entities.Subscription) error {
	logger := ResolveLogger(s.Logger)
	now := s.now()

	delta, err := s.Repo.SumSeatChanges(ctx, subscription.EnterpriseID, subscription.MemberBillingUpdatedTime, now)
	if err != nil {
		return err
	}
	if delta == 0 {
		_, err := s.Repo.AdvanceBillingWatermark(ctx, subscription.SubscriptionID, subscription.MemberBillingUpdatedTime, now)
		return err
	}

	activated, err := s.Enterprises.CountActivatedMembers(ctx, subscription.EnterpriseID)
	if err != nil {
		return err
	}
	allowance, err := s.Enterprises.SeatAllowance(ctx, subscription.EnterpriseID, now)
	if err != nil {
		return err
	}
	billable := entities.BillableSeats(activated, allowance)

	err = s.pushQuantity(ctx, subscription, billable)
	switch {
	case err == nil:
		if err := s.Repo.ResetAttempts(ctx, subscription.SubscriptionID); err != nil {
			return err
		}
	case errors.Is(err, domainerrors.ErrPaymentMethodUnsupported),
		errors.Is(err, domainerrors.ErrGatewayTimeout):
		// Permanent skip for this cycle. The watermark still advances so the
		// batch always terminates.
		logger.Warn("gateway rejected settlement, skipping cycle",
			"event", "settlement_skipped",
			"module", moduleName,
			"layer", "application",
			"subscription_id", subscription.SubscriptionID,
			"error", err,
		)
	case errors.Is(err, domainerrors.ErrCardDeclined):
		attempts, incErr := s.Repo.IncrementAttempts(ctx, subscription.SubscriptionID)
		if incErr != nil {
			return incErr
		}
		logger.Warn("card declined during settlement",
			"event", "settlement_declined",
			"module", moduleName,
			"layer", "application",
			"subscription_id", subscription.SubscriptionID,
			"attempts", attempts,
		)
		return nil
	default:
		return err
	}

	advanced, err := s.Repo.AdvanceBillingWatermark(ctx, subscription.SubscriptionID, subscription.MemberBillingUpdatedTime, now)
	if err != nil {
		return err
	}
	if !advanced {
		logger.Warn("watermark advanced by concurrent worker",
			"event", "settlement_watermark_conflict",
			"module", moduleName,
			"layer", "application",
			"subscription_id", subscription.SubscriptionID,
		)
		return nil
	}

	s.appendAudit(ctx, subscription.EnterpriseID, "seats_settled", map[string]any{
		"subscription_id": subscription.SubscriptionID,
		"billable_seats":  billable,
		"ledger_delta":    delta,
	})
	return nil
}

// DowngradeSubscription moves an exhausted subscription to the free plan and
// notifies the owner.
func (s Service) DowngradeSubscription(ctx context.Context, subscription entities.Subscription) error {
	if subscription.Free() {
		return nil
	}
	subscription.PlanID = entities.FreePlanID
	subscription.Attempts = 0
	if _, err := s.Repo.SaveSubscription(ctx, subscription); err != nil {
		return err
	}

	if err := s.Notifier.Send(ctx, "subscription_downgraded", []string{subscription.OwnerUserID}, map[string]any{
		"subscription_id": subscription.SubscriptionID,
		"plan_id":         entities.FreePlanID,
	}); err != nil {
		ResolveLogger(s.Logger).Warn("downgrade notification failed",
			"event", "notification_failed",
			"module", moduleName,
			"layer", "application",
			"subscription_id", subscription.SubscriptionID,
			"error", err,
		)
	}

	s.appendAudit(ctx, subscription.EnterpriseID, "subscription_downgraded", map[string]any{
		"subscription_id": subscription.SubscriptionID,
	})
	return nil
}

// GetSubscription fetches one subscription row.
func (s Service) GetSubscription(ctx context.Context, subscriptionID string) (entities.Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return entities.Subscription{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetSubscription(ctx, subscriptionID)
}

// ProratedCharge prices a quantity change for the owner over the remaining
// period.
func (s Service) ProratedCharge(ctx context.Context, subscriptionID string, quantity int, promoCode string) (ports.Amount, error) {
	subscription, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return ports.Amount{}, err
	}
	gateway, found, err := s.Gateway.GetActiveSubscription(ctx, subscription.OwnerUserID)
	if err != nil {
		return ports.Amount{}, err
	}
	if !found {
		return ports.Amount{}, domainerrors.ErrSubscriptionNotFound
	}
	remaining := subscription.PeriodEnd.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return s.Gateway.CalcProratedCharge(ctx, gateway.GatewayID, quantity, remaining, promoCode)
}

func (s Service) appendAudit(ctx context.Context, enterpriseID, eventType string, metadata map[string]any) {
	id, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		id = ""
	}
	err = s.Audit.Append(ctx, events.AuditEvent{
		EventID:       id,
		EventType:     eventType,
		SourceService: moduleName,
		OccurredAtUTC: s.now(),
		EnterpriseIDs: []string{enterpriseID},
		Metadata:      metadata,
	})
	if err != nil {
		ResolveLogger(s.Logger).Warn("audit append failed",
			"event", "audit_append_failed",
			"module", moduleName,
			"layer", "application",
			"event_type", eventType,
			"error", err,
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
