package ports

import (
	"context"
	"time"

	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	"locker/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for ledger entries.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository is the storage boundary for subscriptions and the seat ledger.
type Repository interface {
	GetSubscription(ctx context.Context, subscriptionID string) (entities.Subscription, error)
	FindSubscriptionOfEnterprise(ctx context.Context, enterpriseID string) (entities.Subscription, bool, error)
	ListSubscriptions(ctx context.Context) ([]entities.Subscription, error)
	ListExhaustedSubscriptions(ctx context.Context, maxAttempts int) ([]entities.Subscription, error)
	SaveSubscription(ctx context.Context, subscription entities.Subscription) (entities.Subscription, error)

	// AdvanceBillingWatermark moves the settlement watermark from expected
	// to next atomically. It returns false when another worker advanced the
	// watermark first.
	AdvanceBillingWatermark(ctx context.Context, subscriptionID string, expected, next time.Time) (bool, error)
	IncrementAttempts(ctx context.Context, subscriptionID string) (int, error)
	ResetAttempts(ctx context.Context, subscriptionID string) error

	InsertSeatChange(ctx context.Context, event entities.SeatChangeEvent) error
	// SumSeatChanges totals ledger entries recorded in (after, until].
	SumSeatChanges(ctx context.Context, enterpriseID string, after, until time.Time) (int, error)
}

// EnterpriseDirectory is the read-only projection of membership state the
// settlement loop needs: how many seats are actually occupied and how many
// the promotion still covers.
type EnterpriseDirectory interface {
	CountActivatedMembers(ctx context.Context, enterpriseID string) (int, error)
	SeatAllowance(ctx context.Context, enterpriseID string, at time.Time) (int, error)
}

// GatewaySubscription is the external gateway's view of a subscription.
type GatewaySubscription struct {
	GatewayID string
	PlanID    string
	Quantity  int
}

// Amount is a prorated charge in minor currency units.
type Amount struct {
	Currency string
	Cents    int64
}

// PaymentGateway is the external subscription/payment collaborator. All
// calls are time-bounded by the adapter. Failures map onto the sentinel
// errors in domain/errors.
type PaymentGateway interface {
	GetActiveSubscription(ctx context.Context, ownerUserID string) (GatewaySubscription, bool, error)
	UpdateSeatQuantity(ctx context.Context, gatewayID string, quantity int) error
	CalcProratedCharge(ctx context.Context, gatewayID string, quantity int, duration time.Duration, promoCode string) (Amount, error)
}

// AuditSink appends billing audit events, at-least-once, fire-and-forget.
type AuditSink interface {
	Append(ctx context.Context, event events.AuditEvent) error
}

// NotificationDispatcher sends templated notifications, fire-and-forget.
type NotificationDispatcher interface {
	Send(ctx context.Context, job string, recipients []string, data map[string]any) error
}
