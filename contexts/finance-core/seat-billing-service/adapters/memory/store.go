package memory

import (
	"context"
	"sync"
	"time"

	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	domainerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
	"locker/contexts/finance-core/seat-billing-service/ports"
	"locker/internal/shared/events"
)

// Store is the in-memory reference implementation of the billing ports. The
// embedded gateway fake is scriptable per call so tests can exercise every
// failure class.
type Store struct {
	mu sync.RWMutex

	subscriptionsByID map[string]entities.Subscription
	seatChanges       []entities.SeatChangeEvent

	gatewayByOwner map[string]ports.GatewaySubscription
	gatewayErr     error
	quantityCalls  []QuantityCall

	activatedByEnterprise map[string]int
	allowanceByEnterprise map[string]int

	auditEvents []events.AuditEvent
	notices     []Notice
}

// QuantityCall records one UpdateSeatQuantity invocation.
type QuantityCall struct {
	GatewayID string
	Quantity  int
}

// Notice captures a dispatched notification for test assertions.
type Notice struct {
	Job        string
	Recipients []string
	Data       map[string]any
}

func NewStore() *Store {
	return &Store{
		subscriptionsByID:     make(map[string]entities.Subscription),
		gatewayByOwner:        make(map[string]ports.GatewaySubscription),
		activatedByEnterprise: make(map[string]int),
		allowanceByEnterprise: make(map[string]int),
	}
}

func (s *Store) GetSubscription(_ context.Context, subscriptionID string) (entities.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscription, ok := s.subscriptionsByID[subscriptionID]
	if !ok {
		return entities.Subscription{}, domainerrors.ErrSubscriptionNotFound
	}
	return subscription, nil
}

func (s *Store) FindSubscriptionOfEnterprise(_ context.Context, enterpriseID string) (entities.Subscription, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, subscription := range s.subscriptionsByID {
		if subscription.EnterpriseID == enterpriseID {
			return subscription, true, nil
		}
	}
	return entities.Subscription{}, false, nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]entities.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Subscription, 0, len(s.subscriptionsByID))
	for _, subscription := range s.subscriptionsByID {
		items = append(items, subscription)
	}
	return items, nil
}

func (s *Store) ListExhaustedSubscriptions(_ context.Context, maxAttempts int) ([]entities.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Subscription
	for _, subscription := range s.subscriptionsByID {
		if subscription.Attempts >= maxAttempts {
			items = append(items, subscription)
		}
	}
	return items, nil
}

func (s *Store) SaveSubscription(_ context.Context, subscription entities.Subscription) (entities.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscriptionsByID[subscription.SubscriptionID]; !ok {
		return entities.Subscription{}, domainerrors.ErrSubscriptionNotFound
	}
	// The watermark advances only through AdvanceBillingWatermark.
	stored := s.subscriptionsByID[subscription.SubscriptionID]
	subscription.MemberBillingUpdatedTime = stored.MemberBillingUpdatedTime
	s.subscriptionsByID[subscription.SubscriptionID] = subscription
	return subscription, nil
}

func (s *Store) AdvanceBillingWatermark(_ context.Context, subscriptionID string, expected, next time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subscription, ok := s.subscriptionsByID[subscriptionID]
	if !ok {
		return false, domainerrors.ErrSubscriptionNotFound
	}
	if !subscription.MemberBillingUpdatedTime.Equal(expected) {
		return false, nil
	}
	subscription.MemberBillingUpdatedTime = next
	s.subscriptionsByID[subscriptionID] = subscription
	return true, nil
}

func (s *Store) IncrementAttempts(_ context.Context, subscriptionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subscription, ok := s.subscriptionsByID[subscriptionID]
	if !ok {
		return 0, domainerrors.ErrSubscriptionNotFound
	}
	subscription.Attempts++
	s.subscriptionsByID[subscriptionID] = subscription
	return subscription.Attempts, nil
}

func (s *Store) ResetAttempts(_ context.Context, subscriptionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subscription, ok := s.subscriptionsByID[subscriptionID]
	if !ok {
		return domainerrors.ErrSubscriptionNotFound
	}
	subscription.Attempts = 0
	s.subscriptionsByID[subscriptionID] = subscription
	return nil
}

func (s *Store) InsertSeatChange(_ context.Context, event entities.SeatChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seatChanges = append(s.seatChanges, event)
	return nil
}

func (s *Store) SumSeatChanges(_ context.Context, enterpriseID string, after, until time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, event := range s.seatChanges {
		if event.EnterpriseID != enterpriseID {
			continue
		}
		if event.OccurredAt.After(after) && !event.OccurredAt.After(until) {
			total += event.Change
		}
	}
	return total, nil
}

// EnterpriseDirectory implementation.

func (s *Store) CountActivatedMembers(_ context.Context, enterpriseID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activatedByEnterprise[enterpriseID], nil
}

func (s *Store) SeatAllowance(_ context.Context, enterpriseID string, _ time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowanceByEnterprise[enterpriseID], nil
}

// PaymentGateway implementation.

func (s *Store) GetActiveSubscription(_ context.Context, ownerUserID string) (ports.GatewaySubscription, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscription, ok := s.gatewayByOwner[ownerUserID]
	return subscription, ok, nil
}

func (s *Store) UpdateSeatQuantity(_ context.Context, gatewayID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gatewayErr != nil {
		return s.gatewayErr
	}
	s.quantityCalls = append(s.quantityCalls, QuantityCall{GatewayID: gatewayID, Quantity: quantity})
	return nil
}

func (s *Store) CalcProratedCharge(_ context.Context, _ string, quantity int, duration time.Duration, _ string) (ports.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gatewayErr != nil {
		return ports.Amount{}, s.gatewayErr
	}
	days := int64(duration.Hours() / 24)
	return ports.Amount{Currency: "USD", Cents: int64(quantity) * days * 10}, nil
}

// AuditSink implementation.

func (s *Store) Append(_ context.Context, event events.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditEvents = append(s.auditEvents, event)
	return nil
}

// NotificationDispatcher implementation.

func (s *Store) Send(_ context.Context, job string, recipients []string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Job: job, Recipients: recipients, Data: data})
	return nil
}

// Seeding and assertion helpers.

func (s *Store) SeedSubscription(subscription entities.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptionsByID[subscription.SubscriptionID] = subscription
}

func (s *Store) SeedGatewaySubscription(ownerUserID string, subscription ports.GatewaySubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gatewayByOwner[ownerUserID] = subscription
}

func (s *Store) SeedEnterpriseCounts(enterpriseID string, activated, allowance int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activatedByEnterprise[enterpriseID] = activated
	s.allowanceByEnterprise[enterpriseID] = allowance
}

// FailGatewayWith scripts the next gateway calls to fail with err; nil
// restores success.
func (s *Store) FailGatewayWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gatewayErr = err
}

func (s *Store) QuantityCalls() []QuantityCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]QuantityCall(nil), s.quantityCalls...)
}

func (s *Store) SeatChanges() []entities.SeatChangeEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.SeatChangeEvent(nil), s.seatChanges...)
}

func (s *Store) AuditEvents() []events.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.AuditEvent(nil), s.auditEvents...)
}

func (s *Store) Notices() []Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notice(nil), s.notices...)
}
