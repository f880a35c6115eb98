package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"locker/contexts/finance-core/seat-billing-service/adapters/memory"
	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	domainerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
	"locker/contexts/finance-core/seat-billing-service/ports"
)

var (
	watermark = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	settleNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
)

func newTestService(store *memory.Store) Service {
	return Service{
		Repo:        store,
		Enterprises: store,
		Gateway:     store,
		Audit:       store,
		Notifier:    store,
		Clock:       fixedClock{now: settleNow},
		IDGenerator: &seqIDs{},
	}
}

func seedActiveSubscription(store *memory.Store) entities.Subscription {
	subscription := entities.Subscription{
		SubscriptionID:           "sub_1",
		EnterpriseID:             "ent_1",
		OwnerUserID:              "user_owner",
		PlanID:                   "plan_business",
		Quantity:                 4,
		PeriodStart:              time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:                time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		MemberBillingUpdatedTime: watermark,
	}
	store.SeedSubscription(subscription)
	store.SeedGatewaySubscription("user_owner", ports.GatewaySubscription{
		GatewayID: "gw_1",
		PlanID:    "plan_business",
		Quantity:  4,
	})
	return subscription
}

func recordChange(t *testing.T, service Service, change int) {
	t.Helper()
	if err := service.RecordSeatChange(context.Background(), "ent_1", "mem_1", change, "member_activated"); err != nil {
		t.Fatalf("record seat change failed: %v", err)
	}
}

func TestBillableSeats(t *testing.T) {
	cases := []struct {
		activated, allowance, want int
	}{
		{6, 5, 1},
		{5, 5, 0},
		{3, 5, 0},
		{0, 0, 0},
		{12, 0, 12},
	}
	for _, tc := range cases {
		if got := entities.BillableSeats(tc.activated, tc.allowance); got != tc.want {
			t.Fatalf("BillableSeats(%d, %d) = %d, want %d", tc.activated, tc.allowance, got, tc.want)
		}
	}
}

func TestSettleNoActivityAdvancesWatermarkWithoutGatewayCall(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	subscription := seedActiveSubscription(store)

	if err := service.SettleSubscription(context.Background(), subscription); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if calls := store.QuantityCalls(); len(calls) != 0 {
		t.Fatalf("expected no gateway calls, got %+v", calls)
	}
	after, _ := store.GetSubscription(context.Background(), "sub_1")
	if !after.MemberBillingUpdatedTime.Equal(settleNow) {
		t.Fatalf("expected watermark advanced to %v, got %v", settleNow, after.MemberBillingUpdatedTime)
	}
}

func TestSettleSuccessMirrorsBillableSeats(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	subscription := seedActiveSubscription(store)
	subscription.Attempts = 2
	store.SeedSubscription(subscription)
	store.SeedEnterpriseCounts("ent_1", 6, 5)
	recordChange(t, service, 1)

	if err := service.SettleSubscription(context.Background(), subscription); err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	calls := store.QuantityCalls()
	if len(calls) != 1 || calls[0].Quantity != 1 {
		t.Fatalf("expected one quantity push of 1 seat, got %+v", calls)
	}
	after, _ := store.GetSubscription(context.Background(), "sub_1")
	if after.Attempts != 0 {
		t.Fatalf("expected attempts reset, got %d", after.Attempts)
	}
	if !after.MemberBillingUpdatedTime.Equal(settleNow) {
		t.Fatalf("expected watermark advanced, got %v", after.MemberBillingUpdatedTime)
	}
	if after.Quantity != 1 {
		t.Fatalf("expected mirrored quantity 1, got %d", after.Quantity)
	}
}

func TestSettleCardDeclinedKeepsWatermark(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	subscription := seedActiveSubscription(store)
	store.SeedEnterpriseCounts("ent_1", 6, 5)
	recordChange(t, service, 1)
	store.FailGatewayWith(domainerrors.ErrCardDeclined)

	if err := service.SettleSubscription(context.Background(), subscription); err != nil {
		t.Fatalf("settle returned error on decline: %v", err)
	}

	after, _ := store.GetSubscription(context.Background(), "sub_1")
	if after.Attempts != 1 {
		t.Fatalf("expected one attempt recorded, got %d", after.Attempts)
	}
	if !after.MemberBillingUpdatedTime.Equal(watermark) {
		t.Fatalf("expected watermark unchanged for retry, got %v", after.MemberBillingUpdatedTime)
	}
}

func TestSettleTimeoutSkipsCycleButAdvances(t *testing.T) {
	for _, gatewayErr := range []error{domainerrors.ErrGatewayTimeout, domainerrors.ErrPaymentMethodUnsupported} {
		store := memory.NewStore()
		service := newTestService(store)
		subscription := seedActiveSubscription(store)
		store.SeedEnterpriseCounts("ent_1", 6, 5)
		recordChange(t, service, 1)
		store.FailGatewayWith(gatewayErr)

		if err := service.SettleSubscription(context.Background(), subscription); err != nil {
			t.Fatalf("settle returned error for %v: %v", gatewayErr, err)
		}
		after, _ := store.GetSubscription(context.Background(), "sub_1")
		if after.Attempts != 0 {
			t.Fatalf("expected no attempt increment for %v, got %d", gatewayErr, after.Attempts)
		}
		if !after.MemberBillingUpdatedTime.Equal(settleNow) {
			t.Fatalf("expected watermark advanced for %v, got %v", gatewayErr, after.MemberBillingUpdatedTime)
		}
	}
}

func TestSettleTransientFailureSurfacesError(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	subscription := seedActiveSubscription(store)
	store.SeedEnterpriseCounts("ent_1", 6, 5)
	recordChange(t, service, 1)
	store.FailGatewayWith(domainerrors.ErrGatewayUnavailable)

	err := service.SettleSubscription(context.Background(), subscription)
	if !errors.Is(err, domainerrors.ErrGatewayUnavailable) {
		t.Fatalf("expected transient error surfaced, got %v", err)
	}
	after, _ := store.GetSubscription(context.Background(), "sub_1")
	if !after.MemberBillingUpdatedTime.Equal(watermark) {
		t.Fatalf("expected watermark unchanged, got %v", after.MemberBillingUpdatedTime)
	}
}

func TestSettleWatermarkLostRaceIsBenign(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	subscription := seedActiveSubscription(store)
	store.SeedEnterpriseCounts("ent_1", 6, 5)
	recordChange(t, service, 1)

	// A concurrent worker already advanced the watermark; our stale
	// snapshot must lose the compare-and-swap quietly.
	advanced, err := store.AdvanceBillingWatermark(context.Background(), "sub_1", watermark, settleNow.Add(-time.Minute))
	if err != nil || !advanced {
		t.Fatalf("setup advance failed: %v %v", advanced, err)
	}

	if err := service.SettleSubscription(context.Background(), subscription); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	after, _ := store.GetSubscription(context.Background(), "sub_1")
	if !after.MemberBillingUpdatedTime.Equal(settleNow.Add(-time.Minute)) {
		t.Fatalf("expected concurrent watermark preserved, got %v", after.MemberBillingUpdatedTime)
	}
}

func TestRequestSeatIncreaseRecordsAndPushes(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	seedActiveSubscription(store)

	if err := service.RequestSeatIncrease(context.Background(), "ent_1", 3); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	changes := store.SeatChanges()
	if len(changes) != 1 || changes[0].Change != 3 || changes[0].Reason != "domain_auto_join" {
		t.Fatalf("unexpected ledger entries %+v", changes)
	}
	calls := store.QuantityCalls()
	if len(calls) != 1 || calls[0].Quantity != 7 {
		t.Fatalf("expected push to 7 seats, got %+v", calls)
	}
}

func TestRequestSeatIncreaseGatewayFailureIsDeferred(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	seedActiveSubscription(store)
	store.FailGatewayWith(domainerrors.ErrGatewayUnavailable)

	if err := service.RequestSeatIncrease(context.Background(), "ent_1", 2); err != nil {
		t.Fatalf("expected gateway failure to be swallowed, got %v", err)
	}
	if changes := store.SeatChanges(); len(changes) != 1 {
		t.Fatalf("expected ledger entry despite gateway failure, got %d", len(changes))
	}
}

func TestDowngradeMovesToFreePlanOnce(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	subscription := seedActiveSubscription(store)
	subscription.Attempts = 3
	store.SeedSubscription(subscription)

	if err := service.DowngradeSubscription(context.Background(), subscription); err != nil {
		t.Fatalf("downgrade failed: %v", err)
	}
	after, _ := store.GetSubscription(context.Background(), "sub_1")
	if !after.Free() || after.Attempts != 0 {
		t.Fatalf("expected free plan with reset attempts, got %+v", after)
	}

	notices := store.Notices()
	if len(notices) != 1 || notices[0].Job != "subscription_downgraded" {
		t.Fatalf("expected downgrade notice, got %+v", notices)
	}

	// Already-free subscriptions are a no-op.
	if err := service.DowngradeSubscription(context.Background(), after); err != nil {
		t.Fatalf("second downgrade failed: %v", err)
	}
	if len(store.Notices()) != 1 {
		t.Fatal("expected no second notice")
	}
}

func TestProratedChargePricesRemainingPeriod(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	seedActiveSubscription(store)

	amount, err := service.ProratedCharge(context.Background(), "sub_1", 2, "")
	if err != nil {
		t.Fatalf("prorate failed: %v", err)
	}
	// 21 full days remain between settleNow and the period end.
	if amount.Currency != "USD" || amount.Cents != 2*21*10 {
		t.Fatalf("unexpected amount %+v", amount)
	}
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID(context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("evt_%04d", g.n), nil
}
