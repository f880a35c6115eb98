package workers

import (
	"context"
	"testing"
	"time"

	"locker/contexts/finance-core/seat-billing-service/adapters/memory"
	"locker/contexts/finance-core/seat-billing-service/application"
	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	"locker/contexts/finance-core/seat-billing-service/ports"
)

func newWorkerFixture() (*memory.Store, application.Service) {
	store := memory.NewStore()
	service := application.Service{
		Repo:        store,
		Enterprises: store,
		Gateway:     store,
		Audit:       store,
		Notifier:    store,
		Clock:       tickingClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGenerator: staticIDs{},
	}
	return store, service
}

func TestSettlementSweepReconcilesEverySubscription(t *testing.T) {
	store, service := newWorkerFixture()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"sub_a", "sub_b"} {
		store.SeedSubscription(entities.Subscription{
			SubscriptionID:           id,
			EnterpriseID:             "ent_" + id,
			OwnerUserID:              "owner_" + id,
			PlanID:                   "plan_business",
			Quantity:                 2,
			PeriodEnd:                base.AddDate(0, 1, 0),
			MemberBillingUpdatedTime: base,
		})
		store.SeedGatewaySubscription("owner_"+id, ports.GatewaySubscription{GatewayID: "gw_" + id, Quantity: 2})
	}

	worker := SettlementWorker{Service: service, Repo: store}
	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, id := range []string{"sub_a", "sub_b"} {
		subscription, err := store.GetSubscription(context.Background(), id)
		if err != nil {
			t.Fatalf("get %s failed: %v", id, err)
		}
		if subscription.MemberBillingUpdatedTime.Equal(base) {
			t.Fatalf("expected %s watermark advanced", id)
		}
	}
}

func TestDowngradeSweepTargetsExhaustedOnly(t *testing.T) {
	store, service := newWorkerFixture()

	store.SeedSubscription(entities.Subscription{
		SubscriptionID: "sub_ok",
		EnterpriseID:   "ent_1",
		OwnerUserID:    "owner_1",
		PlanID:         "plan_business",
		Attempts:       1,
	})
	store.SeedSubscription(entities.Subscription{
		SubscriptionID: "sub_gone",
		EnterpriseID:   "ent_2",
		OwnerUserID:    "owner_2",
		PlanID:         "plan_business",
		Attempts:       3,
	})

	worker := DowngradeWorker{Service: service, Repo: store, MaxAttempts: 3}
	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	healthy, _ := store.GetSubscription(context.Background(), "sub_ok")
	if healthy.Free() {
		t.Fatal("expected healthy subscription untouched")
	}
	exhausted, _ := store.GetSubscription(context.Background(), "sub_gone")
	if !exhausted.Free() {
		t.Fatal("expected exhausted subscription on free plan")
	}
}

type tickingClock struct {
	now time.Time
}

func (c tickingClock) Now() time.Time { return c.now }

type staticIDs struct{}

func (staticIDs) NewID(context.Context) (string, error) { return "id_fixed", nil }
