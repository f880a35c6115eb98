package workers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"locker/contexts/enterprise-management/domain-service/adapters/memory"
	"locker/contexts/enterprise-management/domain-service/application"
	"locker/contexts/enterprise-management/domain-service/domain/entities"
	"locker/contexts/enterprise-management/domain-service/ports"
)

func newWorkerService(store *memory.Store) application.Service {
	return application.Service{
		Repo:        store,
		Resolver:    store,
		Members:     store,
		Seats:       store,
		Audit:       store,
		Notifier:    store,
		Clock:       frozenClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGenerator: &counterIDs{},
	}
}

func TestPollerVerifiesPublishedAndFlagsSilentDomains(t *testing.T) {
	store := memory.NewStore()
	service := newWorkerService(store)
	ctx := context.Background()

	published, challenges, err := service.CreateDomain(ctx, "user_1", "ent_1", "vault.example.com")
	if err != nil {
		t.Fatalf("create published failed: %v", err)
	}
	store.PublishRecord(challenges[0].Key, challenges[0].Value)

	silent, _, err := service.CreateDomain(ctx, "user_1", "ent_1", "mail.example.org")
	if err != nil {
		t.Fatalf("create silent failed: %v", err)
	}

	poller := VerificationPoller{Service: service, Repo: store, Notifier: store}
	if err := poller.RunOnce(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, err := store.GetDomain(ctx, published.DomainID)
	if err != nil {
		t.Fatalf("get published failed: %v", err)
	}
	if !got.Verification {
		t.Fatal("expected published domain verified")
	}

	got, err = store.GetDomain(ctx, silent.DomainID)
	if err != nil {
		t.Fatalf("get silent failed: %v", err)
	}
	if got.Verification {
		t.Fatal("expected silent domain unverified")
	}
	if !got.IsNotifyFailed {
		t.Fatal("expected silent domain flagged as notified")
	}

	failures := 0
	for _, notice := range store.Notices() {
		if notice.Job == "domain_verification_failed" {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected one failure notice, got %d", failures)
	}

	// A second cycle must not re-notify the already flagged domain.
	if err := poller.RunOnce(ctx); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	failures = 0
	for _, notice := range store.Notices() {
		if notice.Job == "domain_verification_failed" {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected notice count unchanged, got %d", failures)
	}
}

func TestSweeperAdmitsPendingMembersOfAutoApproveDomains(t *testing.T) {
	store := memory.NewStore()
	service := newWorkerService(store)
	ctx := context.Background()

	if _, err := store.InsertDomain(ctx, entities.Domain{
		DomainID:     "dom_auto",
		EnterpriseID: "ent_1",
		Domain:       "corp.example.com",
		RootDomain:   "example.com",
		Verification: true,
		AutoApprove:  true,
	}, nil); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	store.SeedRequestedMember("dom_auto", ports.PendingMember{MemberID: "mem_1", Email: "a@corp.example.com"})
	store.SeedRequestedMember("dom_auto", ports.PendingMember{MemberID: "mem_2", Email: "b@corp.example.com"})

	sweeper := AutoApproveSweeper{Service: service, Repo: store}
	if err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	pending, err := store.ListRequestedMembers(ctx, "ent_1", "dom_auto")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending members, got %d", len(pending))
	}
	requests := store.SeatRequests()
	if len(requests) != 1 || requests[0].Count != 2 {
		t.Fatalf("unexpected seat requests %+v", requests)
	}
}

type frozenClock struct {
	now time.Time
}

func (c frozenClock) Now() time.Time { return c.now }

type counterIDs struct {
	n int
}

func (g *counterIDs) NewID(context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("id_%04d", g.n), nil
}
