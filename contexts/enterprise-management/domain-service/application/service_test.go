package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"locker/contexts/enterprise-management/domain-service/adapters/memory"
	"locker/contexts/enterprise-management/domain-service/domain/entities"
	domainerrors "locker/contexts/enterprise-management/domain-service/domain/errors"
	"locker/contexts/enterprise-management/domain-service/ports"
)

func newTestService(store *memory.Store) Service {
	return Service{
		Repo:        store,
		Resolver:    store,
		Members:     store,
		Seats:       store,
		Audit:       store,
		Notifier:    store,
		Clock:       fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGenerator: &seqIDs{},
	}
}

func TestCreateDomainIssuesChallenge(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, challenges, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "Vault.Example.COM")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if domain.Domain != "vault.example.com" {
		t.Fatalf("expected lowercased domain, got %s", domain.Domain)
	}
	if domain.RootDomain != "example.com" {
		t.Fatalf("expected root domain example.com, got %s", domain.RootDomain)
	}
	if domain.Verification {
		t.Fatal("expected fresh claim to be unverified")
	}
	if len(challenges) != 1 {
		t.Fatalf("expected one challenge, got %d", len(challenges))
	}
	challenge := challenges[0]
	if challenge.RecordType != "TXT" {
		t.Fatalf("expected TXT challenge, got %s", challenge.RecordType)
	}
	if challenge.Key != "_locker-challenge.vault.example.com" {
		t.Fatalf("unexpected challenge key %s", challenge.Key)
	}
}

func TestVerifyDomainThroughPublishedRecord(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, challenges, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "vault.example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Without the record the user-triggered verification reports failure.
	if _, err := service.VerifyDomain(context.Background(), "user_1", domain.DomainID); !errors.Is(err, domainerrors.ErrDomainVerificationFailed) {
		t.Fatalf("expected verification failure before record exists, got %v", err)
	}

	store.PublishRecord(challenges[0].Key, "unrelated", challenges[0].Value)
	verified, err := service.VerifyDomain(context.Background(), "user_1", domain.DomainID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !verified.Verification {
		t.Fatal("expected domain to be verified")
	}

	// Re-verification short-circuits on the already verified domain.
	again, err := service.CheckVerification(context.Background(), domain.DomainID)
	if err != nil || !again {
		t.Fatalf("expected idempotent re-check, got %v %v", again, err)
	}
}

func TestRootDomainExclusivity(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, challenges, err := service.CreateDomain(context.Background(), "user_1", "ent_a", "vault.example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.PublishRecord(challenges[0].Key, challenges[0].Value)
	if _, err := service.VerifyDomain(context.Background(), "user_1", domain.DomainID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// Another enterprise claiming any name under the same root is refused.
	_, _, err = service.CreateDomain(context.Background(), "user_2", "ent_b", "mail.example.com")
	if !errors.Is(err, domainerrors.ErrDomainVerifiedByOther) {
		t.Fatalf("expected root-domain exclusivity error, got %v", err)
	}
}

func TestSubdomainInheritsVerification(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, challenges, err := service.CreateDomain(context.Background(), "user_1", "ent_a", "vault.example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.PublishRecord(challenges[0].Key, challenges[0].Value)
	if _, err := service.VerifyDomain(context.Background(), "user_1", domain.DomainID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	sibling, _, err := service.CreateDomain(context.Background(), "user_1", "ent_a", "mail.example.com")
	if err != nil {
		t.Fatalf("sibling create failed: %v", err)
	}
	if !sibling.Verification {
		t.Fatal("expected sibling subdomain to inherit verification")
	}
}

func TestDuplicateDomainRejected(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	if _, _, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "vault.example.com"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, _, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "vault.example.com")
	if !errors.Is(err, domainerrors.ErrDomainAlreadyExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestEnablingAutoApproveAdmitsPendingMembers(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, challenges, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "vault.example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.PublishRecord(challenges[0].Key, challenges[0].Value)
	if _, err := service.VerifyDomain(context.Background(), "user_1", domain.DomainID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	store.SeedRequestedMember(domain.DomainID, ports.PendingMember{MemberID: "mem_1", UserID: "user_a", Email: "a@example.com"})
	store.SeedRequestedMember(domain.DomainID, ports.PendingMember{MemberID: "mem_2", UserID: "user_b", Email: "b@example.com"})

	updated, err := service.SetAutoApprove(context.Background(), "user_1", domain.DomainID, true)
	if err != nil {
		t.Fatalf("set auto-approve failed: %v", err)
	}
	if !updated.AutoApprove {
		t.Fatal("expected auto-approve enabled")
	}

	pending, _ := store.ListRequestedMembers(context.Background(), "ent_1", domain.DomainID)
	if len(pending) != 0 {
		t.Fatalf("expected pending members admitted, %d left", len(pending))
	}

	requests := store.SeatRequests()
	if len(requests) != 1 || requests[0].Count != 2 {
		t.Fatalf("expected one seat request for 2 seats, got %+v", requests)
	}
}

func TestAutoApproveSkipsUnverifiedDomain(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, _, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "vault.example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.SeedRequestedMember(domain.DomainID, ports.PendingMember{MemberID: "mem_1", UserID: "user_a", Email: "a@example.com"})

	count, err := service.AutoApprove(context.Background(), domain.DomainID)
	if err != nil {
		t.Fatalf("auto-approve failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no admissions on unverified domain, got %d", count)
	}
	pending, _ := store.ListRequestedMembers(context.Background(), "ent_1", domain.DomainID)
	if len(pending) != 1 {
		t.Fatal("expected pending member untouched")
	}
}

func TestDeleteDomainDeactivatesMembers(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	domain, challenges, err := service.CreateDomain(context.Background(), "user_1", "ent_1", "vault.example.com")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.PublishRecord(challenges[0].Key, challenges[0].Value)
	if _, err := service.VerifyDomain(context.Background(), "user_1", domain.DomainID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	store.SeedRequestedMember(domain.DomainID, ports.PendingMember{MemberID: "mem_1", UserID: "user_a", Email: "a@example.com"})
	if _, err := service.SetAutoApprove(context.Background(), "user_1", domain.DomainID, true); err != nil {
		t.Fatalf("auto-approve failed: %v", err)
	}

	if err := service.DeleteDomain(context.Background(), "user_1", domain.DomainID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := service.GetDomain(context.Background(), domain.DomainID); !errors.Is(err, domainerrors.ErrDomainNotFound) {
		t.Fatalf("expected domain gone, got %v", err)
	}
}

func TestRootDomainOf(t *testing.T) {
	cases := map[string]string{
		"example.com":            "example.com",
		"vault.example.com":      "example.com",
		"a.b.vault.example.com":  "example.com",
		"team.example.co.uk":     "example.co.uk",
		"Example.COM.":           "example.com",
		"single.example.com.au":  "example.com.au",
		"deep.x.example.ac.jp":   "example.ac.jp",
		"no-subdomain.io":        "no-subdomain.io",
		"svc.internal.corp.net":  "corp.net",
		"mail.office.sample.org": "sample.org",
	}
	for input, want := range cases {
		if got := entities.RootDomainOf(input); got != want {
			t.Fatalf("RootDomainOf(%q) = %q, want %q", input, got, want)
		}
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
	return fmt.Sprintf("dom_%04d", g.n), nil
}
