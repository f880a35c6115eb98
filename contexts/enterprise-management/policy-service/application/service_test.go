package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"locker/contexts/enterprise-management/policy-service/adapters/memory"
	"locker/contexts/enterprise-management/policy-service/domain/entities"
	domainerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	"locker/contexts/enterprise-management/policy-service/ports"
)

func newTestService(store *memory.Store) Service {
	return Service{
		Repo:        store,
		Members:     store,
		Cache:       store,
		Clock:       fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGenerator: &seqIDs{},
		CacheTTL:    5 * time.Minute,
	}
}

func TestListPoliciesMaterializesDisabledDefaults(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	policies, err := service.ListPolicies(context.Background(), "ent_1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(policies) != len(entities.AllKinds) {
		t.Fatalf("expected %d policies, got %d", len(entities.AllKinds), len(policies))
	}
	for _, policy := range policies {
		if policy.Enabled {
			t.Fatalf("expected default %s to be disabled", policy.Kind)
		}
	}
}

func TestUpdatePolicyRequiresAdmin(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	_, err := service.UpdatePolicy(context.Background(), entities.RoleMember, "ent_1", entities.KindTwoFactor, ports.UpdatePolicyInput{
		Enabled:   true,
		TwoFactor: &entities.TwoFactorConfig{OnlyAdmin: true},
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected member update to be forbidden, got %v", err)
	}

	updated, err := service.UpdatePolicy(context.Background(), entities.RoleAdmin, "ent_1", entities.KindTwoFactor, ports.UpdatePolicyInput{
		Enabled:   true,
		TwoFactor: &entities.TwoFactorConfig{OnlyAdmin: true},
	})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if !updated.Enabled || updated.TwoFactor == nil || !updated.TwoFactor.OnlyAdmin {
		t.Fatalf("unexpected policy after update: %+v", updated)
	}
}

func TestUpdatePolicyRejectsNonPositiveLockout(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	_, err := service.UpdatePolicy(context.Background(), entities.RoleAdmin, "ent_1", entities.KindBlockFailedLogin, ports.UpdatePolicyInput{
		Enabled: true,
		BlockFailedLogin: &entities.BlockFailedLoginConfig{
			FailedLoginAttempts: 0,
			FailedLoginDuration: 600,
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for zero attempts, got %v", err)
	}
}

func TestRequiresTwoFactorOnlyAdmin(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	if _, err := service.UpdatePolicy(context.Background(), entities.RoleAdmin, "ent_1", entities.KindTwoFactor, ports.UpdatePolicyInput{
		Enabled:   true,
		TwoFactor: &entities.TwoFactorConfig{OnlyAdmin: true},
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	required, err := service.RequiresTwoFactor(context.Background(), "ent_1", entities.RoleMember)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if required {
		t.Fatal("expected member to be exempt when only_admin is set")
	}
	required, err = service.RequiresTwoFactor(context.Background(), "ent_1", entities.RoleAdmin)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !required {
		t.Fatal("expected admin to require 2FA")
	}
}

func TestEffectiveBlockFailedLoginMostPermissiveWins(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	store.SeedMembership("user_1", ports.MembershipView{EnterpriseID: "ent_a", Role: entities.RoleMember})
	store.SeedMembership("user_1", ports.MembershipView{EnterpriseID: "ent_b", Role: entities.RoleMember})

	// ent_a: 3 attempts per 300s (rate 0.01); ent_b: 5 per 600s (~0.0083).
	if _, err := service.UpdatePolicy(context.Background(), entities.RoleAdmin, "ent_a", entities.KindBlockFailedLogin, ports.UpdatePolicyInput{
		Enabled: true,
		BlockFailedLogin: &entities.BlockFailedLoginConfig{
			FailedLoginAttempts:  3,
			FailedLoginDuration:  300,
			FailedLoginBlockTime: 900,
		},
	}); err != nil {
		t.Fatalf("update ent_a failed: %v", err)
	}
	if _, err := service.UpdatePolicy(context.Background(), entities.RoleAdmin, "ent_b", entities.KindBlockFailedLogin, ports.UpdatePolicyInput{
		Enabled: true,
		BlockFailedLogin: &entities.BlockFailedLoginConfig{
			FailedLoginAttempts:  5,
			FailedLoginDuration:  600,
			FailedLoginBlockTime: 600,
		},
	}); err != nil {
		t.Fatalf("update ent_b failed: %v", err)
	}

	effective, found, err := service.EffectiveBlockFailedLogin(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !found {
		t.Fatal("expected an effective lockout policy")
	}
	if effective.FailedLoginAttempts != 5 || effective.FailedLoginDuration != 600 {
		t.Fatalf("expected the 5/600 policy to win, got %+v", effective)
	}
}

func TestEffectiveBlockFailedLoginIgnoresDisabled(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	store.SeedMembership("user_1", ports.MembershipView{EnterpriseID: "ent_a", Role: entities.RoleMember})

	effective, found, err := service.EffectiveBlockFailedLogin(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if found {
		t.Fatalf("expected no effective policy with only disabled defaults, got %+v", effective)
	}
}

func TestListPoliciesServesFromCacheUntilInvalidated(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	first, err := service.ListPolicies(context.Background(), "ent_1")
	if err != nil {
		t.Fatalf("first list failed: %v", err)
	}

	// A direct repo write is invisible while the cached list is live.
	twofa := first[len(first)-1]
	twofa.Enabled = true
	if _, err := store.SavePolicy(context.Background(), twofa); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	cached, err := service.ListPolicies(context.Background(), "ent_1")
	if err != nil {
		t.Fatalf("cached list failed: %v", err)
	}
	if cached[len(cached)-1].Enabled {
		t.Fatal("expected stale cached policy before invalidation")
	}

	if err := store.Invalidate(context.Background(), "ent_1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	fresh, err := service.ListPolicies(context.Background(), "ent_1")
	if err != nil {
		t.Fatalf("fresh list failed: %v", err)
	}
	if !fresh[len(fresh)-1].Enabled {
		t.Fatal("expected fresh read after invalidation")
	}
}

func TestScopeGates(t *testing.T) {
	if CheckScope(entities.RoleMember, "enterprise", "dashboard") {
		t.Fatal("expected dashboard to need admin")
	}
	if !CheckScope(entities.RoleAdmin, "enterprise", "dashboard") {
		t.Fatal("expected admin to pass dashboard gate")
	}
	if !CheckScope(entities.RoleMember, "enterprise", "show") {
		t.Fatal("expected member to pass read gate")
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
	return fmt.Sprintf("pol_%04d", g.n), nil
}
