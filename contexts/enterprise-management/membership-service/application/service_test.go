package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	jwtadapter "locker/contexts/enterprise-management/membership-service/adapters/jwt"
	"locker/contexts/enterprise-management/membership-service/adapters/memory"
	"locker/contexts/enterprise-management/membership-service/domain/entities"
	domainerrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	"locker/contexts/enterprise-management/membership-service/ports"
)

func newTestService(store *memory.Store) Service {
	return Service{
		Repo:           store,
		Idempotency:    store,
		Groups:         store,
		Domains:        store,
		Seats:          store,
		Users:          store,
		Tokens:         jwtadapter.NewTokens("test-secret", 24*time.Hour),
		Audit:          store,
		Notifier:       store,
		Clock:          fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGenerator:    &seqIDs{},
		IdempotencyTTL: time.Hour,
	}
}

func TestCreateEnterpriseCreatesPrimaryAdmin(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	enterprise, err := service.CreateEnterprise(context.Background(), "idem-1", "user_owner", ports.CreateEnterpriseInput{
		Name:      "Acme Corp",
		InitSeats: 5,
	})
	if err != nil {
		t.Fatalf("create enterprise failed: %v", err)
	}

	members, err := store.ListMembers(context.Background(), enterprise.EnterpriseID, ports.MemberFilter{})
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected one primary member, got %d", len(members))
	}
	primary := members[0]
	if !primary.IsPrimary || primary.Role != entities.RolePrimaryAdmin {
		t.Fatalf("expected primary admin, got primary=%v role=%s", primary.IsPrimary, primary.Role)
	}
	if primary.Status != entities.StatusConfirmed || !primary.IsActivated {
		t.Fatalf("expected confirmed activated primary, got status=%s activated=%v", primary.Status, primary.IsActivated)
	}

	changes := store.SeatChanges()
	if len(changes) != 1 || changes[0].Change != 1 {
		t.Fatalf("expected one +1 seat change, got %+v", changes)
	}
}

func TestCreateMemberRejectsPrimaryRole(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	_, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
		Email:  "second@acme.test",
		Role:   entities.RolePrimaryAdmin,
		Status: entities.StatusInvited,
	})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for second primary, got %v", err)
	}
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	input := ports.CreateMemberInput{
		Email:  "dup@acme.test",
		Role:   entities.RoleMember,
		Status: entities.StatusInvited,
	}
	if _, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.CreateMember(context.Background(), "idem-3", "user_owner", enterprise.EnterpriseID, input)
	if !errors.Is(err, domainerrors.ErrMemberAlreadyExists) {
		t.Fatalf("expected duplicate member error, got %v", err)
	}
}

func TestUpdateMemberSelfRoleChangeForbidden(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)
	member := mustCreateConfirmedMember(t, service, enterprise.EnterpriseID, "user_admin", "admin@acme.test", entities.RoleAdmin)

	role := entities.RoleMember
	_, err := service.UpdateMember(context.Background(), "idem-up", "user_admin", enterprise.EnterpriseID, member.MemberID, ports.UpdateMemberInput{
		Role: &role,
	})
	if !errors.Is(err, domainerrors.ErrMemberUpdateForbidden) {
		t.Fatalf("expected self role change to be forbidden, got %v", err)
	}
}

func TestUpdateMemberPrimaryImmutable(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	members, _ := store.ListMembers(context.Background(), enterprise.EnterpriseID, ports.MemberFilter{})
	primary := members[0]

	role := entities.RoleAdmin
	_, err := service.UpdateMember(context.Background(), "idem-up", "user_other", enterprise.EnterpriseID, primary.MemberID, ports.UpdateMemberInput{
		Role: &role,
	})
	if !errors.Is(err, domainerrors.ErrMemberUpdateForbidden) {
		t.Fatalf("expected primary role change to be forbidden, got %v", err)
	}

	status := entities.StatusConfirmed
	_, err = service.UpdateMember(context.Background(), "idem-up2", "user_other", enterprise.EnterpriseID, primary.MemberID, ports.UpdateMemberInput{
		Status: &status,
	})
	if !errors.Is(err, domainerrors.ErrMemberUpdateForbidden) {
		t.Fatalf("expected primary status change to be forbidden, got %v", err)
	}
}

func TestConfirmOnlyValidFromRequested(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	invited, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
		Email:  "invited@acme.test",
		Role:   entities.RoleMember,
		Status: entities.StatusInvited,
	})
	if err != nil {
		t.Fatalf("create invited member failed: %v", err)
	}

	status := entities.StatusConfirmed
	_, err = service.UpdateMember(context.Background(), "idem-3", "user_owner", enterprise.EnterpriseID, invited.MemberID, ports.UpdateMemberInput{
		Status: &status,
	})
	if !errors.Is(err, domainerrors.ErrMemberUpdateForbidden) {
		t.Fatalf("expected confirm from INVITED to be forbidden, got %v", err)
	}
}

func TestDeactivateStripsGroupsAndEmitsSeatChange(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)
	member := mustCreateConfirmedMember(t, service, enterprise.EnterpriseID, "user_m1", "m1@acme.test", entities.RoleMember)
	store.SeedGroupMembership("user_m1", "grp_1", "grp_2")

	before := len(store.SeatChanges())
	_, relevant, err := service.SetActivated(context.Background(), "idem-deact", "user_owner", enterprise.EnterpriseID, member.MemberID, false)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if !relevant {
		t.Fatal("expected deactivation to be billing-relevant")
	}

	groups, _ := store.ListUserGroupIDs(context.Background(), "user_m1")
	if len(groups) != 0 {
		t.Fatalf("expected group memberships stripped, got %v", groups)
	}

	changes := store.SeatChanges()
	if len(changes) != before+1 {
		t.Fatalf("expected one new seat change, got %d", len(changes)-before)
	}
	last := changes[len(changes)-1]
	if last.Change != -1 || last.Reason != "member_deactivated" {
		t.Fatalf("unexpected seat change %+v", last)
	}
}

func TestResolveInvitationDomainBoundCannotReject(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	domainID := "dom_1"
	store.SeedDomain(ports.DomainInfo{
		DomainID:     domainID,
		EnterpriseID: enterprise.EnterpriseID,
		Domain:       "acme.test",
		Verified:     true,
		AutoApprove:  false,
	})
	userID := "user_dombound"
	invited, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
		UserID:   &userID,
		Email:    "dombound@acme.test",
		Role:     entities.RoleMember,
		Status:   entities.StatusInvited,
		DomainID: &domainID,
	})
	if err != nil {
		t.Fatalf("create domain-bound member failed: %v", err)
	}

	_, err = service.ResolveInvitation(context.Background(), "idem-3", userID, enterprise.EnterpriseID, invited.MemberID, DecisionReject)
	if !errors.Is(err, domainerrors.ErrInvitationRejectionForbidden) {
		t.Fatalf("expected rejection of domain-bound invite to fail, got %v", err)
	}
}

func TestResolveInvitationDomainBoundLandsInRequested(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	domainID := "dom_manual"
	store.SeedDomain(ports.DomainInfo{
		DomainID:     domainID,
		EnterpriseID: enterprise.EnterpriseID,
		Domain:       "acme.test",
		Verified:     true,
		AutoApprove:  false,
	})
	userID := "user_req"
	invited, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
		UserID:   &userID,
		Email:    "req@acme.test",
		Role:     entities.RoleMember,
		Status:   entities.StatusInvited,
		DomainID: &domainID,
	})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}

	resolved, err := service.ResolveInvitation(context.Background(), "idem-3", userID, enterprise.EnterpriseID, invited.MemberID, DecisionConfirm)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != entities.StatusRequested {
		t.Fatalf("expected REQUESTED without auto-approve, got %s", resolved.Status)
	}
}

func TestResolveInvitationAutoApproveConfirms(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	domainID := "dom_auto"
	store.SeedDomain(ports.DomainInfo{
		DomainID:     domainID,
		EnterpriseID: enterprise.EnterpriseID,
		Domain:       "acme.test",
		Verified:     true,
		AutoApprove:  true,
	})
	userID := "user_auto"
	invited, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
		UserID:   &userID,
		Email:    "auto@acme.test",
		Role:     entities.RoleMember,
		Status:   entities.StatusInvited,
		DomainID: &domainID,
	})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}

	resolved, err := service.ResolveInvitation(context.Background(), "idem-3", userID, enterprise.EnterpriseID, invited.MemberID, DecisionConfirm)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != entities.StatusConfirmed {
		t.Fatalf("expected CONFIRMED with auto-approve, got %s", resolved.Status)
	}
}

func TestClaimInvitationBindsUser(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	invited, err := service.CreateMember(context.Background(), "idem-2", "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
		Email:  "claim@acme.test",
		Role:   entities.RoleMember,
		Status: entities.StatusInvited,
	})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	if invited.InvitationToken == "" {
		t.Fatal("expected invitation token on invited member")
	}

	claimed, err := service.ClaimInvitation(context.Background(), invited.InvitationToken, "user_new")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.UserID == nil || *claimed.UserID != "user_new" {
		t.Fatalf("expected user bound, got %+v", claimed.UserID)
	}

	if _, err := service.ClaimInvitation(context.Background(), "not-a-token", "user_new"); !errors.Is(err, domainerrors.ErrInvitationTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestCreateMemberIdempotencyReplayAndConflict(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	input := ports.CreateMemberInput{
		Email:  "replay@acme.test",
		Role:   entities.RoleMember,
		Status: entities.StatusInvited,
	}
	first, err := service.CreateMember(context.Background(), "idem-r", "user_owner", enterprise.EnterpriseID, input)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := service.CreateMember(context.Background(), "idem-r", "user_owner", enterprise.EnterpriseID, input)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if first.MemberID != second.MemberID {
		t.Fatalf("expected replayed member, got %s vs %s", first.MemberID, second.MemberID)
	}

	input.Email = "different@acme.test"
	_, err = service.CreateMember(context.Background(), "idem-r", "user_owner", enterprise.EnterpriseID, input)
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestDomainBulkAdmission(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)
	enterprise := mustCreateEnterprise(t, service)

	domainID := "dom_bulk"
	for i := 0; i < 3; i++ {
		userID := fmt.Sprintf("user_bulk_%d", i)
		member, err := service.CreateMember(context.Background(), fmt.Sprintf("idem-bulk-%d", i), "user_owner", enterprise.EnterpriseID, ports.CreateMemberInput{
			UserID:   &userID,
			Email:    fmt.Sprintf("bulk%d@acme.test", i),
			Role:     entities.RoleMember,
			Status:   entities.StatusRequested,
			DomainID: &domainID,
		})
		if err != nil {
			t.Fatalf("create requested member %d failed: %v", i, err)
		}
		if member.Status != entities.StatusRequested {
			t.Fatalf("expected REQUESTED, got %s", member.Status)
		}
	}

	pending, err := service.ListRequestedMembersOfDomain(context.Background(), enterprise.EnterpriseID, domainID)
	if err != nil {
		t.Fatalf("list requested failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 requested members, got %d", len(pending))
	}

	confirmed, err := service.ConfirmRequestedMembersOfDomain(context.Background(), enterprise.EnterpriseID, domainID)
	if err != nil {
		t.Fatalf("bulk confirm failed: %v", err)
	}
	if confirmed != 3 {
		t.Fatalf("expected 3 confirmations, got %d", confirmed)
	}

	remaining, _ := service.ListRequestedMembersOfDomain(context.Background(), enterprise.EnterpriseID, domainID)
	if len(remaining) != 0 {
		t.Fatalf("expected no requested members left, got %d", len(remaining))
	}

	deactivated, err := service.DeactivateMembersOfDomain(context.Background(), enterprise.EnterpriseID, domainID)
	if err != nil {
		t.Fatalf("bulk deactivate failed: %v", err)
	}
	if deactivated != 3 {
		t.Fatalf("expected 3 deactivations, got %d", deactivated)
	}
}

func mustCreateEnterprise(t *testing.T, service Service) entities.Enterprise {
	t.Helper()
	enterprise, err := service.CreateEnterprise(context.Background(), "idem-ent", "user_owner", ports.CreateEnterpriseInput{
		Name:      "Acme Corp",
		InitSeats: 5,
	})
	if err != nil {
		t.Fatalf("create enterprise failed: %v", err)
	}
	return enterprise
}

func mustCreateConfirmedMember(t *testing.T, service Service, enterpriseID, userID, email string, role entities.MemberRole) entities.Member {
	t.Helper()
	member, err := service.CreateMember(context.Background(), "idem-"+userID, "user_owner", enterpriseID, ports.CreateMemberInput{
		UserID: &userID,
		Email:  email,
		Role:   role,
		Status: entities.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create confirmed member failed: %v", err)
	}
	return member
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
	return fmt.Sprintf("id_%04d", g.n), nil
}
