package application

import (
	"context"
	"errors"
	"testing"

	"locker/contexts/vault-access/cipher-service/adapters/memory"
	"locker/contexts/vault-access/cipher-service/domain/entities"
	domainerrors "locker/contexts/vault-access/cipher-service/domain/errors"
)

type accessFixture struct {
	store      *memory.Store
	authorizer Authorizer
}

func newFixture() accessFixture {
	store := memory.NewStore()
	return accessFixture{
		store:      store,
		authorizer: Authorizer{Repo: store},
	}
}

func (f accessFixture) seedTeamCipher(personalShare bool, role entities.TeamRole, status entities.TeamMemberStatus) {
	teamID := "team_1"
	f.store.SaveTeam(entities.Team{TeamID: teamID, Name: "Sec Team", PersonalShare: personalShare})
	f.store.SaveTeamMember(entities.TeamMember{
		TeamMemberID: "tm_1",
		TeamID:       teamID,
		UserID:       "user_1",
		Role:         role,
		Status:       status,
	})
	f.store.SaveCipher(entities.Cipher{CipherID: "cip_1", TeamID: &teamID, Kind: "login"})
}

func TestPersonalCipherOwnerHasFullAccess(t *testing.T) {
	f := newFixture()
	owner := "user_1"
	f.store.SaveCipher(entities.Cipher{CipherID: "cip_p", UserID: &owner, Kind: "login"})

	assertAccess(t, f.authorizer, "user_1", "cip_p", true, true)
	assertAccess(t, f.authorizer, "user_2", "cip_p", false, false)
}

func TestAdministrativeRolesHaveFullAccess(t *testing.T) {
	for _, role := range []entities.TeamRole{entities.TeamRoleOwner, entities.TeamRoleAdmin} {
		f := newFixture()
		f.seedTeamCipher(false, role, entities.TeamStatusConfirmed)
		assertAccess(t, f.authorizer, "user_1", "cip_1", true, true)
	}
}

func TestPersonalShareRelaxesReadButNeverWrite(t *testing.T) {
	// The asymmetry under test: a plain member of a personal_share team with
	// no collection grants may read the cipher but not mutate it.
	f := newFixture()
	f.seedTeamCipher(true, entities.TeamRoleMember, entities.TeamStatusConfirmed)

	assertAccess(t, f.authorizer, "user_1", "cip_1", true, false)
}

func TestPersonalShareAppliesToManagerReads(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(true, entities.TeamRoleManager, entities.TeamStatusConfirmed)

	canRead, err := f.authorizer.CanRead(context.Background(), "user_1", "cip_1")
	if err != nil {
		t.Fatalf("read check failed: %v", err)
	}
	if !canRead {
		t.Fatal("expected manager read under personal_share")
	}
}

func TestMemberWithoutGrantsDeniedOnPlainTeam(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(false, entities.TeamRoleMember, entities.TeamStatusConfirmed)

	assertAccess(t, f.authorizer, "user_1", "cip_1", false, false)
}

func TestCollectionGrantAllowsRead(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(false, entities.TeamRoleMember, entities.TeamStatusConfirmed)
	f.store.AttachCipherToCollection("cip_1", "col_1")
	f.store.GrantCollectionAccess(entities.CollectionAccess{
		CollectionID: "col_1",
		TeamMemberID: "tm_1",
		ReadOnly:     true,
	})

	// Member role never writes through collections, read-only or not.
	assertAccess(t, f.authorizer, "user_1", "cip_1", true, false)
}

func TestManagerWritableGrantAllowsWrite(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(false, entities.TeamRoleManager, entities.TeamStatusConfirmed)
	f.store.AttachCipherToCollection("cip_1", "col_1")
	f.store.GrantCollectionAccess(entities.CollectionAccess{
		CollectionID: "col_1",
		TeamMemberID: "tm_1",
		ReadOnly:     false,
	})

	assertAccess(t, f.authorizer, "user_1", "cip_1", true, true)
}

func TestManagerReadOnlyGrantBlocksWrite(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(false, entities.TeamRoleManager, entities.TeamStatusConfirmed)
	f.store.AttachCipherToCollection("cip_1", "col_1")
	f.store.GrantCollectionAccess(entities.CollectionAccess{
		CollectionID: "col_1",
		TeamMemberID: "tm_1",
		ReadOnly:     true,
	})

	assertAccess(t, f.authorizer, "user_1", "cip_1", true, false)
}

func TestUnconfirmedMemberDenied(t *testing.T) {
	for _, status := range []entities.TeamMemberStatus{entities.TeamStatusInvited, entities.TeamStatusRequested} {
		f := newFixture()
		f.seedTeamCipher(true, entities.TeamRoleAdmin, status)
		assertAccess(t, f.authorizer, "user_1", "cip_1", false, false)
	}
}

func TestNonMemberDenied(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(true, entities.TeamRoleMember, entities.TeamStatusConfirmed)

	assertAccess(t, f.authorizer, "user_stranger", "cip_1", false, false)
}

func TestGroupOwnerRoleGrantsWrite(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(false, entities.TeamRoleManager, entities.TeamStatusConfirmed)
	f.store.SaveGroup(entities.Group{GroupID: "grp_1", TeamID: "team_1", Name: "Ops", Role: entities.TeamRoleOwner})
	f.store.AddGroupMember("grp_1", "user_1")

	canWrite, err := f.authorizer.CanWrite(context.Background(), "user_1", "cip_1")
	if err != nil {
		t.Fatalf("write check failed: %v", err)
	}
	if !canWrite {
		t.Fatal("expected owner-level group role to grant write")
	}
}

func TestGroupCollectionInheritanceGatedByFlag(t *testing.T) {
	f := newFixture()
	f.seedTeamCipher(false, entities.TeamRoleMember, entities.TeamStatusConfirmed)
	f.store.AttachCipherToCollection("cip_1", "col_1")
	f.store.SaveGroup(entities.Group{GroupID: "grp_1", TeamID: "team_1", Name: "Ops", Role: entities.TeamRoleMember})
	f.store.AddGroupMember("grp_1", "user_1")
	f.store.AttachGroupToCollection("grp_1", "col_1")

	canRead, err := f.authorizer.CanRead(context.Background(), "user_1", "cip_1")
	if err != nil {
		t.Fatalf("read check failed: %v", err)
	}
	if canRead {
		t.Fatal("expected inheritance path to deny while the flag is off")
	}

	flagged := Authorizer{Repo: f.store, GroupInheritanceEnabled: true}
	canRead, err = flagged.CanRead(context.Background(), "user_1", "cip_1")
	if err != nil {
		t.Fatalf("flagged read check failed: %v", err)
	}
	if !canRead {
		t.Fatal("expected inheritance path to allow with the flag on")
	}
}

func TestMissingCipherSurfacesNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.authorizer.CanRead(context.Background(), "user_1", "cip_missing")
	if !errors.Is(err, domainerrors.ErrCipherNotFound) {
		t.Fatalf("expected cipher not found, got %v", err)
	}
}

func TestBlankInputRejected(t *testing.T) {
	f := newFixture()
	if _, err := f.authorizer.CanRead(context.Background(), "", "cip_1"); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if _, err := f.authorizer.CanWrite(context.Background(), "user_1", " "); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func assertAccess(t *testing.T, authorizer Authorizer, userID, cipherID string, wantRead, wantWrite bool) {
	t.Helper()
	canRead, err := authorizer.CanRead(context.Background(), userID, cipherID)
	if err != nil {
		t.Fatalf("read check failed: %v", err)
	}
	if canRead != wantRead {
		t.Fatalf("CanRead(%s, %s) = %v, want %v", userID, cipherID, canRead, wantRead)
	}
	canWrite, err := authorizer.CanWrite(context.Background(), userID, cipherID)
	if err != nil {
		t.Fatalf("write check failed: %v", err)
	}
	if canWrite != wantWrite {
		t.Fatalf("CanWrite(%s, %s) = %v, want %v", userID, cipherID, canWrite, wantWrite)
	}
}
