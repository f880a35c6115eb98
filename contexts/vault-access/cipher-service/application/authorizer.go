package application

import (
	"context"
	"log/slog"
	"strings"

	"locker/contexts/vault-access/cipher-service/domain/entities"
	domainerrors "locker/contexts/vault-access/cipher-service/domain/errors"
	"locker/contexts/vault-access/cipher-service/ports"
)

const moduleName = "vault-access/cipher-service"

// Authorizer decides cipher access by layering ownership, team membership
// state, role hierarchy, and per-collection grants.
//
// Read and write deliberately diverge: personal_share relaxes reads for
// non-administrative members but never writes. Do not converge the two paths
// without product sign-off.
type Authorizer struct {
	Repo ports.AccessRepository
	// GroupInheritanceEnabled re-enables the legacy group-to-collection
	// inheritance path. It is off in production; when off the path always
	// denies.
	GroupInheritanceEnabled bool
	Logger                  *slog.Logger
}

// CanRead reports whether the user may read the cipher. Missing membership is
// an authorization outcome (deny), not a lookup failure.
func (a Authorizer) CanRead(ctx context.Context, userID, cipherID string) (bool, error) {
	cipher, team, member, decided, allowed, err := a.resolve(ctx, userID, cipherID)
	if err != nil || decided {
		return allowed, err
	}

	if team.PersonalShare && (member.Role == entities.TeamRoleMember || member.Role == entities.TeamRoleManager) {
		return true, nil
	}

	return a.memberInCipherCollections(ctx, cipher, team, member, false)
}

// CanWrite reports whether the user may mutate the cipher. The personal_share
// relaxation does not apply; instead owner-level group roles and writable
// collection grants are consulted.
func (a Authorizer) CanWrite(ctx context.Context, userID, cipherID string) (bool, error) {
	cipher, team, member, decided, allowed, err := a.resolve(ctx, userID, cipherID)
	if err != nil || decided {
		return allowed, err
	}

	groupRoles, err := a.Repo.ListGroupRolesOfUser(ctx, team.TeamID, userID)
	if err != nil {
		return false, err
	}
	for _, role := range groupRoles {
		if role.Administrative() {
			return true, nil
		}
	}

	if member.Role == entities.TeamRoleMember {
		return false, nil
	}
	return a.memberInCipherCollections(ctx, cipher, team, member, true)
}

// resolve runs the shared prelude of both checks. decided=true means the
// outcome is final and allowed carries it.
func (a Authorizer) resolve(ctx context.Context, userID, cipherID string) (entities.Cipher, entities.Team, entities.TeamMember, bool, bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(cipherID) == "" {
		return entities.Cipher{}, entities.Team{}, entities.TeamMember{}, false, false, domainerrors.ErrInvalidRequest
	}

	cipher, err := a.Repo.GetCipher(ctx, cipherID)
	if err != nil {
		return entities.Cipher{}, entities.Team{}, entities.TeamMember{}, false, false, err
	}
	if cipher.OwnedBy(userID) {
		return cipher, entities.Team{}, entities.TeamMember{}, true, true, nil
	}
	if !cipher.TeamOwned() {
		return cipher, entities.Team{}, entities.TeamMember{}, true, false, nil
	}

	team, err := a.Repo.GetTeam(ctx, *cipher.TeamID)
	if err != nil {
		return entities.Cipher{}, entities.Team{}, entities.TeamMember{}, false, false, err
	}
	member, found, err := a.Repo.FindTeamMember(ctx, team.TeamID, userID)
	if err != nil {
		return entities.Cipher{}, entities.Team{}, entities.TeamMember{}, false, false, err
	}
	if !found || !member.Confirmed() {
		return cipher, team, member, true, false, nil
	}
	if member.Role.Administrative() {
		return cipher, team, member, true, true, nil
	}
	return cipher, team, member, false, false, nil
}

// memberInCipherCollections checks the member's direct collection grants
// against the cipher's attachments. requireWritable excludes read_only
// grants.
func (a Authorizer) memberInCipherCollections(ctx context.Context, cipher entities.Cipher, team entities.Team, member entities.TeamMember, requireWritable bool) (bool, error) {
	cipherCollections, err := a.Repo.ListCipherCollectionIDs(ctx, cipher.CipherID)
	if err != nil {
		return false, err
	}
	if len(cipherCollections) == 0 {
		return false, nil
	}
	attached := make(map[string]struct{}, len(cipherCollections))
	for _, id := range cipherCollections {
		attached[id] = struct{}{}
	}

	grants, err := a.Repo.ListMemberCollectionAccess(ctx, member.TeamMemberID)
	if err != nil {
		return false, err
	}
	for _, grant := range grants {
		if requireWritable && grant.ReadOnly {
			continue
		}
		if _, ok := attached[grant.CollectionID]; ok {
			return true, nil
		}
	}

	return a.collectionAccessThroughGroups(ctx, team, member, attached)
}

// collectionAccessThroughGroups is the legacy inheritance path. It stays
// behind the capability flag and denies while disabled.
func (a Authorizer) collectionAccessThroughGroups(ctx context.Context, team entities.Team, member entities.TeamMember, attached map[string]struct{}) (bool, error) {
	if !a.GroupInheritanceEnabled {
		return false, nil
	}
	groupCollections, err := a.Repo.ListGroupCollectionIDs(ctx, team.TeamID, member.UserID)
	if err != nil {
		return false, err
	}
	for _, id := range groupCollections {
		if _, ok := attached[id]; ok {
			return true, nil
		}
	}
	return false, nil
}
