package ports

import (
	"context"

	"locker/contexts/vault-access/cipher-service/domain/entities"
)

// AccessRepository exposes the read paths the authorizer needs plus the
// mutations driven by membership lifecycle events.
type AccessRepository interface {
	GetCipher(ctx context.Context, cipherID string) (entities.Cipher, error)
	GetTeam(ctx context.Context, teamID string) (entities.Team, error)
	// FindTeamMember resolves the caller's membership in the cipher's team.
	// Absence is an authorization outcome, not an error.
	FindTeamMember(ctx context.Context, teamID, userID string) (entities.TeamMember, bool, error)

	// ListCipherCollectionIDs returns the collections the cipher is attached
	// to. Empty means the cipher is team-wide, not collection-scoped.
	ListCipherCollectionIDs(ctx context.Context, cipherID string) ([]string, error)
	// ListMemberCollectionAccess returns the member's direct collection
	// grants.
	ListMemberCollectionAccess(ctx context.Context, teamMemberID string) ([]entities.CollectionAccess, error)

	// ListGroupRolesOfUser returns the roles of every group the user belongs
	// to within the team.
	ListGroupRolesOfUser(ctx context.Context, teamID, userID string) ([]entities.TeamRole, error)
	// ListGroupCollectionIDs returns collections reachable through the
	// user's group memberships. Serves the legacy inheritance path only.
	ListGroupCollectionIDs(ctx context.Context, teamID, userID string) ([]string, error)

	// ListGroupsOfUser and RemoveUserFromGroups serve the membership
	// deactivation cascade.
	ListGroupsOfUser(ctx context.Context, userID string) ([]entities.Group, error)
	RemoveUserFromGroups(ctx context.Context, userID string) error
}
