package memory

import (
	"context"
	"sync"

	"locker/contexts/vault-access/cipher-service/domain/entities"
	domainerrors "locker/contexts/vault-access/cipher-service/domain/errors"
)

// Store is the in-memory reference implementation of AccessRepository, with
// seeding helpers used by tests.
type Store struct {
	mu sync.RWMutex

	ciphersByID map[string]entities.Cipher
	teamsByID   map[string]entities.Team
	teamMembers []entities.TeamMember

	cipherCollections map[string][]string                    // cipherID -> collectionIDs
	memberAccess      map[string][]entities.CollectionAccess // teamMemberID -> grants

	groupsByID       map[string]entities.Group
	groupMembers     map[string][]string // groupID -> userIDs
	groupCollections map[string][]string // groupID -> collectionIDs
}

func NewStore() *Store {
	return &Store{
		ciphersByID:       make(map[string]entities.Cipher),
		teamsByID:         make(map[string]entities.Team),
		cipherCollections: make(map[string][]string),
		memberAccess:      make(map[string][]entities.CollectionAccess),
		groupsByID:        make(map[string]entities.Group),
		groupMembers:      make(map[string][]string),
		groupCollections:  make(map[string][]string),
	}
}

func (s *Store) GetCipher(_ context.Context, cipherID string) (entities.Cipher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cipher, ok := s.ciphersByID[cipherID]
	if !ok {
		return entities.Cipher{}, domainerrors.ErrCipherNotFound
	}
	return cipher, nil
}

func (s *Store) GetTeam(_ context.Context, teamID string) (entities.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teamsByID[teamID]
	if !ok {
		return entities.Team{}, domainerrors.ErrTeamNotFound
	}
	return team, nil
}

func (s *Store) FindTeamMember(_ context.Context, teamID, userID string) (entities.TeamMember, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, member := range s.teamMembers {
		if member.TeamID == teamID && member.UserID == userID {
			return member, true, nil
		}
	}
	return entities.TeamMember{}, false, nil
}

func (s *Store) ListCipherCollectionIDs(_ context.Context, cipherID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.cipherCollections[cipherID]...), nil
}

func (s *Store) ListMemberCollectionAccess(_ context.Context, teamMemberID string) ([]entities.CollectionAccess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.CollectionAccess(nil), s.memberAccess[teamMemberID]...), nil
}

func (s *Store) ListGroupRolesOfUser(_ context.Context, teamID, userID string) ([]entities.TeamRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var roles []entities.TeamRole
	for groupID, userIDs := range s.groupMembers {
		group, ok := s.groupsByID[groupID]
		if !ok || group.TeamID != teamID {
			continue
		}
		for _, id := range userIDs {
			if id == userID {
				roles = append(roles, group.Role)
				break
			}
		}
	}
	return roles, nil
}

func (s *Store) ListGroupCollectionIDs(_ context.Context, teamID, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var collectionIDs []string
	for groupID, userIDs := range s.groupMembers {
		group, ok := s.groupsByID[groupID]
		if !ok || group.TeamID != teamID {
			continue
		}
		for _, id := range userIDs {
			if id == userID {
				collectionIDs = append(collectionIDs, s.groupCollections[groupID]...)
				break
			}
		}
	}
	return collectionIDs, nil
}

func (s *Store) ListGroupsOfUser(_ context.Context, userID string) ([]entities.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups []entities.Group
	for groupID, userIDs := range s.groupMembers {
		for _, id := range userIDs {
			if id == userID {
				if group, ok := s.groupsByID[groupID]; ok {
					groups = append(groups, group)
				}
				break
			}
		}
	}
	return groups, nil
}

func (s *Store) RemoveUserFromGroups(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for groupID, userIDs := range s.groupMembers {
		kept := userIDs[:0]
		for _, id := range userIDs {
			if id != userID {
				kept = append(kept, id)
			}
		}
		s.groupMembers[groupID] = kept
	}
	return nil
}

// Seeding helpers.

func (s *Store) SaveCipher(cipher entities.Cipher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ciphersByID[cipher.CipherID] = cipher
}

func (s *Store) SaveTeam(team entities.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamsByID[team.TeamID] = team
}

func (s *Store) SaveTeamMember(member entities.TeamMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamMembers = append(s.teamMembers, member)
}

func (s *Store) AttachCipherToCollection(cipherID, collectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cipherCollections[cipherID] = append(s.cipherCollections[cipherID], collectionID)
}

func (s *Store) GrantCollectionAccess(access entities.CollectionAccess) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberAccess[access.TeamMemberID] = append(s.memberAccess[access.TeamMemberID], access)
}

func (s *Store) SaveGroup(group entities.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupsByID[group.GroupID] = group
}

func (s *Store) AddGroupMember(groupID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupMembers[groupID] = append(s.groupMembers[groupID], userID)
}

func (s *Store) AttachGroupToCollection(groupID, collectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupCollections[groupID] = append(s.groupCollections[groupID], collectionID)
}
