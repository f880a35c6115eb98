package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	"locker/contexts/enterprise-management/membership-service/domain/entities"
	"locker/contexts/enterprise-management/membership-service/ports"
	"locker/internal/shared/events"
)

// Store is the in-memory reference implementation of the membership ports.
// It backs tests and local development; the postgres adapter is the
// production implementation.
type Store struct {
	mu sync.RWMutex

	enterprisesByID map[string]entities.Enterprise
	membersByID     map[string]entities.Member

	domainsByID  map[string]ports.DomainInfo
	groupsByUser map[string][]string
	usersByID    map[string]ports.User

	seatChanges []ports.SeatChange
	auditEvents []events.AuditEvent
	notices     []Notice

	idempotency map[string]ports.IdempotencyRecord
}

// Notice captures a dispatched notification for test assertions.
type Notice struct {
	Job        string
	Recipients []string
	Data       map[string]any
}

func NewStore() *Store {
	return &Store{
		enterprisesByID: make(map[string]entities.Enterprise),
		membersByID:     make(map[string]entities.Member),
		domainsByID:     make(map[string]ports.DomainInfo),
		groupsByUser:    make(map[string][]string),
		usersByID:       make(map[string]ports.User),
		idempotency:     make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) CreateEnterprise(_ context.Context, enterprise entities.Enterprise, primary entities.Member) (entities.Enterprise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enterprisesByID[enterprise.EnterpriseID]; ok {
		return entities.Enterprise{}, domainerrors.ErrInvalidRequest
	}
	s.enterprisesByID[enterprise.EnterpriseID] = enterprise
	s.membersByID[primary.MemberID] = primary
	return enterprise, nil
}

func (s *Store) GetEnterprise(_ context.Context, enterpriseID string) (entities.Enterprise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enterprise, ok := s.enterprisesByID[enterpriseID]
	if !ok {
		return entities.Enterprise{}, domainerrors.ErrEnterpriseNotFound
	}
	return enterprise, nil
}

// SaveEnterprise is a test/seed helper mirroring an admin console update.
func (s *Store) SaveEnterprise(enterprise entities.Enterprise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enterprisesByID[enterprise.EnterpriseID] = enterprise
}

func (s *Store) GetMember(_ context.Context, enterpriseID, memberID string) (entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.membersByID[memberID]
	if !ok || member.EnterpriseID != enterpriseID {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	return member, nil
}

func (s *Store) FindMemberOfUser(_ context.Context, enterpriseID, userID string) (entities.Member, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, member := range s.membersByID {
		if member.EnterpriseID == enterpriseID && member.BelongsTo(userID) {
			return member, true, nil
		}
	}
	return entities.Member{}, false, nil
}

func (s *Store) FindMemberByEmail(_ context.Context, enterpriseID, email string) (entities.Member, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, member := range s.membersByID {
		if member.EnterpriseID == enterpriseID && member.Email == email {
			return member, true, nil
		}
	}
	return entities.Member{}, false, nil
}

func (s *Store) ListMembers(_ context.Context, enterpriseID string, filter ports.MemberFilter) ([]entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Member
	for _, member := range s.membersByID {
		if member.EnterpriseID != enterpriseID {
			continue
		}
		if !matchesFilter(member, filter) {
			continue
		}
		items = append(items, member)
	}
	return items, nil
}

func (s *Store) ListMembershipsOfUser(_ context.Context, userID string) ([]entities.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Member
	for _, member := range s.membersByID {
		if member.BelongsTo(userID) {
			items = append(items, member)
		}
	}
	return items, nil
}

func (s *Store) CountActivatedMembers(_ context.Context, enterpriseID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, member := range s.membersByID {
		if member.EnterpriseID == enterpriseID && member.Billable() {
			count++
		}
	}
	return count, nil
}

func (s *Store) InsertMember(_ context.Context, member entities.Member) (entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.membersByID {
		if existing.EnterpriseID != member.EnterpriseID {
			continue
		}
		if member.UserID != nil && existing.BelongsTo(*member.UserID) && existing.Role == member.Role {
			return entities.Member{}, domainerrors.ErrMemberAlreadyExists
		}
		if member.UserID == nil && existing.UserID == nil && existing.Email == member.Email {
			return entities.Member{}, domainerrors.ErrMemberAlreadyExists
		}
		if member.IsPrimary && existing.IsPrimary {
			return entities.Member{}, domainerrors.ErrMemberAlreadyExists
		}
	}
	s.membersByID[member.MemberID] = member
	return member, nil
}

func (s *Store) SaveMember(_ context.Context, member entities.Member) (entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.membersByID[member.MemberID]; !ok {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	s.membersByID[member.MemberID] = member
	return member, nil
}

func (s *Store) DeleteMember(_ context.Context, enterpriseID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.membersByID[memberID]
	if !ok || member.EnterpriseID != enterpriseID {
		return domainerrors.ErrMemberNotFound
	}
	delete(s.membersByID, memberID)
	return nil
}

// GroupDirectory implementation.

func (s *Store) ListUserGroupIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.groupsByUser[userID]...), nil
}

func (s *Store) RemoveUserFromGroups(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groupsByUser, userID)
	return nil
}

// SeedGroupMembership is a test helper.
func (s *Store) SeedGroupMembership(userID string, groupIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupsByUser[userID] = append(s.groupsByUser[userID], groupIDs...)
}

// DomainDirectory implementation.

func (s *Store) GetDomain(_ context.Context, domainID string) (ports.DomainInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.domainsByID[domainID]
	if !ok {
		return ports.DomainInfo{}, domainerrors.ErrInvalidRequest
	}
	return info, nil
}

// SeedDomain is a test helper.
func (s *Store) SeedDomain(info ports.DomainInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domainsByID[info.DomainID] = info
}

// SeatLedger implementation.

func (s *Store) RecordSeatChange(_ context.Context, change ports.SeatChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seatChanges = append(s.seatChanges, change)
	return nil
}

// SeatChanges returns recorded seat intents for test assertions.
func (s *Store) SeatChanges() []ports.SeatChange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.SeatChange(nil), s.seatChanges...)
}

// UserDirectory implementation.

func (s *Store) GetOrCreateUser(_ context.Context, userID, email string) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.usersByID[userID]; ok {
		return user, nil
	}
	user := ports.User{UserID: userID, Email: email}
	s.usersByID[userID] = user
	return user, nil
}

func (s *Store) ListUsers(_ context.Context, userIDs []string) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []ports.User
	for _, id := range userIDs {
		if user, ok := s.usersByID[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

// AuditSink implementation.

func (s *Store) Append(_ context.Context, event events.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditEvents = append(s.auditEvents, event)
	return nil
}

// AuditEvents returns appended events for test assertions.
func (s *Store) AuditEvents() []events.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.AuditEvent(nil), s.auditEvents...)
}

// NotificationDispatcher implementation.

func (s *Store) Send(_ context.Context, job string, recipients []string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Job: job, Recipients: recipients, Data: data})
	return nil
}

// Notices returns dispatched notifications for test assertions.
func (s *Store) Notices() []Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notice(nil), s.notices...)
}

// IdempotencyStore implementation.

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.idempotency[key]
	if !ok || now.After(record.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[record.Key] = record
	return nil
}

func matchesFilter(member entities.Member, filter ports.MemberFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if member.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.DomainID != nil {
		if member.DomainID == nil || *member.DomainID != *filter.DomainID {
			return false
		}
	}
	if filter.Activated != nil && member.IsActivated != *filter.Activated {
		return false
	}
	return true
}
