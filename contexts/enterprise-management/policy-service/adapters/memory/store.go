package memory

import (
	"context"
	"sync"
	"time"

	domainerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	"locker/contexts/enterprise-management/policy-service/domain/entities"
	"locker/contexts/enterprise-management/policy-service/ports"
)

// Store is the in-memory reference implementation of the policy ports.
type Store struct {
	mu sync.RWMutex

	policiesByID      map[string]entities.Policy
	membershipsByUser map[string][]ports.MembershipView

	cache          map[string][]entities.Policy
	cacheExpiresAt map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		policiesByID:      make(map[string]entities.Policy),
		membershipsByUser: make(map[string][]ports.MembershipView),
		cache:             make(map[string][]entities.Policy),
		cacheExpiresAt:    make(map[string]time.Time),
	}
}

func (s *Store) ListPolicies(_ context.Context, enterpriseID string) ([]entities.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Policy
	for _, policy := range s.policiesByID {
		if policy.EnterpriseID == enterpriseID {
			items = append(items, policy)
		}
	}
	return items, nil
}

func (s *Store) GetPolicy(_ context.Context, enterpriseID string, kind entities.PolicyKind) (entities.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, policy := range s.policiesByID {
		if policy.EnterpriseID == enterpriseID && policy.Kind == kind {
			return policy, nil
		}
	}
	return entities.Policy{}, domainerrors.ErrPolicyNotFound
}

func (s *Store) InsertPolicy(_ context.Context, policy entities.Policy) (entities.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.policiesByID {
		if existing.EnterpriseID == policy.EnterpriseID && existing.Kind == policy.Kind {
			return entities.Policy{}, domainerrors.ErrInvalidRequest
		}
	}
	s.policiesByID[policy.PolicyID] = policy
	return policy, nil
}

func (s *Store) SavePolicy(_ context.Context, policy entities.Policy) (entities.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policiesByID[policy.PolicyID]; !ok {
		return entities.Policy{}, domainerrors.ErrPolicyNotFound
	}
	s.policiesByID[policy.PolicyID] = policy
	return policy, nil
}

// MemberDirectory implementation.

func (s *Store) ListConfirmedMemberships(_ context.Context, userID string) ([]ports.MembershipView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.MembershipView(nil), s.membershipsByUser[userID]...), nil
}

// SeedMembership is a test helper.
func (s *Store) SeedMembership(userID string, view ports.MembershipView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membershipsByUser[userID] = append(s.membershipsByUser[userID], view)
}

// PolicyCache implementation.

func (s *Store) Get(_ context.Context, enterpriseID string, now time.Time) ([]entities.Policy, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expiresAt, ok := s.cacheExpiresAt[enterpriseID]
	if !ok || now.After(expiresAt) {
		return nil, false, nil
	}
	return append([]entities.Policy(nil), s.cache[enterpriseID]...), true, nil
}

func (s *Store) Set(_ context.Context, enterpriseID string, policies []entities.Policy, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[enterpriseID] = append([]entities.Policy(nil), policies...)
	s.cacheExpiresAt[enterpriseID] = expiresAt
	return nil
}

func (s *Store) Invalidate(_ context.Context, enterpriseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, enterpriseID)
	delete(s.cacheExpiresAt, enterpriseID)
	return nil
}
