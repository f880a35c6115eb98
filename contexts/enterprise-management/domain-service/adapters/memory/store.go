package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"locker/contexts/enterprise-management/domain-service/domain/entities"
	domainerrors "locker/contexts/enterprise-management/domain-service/domain/errors"
	"locker/contexts/enterprise-management/domain-service/ports"
	"locker/internal/shared/events"
)

// Store is the in-memory reference implementation of the domain ports. The
// embedded fake DNS zone lets tests publish challenge records.
type Store struct {
	mu sync.RWMutex

	domainsByID    map[string]entities.Domain
	challengesByID map[string]entities.OwnershipChallenge

	zone map[string][]string

	requestedByDomain map[string][]ports.PendingMember
	confirmedCounts   map[string]int
	seatRequests      []SeatRequest

	auditEvents []events.AuditEvent
	notices     []Notice
}

// SeatRequest captures a best-effort seat increase for test assertions.
type SeatRequest struct {
	EnterpriseID string
	Count        int
}

// Notice captures a dispatched notification for test assertions.
type Notice struct {
	Job        string
	Recipients []string
	Data       map[string]any
}

func NewStore() *Store {
	return &Store{
		domainsByID:       make(map[string]entities.Domain),
		challengesByID:    make(map[string]entities.OwnershipChallenge),
		zone:              make(map[string][]string),
		requestedByDomain: make(map[string][]ports.PendingMember),
		confirmedCounts:   make(map[string]int),
	}
}

func (s *Store) GetDomain(_ context.Context, domainID string) (entities.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	domain, ok := s.domainsByID[domainID]
	if !ok {
		return entities.Domain{}, domainerrors.ErrDomainNotFound
	}
	return domain, nil
}

func (s *Store) FindDomainByName(_ context.Context, enterpriseID, domain string) (entities.Domain, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.domainsByID {
		if row.EnterpriseID == enterpriseID && row.Domain == domain {
			return row, true, nil
		}
	}
	return entities.Domain{}, false, nil
}

func (s *Store) ListDomains(_ context.Context, enterpriseID string) ([]entities.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Domain
	for _, row := range s.domainsByID {
		if row.EnterpriseID == enterpriseID {
			items = append(items, row)
		}
	}
	return items, nil
}

func (s *Store) ListUnverifiedDomains(_ context.Context) ([]entities.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Domain
	for _, row := range s.domainsByID {
		if !row.Verification {
			items = append(items, row)
		}
	}
	return items, nil
}

func (s *Store) ListVerifiedAutoApproveDomains(_ context.Context) ([]entities.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Domain
	for _, row := range s.domainsByID {
		if row.Verification && row.AutoApprove {
			items = append(items, row)
		}
	}
	return items, nil
}

func (s *Store) RootDomainVerifiedBy(_ context.Context, rootDomain string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.domainsByID {
		if row.RootDomain == rootDomain && row.Verification {
			return row.EnterpriseID, true, nil
		}
	}
	return "", false, nil
}

func (s *Store) RootDomainVerifiedInEnterprise(_ context.Context, enterpriseID, rootDomain string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.domainsByID {
		if row.EnterpriseID == enterpriseID && row.RootDomain == rootDomain && row.Verification {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertDomain(_ context.Context, domain entities.Domain, challenges []entities.OwnershipChallenge) (entities.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.domainsByID {
		if row.EnterpriseID == domain.EnterpriseID && row.Domain == domain.Domain {
			return entities.Domain{}, domainerrors.ErrDomainAlreadyExists
		}
	}
	s.domainsByID[domain.DomainID] = domain
	for _, challenge := range challenges {
		s.challengesByID[challenge.OwnershipID] = challenge
	}
	return domain, nil
}

func (s *Store) SaveDomain(_ context.Context, domain entities.Domain) (entities.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domainsByID[domain.DomainID]; !ok {
		return entities.Domain{}, domainerrors.ErrDomainNotFound
	}
	s.domainsByID[domain.DomainID] = domain
	return domain, nil
}

func (s *Store) DeleteDomain(_ context.Context, domainID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domainsByID[domainID]; !ok {
		return domainerrors.ErrDomainNotFound
	}
	delete(s.domainsByID, domainID)
	for id, challenge := range s.challengesByID {
		if challenge.DomainID == domainID {
			delete(s.challengesByID, id)
		}
	}
	return nil
}

func (s *Store) ListChallenges(_ context.Context, domainID string) ([]entities.OwnershipChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.OwnershipChallenge
	for _, challenge := range s.challengesByID {
		if challenge.DomainID == domainID {
			items = append(items, challenge)
		}
	}
	return items, nil
}

func (s *Store) MarkChallengeVerified(_ context.Context, ownershipID string, verifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challengesByID[ownershipID]
	if !ok {
		return domainerrors.ErrDomainNotFound
	}
	challenge.Verified = true
	challenge.VerifiedAt = &verifiedAt
	s.challengesByID[ownershipID] = challenge
	return nil
}

// DNSResolver implementation backed by the fake zone.

func (s *Store) Lookup(_ context.Context, name, _ string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.zone[strings.ToLower(name)]
	if !ok {
		return nil, &notFoundError{name: name}
	}
	return append([]string(nil), values...), nil
}

type notFoundError struct{ name string }

func (e *notFoundError) Error() string { return "no such host: " + e.name }

// PublishRecord seeds the fake DNS zone.
func (s *Store) PublishRecord(name string, values ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zone[strings.ToLower(name)] = append(s.zone[strings.ToLower(name)], values...)
}

// MemberAdmission implementation.

func (s *Store) ListRequestedMembers(_ context.Context, _ string, domainID string) ([]ports.PendingMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.PendingMember(nil), s.requestedByDomain[domainID]...), nil
}

func (s *Store) ConfirmRequestedMembers(_ context.Context, _ string, domainID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.requestedByDomain[domainID])
	delete(s.requestedByDomain, domainID)
	s.confirmedCounts[domainID] += count
	return count, nil
}

func (s *Store) DeactivateDomainMembers(_ context.Context, _ string, domainID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := s.confirmedCounts[domainID]
	delete(s.confirmedCounts, domainID)
	return count, nil
}

// SeedRequestedMember is a test helper.
func (s *Store) SeedRequestedMember(domainID string, member ports.PendingMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestedByDomain[domainID] = append(s.requestedByDomain[domainID], member)
}

// SeatRequester implementation.

func (s *Store) RequestSeatIncrease(_ context.Context, enterpriseID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seatRequests = append(s.seatRequests, SeatRequest{EnterpriseID: enterpriseID, Count: count})
	return nil
}

// SeatRequests returns recorded seat increases for test assertions.
func (s *Store) SeatRequests() []SeatRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SeatRequest(nil), s.seatRequests...)
}

// AuditSink implementation.

func (s *Store) Append(_ context.Context, event events.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditEvents = append(s.auditEvents, event)
	return nil
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
