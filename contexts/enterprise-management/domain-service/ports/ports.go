package ports

import (
	"context"
	"time"

	"locker/contexts/enterprise-management/domain-service/domain/entities"
	"locker/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for domain rows and challenge tokens.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository is the storage boundary for domains and ownership challenges.
type Repository interface {
	GetDomain(ctx context.Context, domainID string) (entities.Domain, error)
	FindDomainByName(ctx context.Context, enterpriseID, domain string) (entities.Domain, bool, error)
	ListDomains(ctx context.Context, enterpriseID string) ([]entities.Domain, error)
	ListUnverifiedDomains(ctx context.Context) ([]entities.Domain, error)
	ListVerifiedAutoApproveDomains(ctx context.Context) ([]entities.Domain, error)
	// RootDomainVerifiedBy returns the enterprise currently holding a
	// verified claim on the root domain, if any.
	RootDomainVerifiedBy(ctx context.Context, rootDomain string) (string, bool, error)
	RootDomainVerifiedInEnterprise(ctx context.Context, enterpriseID, rootDomain string) (bool, error)

	InsertDomain(ctx context.Context, domain entities.Domain, challenges []entities.OwnershipChallenge) (entities.Domain, error)
	SaveDomain(ctx context.Context, domain entities.Domain) (entities.Domain, error)
	DeleteDomain(ctx context.Context, domainID string) error

	ListChallenges(ctx context.Context, domainID string) ([]entities.OwnershipChallenge, error)
	MarkChallengeVerified(ctx context.Context, ownershipID string, verifiedAt time.Time) error
}

// DNSResolver is the external lookup collaborator. recordType is "TXT" or
// "CNAME"; results are the record values found at name.
type DNSResolver interface {
	Lookup(ctx context.Context, name, recordType string) ([]string, error)
}

// PendingMember is a REQUESTED membership bound to a domain.
type PendingMember struct {
	MemberID string
	UserID   string
	Email    string
}

// MemberAdmission is the cross-context boundary into membership state used
// by auto-join. ConfirmRequested bulk-transitions every REQUESTED member of
// the domain to CONFIRMED and returns how many changed.
type MemberAdmission interface {
	ListRequestedMembers(ctx context.Context, enterpriseID, domainID string) ([]PendingMember, error)
	ConfirmRequestedMembers(ctx context.Context, enterpriseID, domainID string) (int, error)
	DeactivateDomainMembers(ctx context.Context, enterpriseID, domainID string) (int, error)
}

// SeatRequester asks billing for a seat increase ahead of a bulk admission.
// Calls are best-effort: failures are logged by the caller and never block
// the membership transition.
type SeatRequester interface {
	RequestSeatIncrease(ctx context.Context, enterpriseID string, count int) error
}

// AuditSink appends domain audit events, at-least-once, fire-and-forget.
type AuditSink interface {
	Append(ctx context.Context, event events.AuditEvent) error
}

// NotificationDispatcher sends templated notifications, fire-and-forget.
type NotificationDispatcher interface {
	Send(ctx context.Context, job string, recipients []string, data map[string]any) error
}
