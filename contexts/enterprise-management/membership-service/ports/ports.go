package ports

import (
	"context"
	"time"

	"locker/contexts/enterprise-management/membership-service/domain/entities"
	"locker/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for member/enterprise rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// CreateEnterpriseInput carries the billing-address fields of a new tenant.
type CreateEnterpriseInput struct {
	Name                 string
	Description          string
	Email                string
	Phone                string
	Country              string
	Address              string
	InitSeats            int
	InitSeatsExpiredTime *time.Time
}

// CreateMemberInput creates a membership by invite or domain auto-join.
type CreateMemberInput struct {
	UserID   *string
	Email    string
	Role     entities.MemberRole
	Status   entities.MemberStatus
	DomainID *string
}

// UpdateMemberInput carries optional role/status changes.
type UpdateMemberInput struct {
	Role   *entities.MemberRole
	Status *entities.MemberStatus
}

// MemberFilter narrows ListMembers results.
type MemberFilter struct {
	Statuses  []entities.MemberStatus
	DomainID  *string
	Activated *bool
}

// Repository is the write/read boundary for enterprise membership state.
type Repository interface {
	CreateEnterprise(ctx context.Context, enterprise entities.Enterprise, primary entities.Member) (entities.Enterprise, error)
	GetEnterprise(ctx context.Context, enterpriseID string) (entities.Enterprise, error)

	GetMember(ctx context.Context, enterpriseID, memberID string) (entities.Member, error)
	FindMemberOfUser(ctx context.Context, enterpriseID, userID string) (entities.Member, bool, error)
	FindMemberByEmail(ctx context.Context, enterpriseID, email string) (entities.Member, bool, error)
	ListMembers(ctx context.Context, enterpriseID string, filter MemberFilter) ([]entities.Member, error)
	ListMembershipsOfUser(ctx context.Context, userID string) ([]entities.Member, error)
	CountActivatedMembers(ctx context.Context, enterpriseID string) (int, error)

	InsertMember(ctx context.Context, member entities.Member) (entities.Member, error)
	SaveMember(ctx context.Context, member entities.Member) (entities.Member, error)
	DeleteMember(ctx context.Context, enterpriseID, memberID string) error
}

// GroupDirectory exposes the vault-side group memberships of a user.
// Deactivation must strip the user from every group.
type GroupDirectory interface {
	ListUserGroupIDs(ctx context.Context, userID string) ([]string, error)
	RemoveUserFromGroups(ctx context.Context, userID string) error
}

// DomainInfo is the read-only projection of a verified-domain row needed by
// invitation resolution. No cross-context writes happen through it.
type DomainInfo struct {
	DomainID     string
	EnterpriseID string
	Domain       string
	Verified     bool
	AutoApprove  bool
}

// DomainDirectory resolves domain-bound memberships to their domain.
type DomainDirectory interface {
	GetDomain(ctx context.Context, domainID string) (DomainInfo, error)
}

// SeatChange is the billing intent emitted for every billable-count mutation.
type SeatChange struct {
	EnterpriseID string
	MemberID     string
	Change       int
	Reason       string
	OccurredAt   time.Time
}

// SeatLedger records seat-delta intents consumed by billing reconciliation.
// Recording is best-effort from the caller's point of view: a failure is
// logged and never rolls back the membership mutation.
type SeatLedger interface {
	RecordSeatChange(ctx context.Context, change SeatChange) error
}

// User is the directory projection used when claiming invites.
type User struct {
	UserID           string
	Email            string
	TwoFactorEnabled bool
}

// UserDirectory is the external identity collaborator.
type UserDirectory interface {
	GetOrCreateUser(ctx context.Context, userID, email string) (User, error)
	ListUsers(ctx context.Context, userIDs []string) ([]User, error)
}

// InvitationClaims is the signed payload of an invitation token.
type InvitationClaims struct {
	MemberID     string
	EnterpriseID string
	Email        string
}

// InvitationTokens mints and verifies invitation tokens.
type InvitationTokens interface {
	Sign(claims InvitationClaims) (string, error)
	Parse(token string) (InvitationClaims, error)
}

// AuditSink appends membership audit events, at-least-once, fire-and-forget.
type AuditSink interface {
	Append(ctx context.Context, event events.AuditEvent) error
}

// NotificationDispatcher sends templated notifications, fire-and-forget.
type NotificationDispatcher interface {
	Send(ctx context.Context, job string, recipients []string, data map[string]any) error
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for mutating operations.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}
