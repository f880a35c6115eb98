package ports

import (
	"context"
	"time"

	"locker/contexts/enterprise-management/policy-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for lazily created policy rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// UpdatePolicyInput carries an enable toggle plus the kind-specific config.
type UpdatePolicyInput struct {
	Enabled bool

	PasswordRequirement *entities.PasswordRequirementConfig
	BlockFailedLogin    *entities.BlockFailedLoginConfig
	Passwordless        *entities.PasswordlessConfig
	TwoFactor           *entities.TwoFactorConfig
}

// Repository is the storage boundary for policy rows.
type Repository interface {
	ListPolicies(ctx context.Context, enterpriseID string) ([]entities.Policy, error)
	GetPolicy(ctx context.Context, enterpriseID string, kind entities.PolicyKind) (entities.Policy, error)
	InsertPolicy(ctx context.Context, policy entities.Policy) (entities.Policy, error)
	SavePolicy(ctx context.Context, policy entities.Policy) (entities.Policy, error)
}

// MembershipView is the read-only projection of a confirmed enterprise
// membership needed for cross-enterprise policy resolution.
type MembershipView struct {
	EnterpriseID string
	Role         entities.MemberRole
}

// MemberDirectory resolves the confirmed enterprises of a user. Implemented
// against membership-service state; no cross-service writes.
type MemberDirectory interface {
	ListConfirmedMemberships(ctx context.Context, userID string) ([]MembershipView, error)
}

// PolicyCache stores a tenant's policy list with TTL semantics.
type PolicyCache interface {
	Get(ctx context.Context, enterpriseID string, now time.Time) ([]entities.Policy, bool, error)
	Set(ctx context.Context, enterpriseID string, policies []entities.Policy, expiresAt time.Time) error
	Invalidate(ctx context.Context, enterpriseID string) error
}
