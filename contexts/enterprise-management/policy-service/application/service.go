package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	"locker/contexts/enterprise-management/policy-service/domain/entities"
	"locker/contexts/enterprise-management/policy-service/ports"
)

const moduleName = "enterprise-management/policy-service"

// Service resolves role gates and the five enterprise-wide policy types.
type Service struct {
	Repo        ports.Repository
	Members     ports.MemberDirectory
	Cache       ports.PolicyCache
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	CacheTTL    time.Duration
	Logger      *slog.Logger
}

// ListPolicies returns all five policy rows of an enterprise, lazily
// creating disabled defaults for any kind missing in storage.
func (s Service) ListPolicies(ctx context.Context, enterpriseID string) ([]entities.Policy, error) {
	if strings.TrimSpace(enterpriseID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}

	now := s.now()
	if s.Cache != nil {
		if cached, hit, err := s.Cache.Get(ctx, enterpriseID, now); err == nil && hit {
			return cached, nil
		}
	}

	existing, err := s.Repo.ListPolicies(ctx, enterpriseID)
	if err != nil {
		return nil, err
	}

	byKind := make(map[entities.PolicyKind]entities.Policy, len(existing))
	for _, policy := range existing {
		byKind[policy.Kind] = policy
	}

	policies := make([]entities.Policy, 0, len(entities.AllKinds))
	for _, kind := range entities.AllKinds {
		policy, ok := byKind[kind]
		if !ok {
			policy = entities.DefaultPolicy(enterpriseID, kind)
			policy.UpdatedAt = now
			id, err := s.IDGenerator.NewID(ctx)
			if err != nil {
				return nil, err
			}
			policy.PolicyID = id
			if policy, err = s.Repo.InsertPolicy(ctx, policy); err != nil {
				return nil, err
			}
		}
		policies = append(policies, policy)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, enterpriseID, policies, now.Add(s.cacheTTL())); err != nil {
			ResolveLogger(s.Logger).Warn("policy cache set failed",
				"event", "policy_cache_set_failed",
				"module", moduleName,
				"layer", "application",
				"enterprise_id", enterpriseID,
				"error", err.Error(),
			)
		}
	}
	return policies, nil
}

// GetPolicy returns one policy row, lazily materializing the full set first
// so callers always observe the complete policy list semantics.
func (s Service) GetPolicy(ctx context.Context, enterpriseID string, kind entities.PolicyKind) (entities.Policy, error) {
	if !kind.Valid() {
		return entities.Policy{}, domainerrors.ErrInvalidRequest
	}
	policies, err := s.ListPolicies(ctx, enterpriseID)
	if err != nil {
		return entities.Policy{}, err
	}
	for _, policy := range policies {
		if policy.Kind == kind {
			return policy, nil
		}
	}
	return entities.Policy{}, domainerrors.ErrPolicyNotFound
}

// UpdatePolicy replaces the config of one policy row and invalidates the
// tenant's cached policy list.
func (s Service) UpdatePolicy(
	ctx context.Context,
	actorRole entities.MemberRole,
	enterpriseID string,
	kind entities.PolicyKind,
	input ports.UpdatePolicyInput,
) (entities.Policy, error) {
	if !kind.Valid() || strings.TrimSpace(enterpriseID) == "" {
		return entities.Policy{}, domainerrors.ErrInvalidRequest
	}
	if !actorRole.AtLeast(entities.RoleAdmin) {
		return entities.Policy{}, domainerrors.ErrForbidden
	}

	policy, err := s.GetPolicy(ctx, enterpriseID, kind)
	if err != nil {
		return entities.Policy{}, err
	}

	policy.Enabled = input.Enabled
	switch kind {
	case entities.KindPasswordRequirement, entities.KindMasterPasswordRequirement:
		if input.PasswordRequirement != nil {
			config := *input.PasswordRequirement
			policy.PasswordRequirement = &config
		}
	case entities.KindBlockFailedLogin:
		if input.BlockFailedLogin != nil {
			if input.BlockFailedLogin.FailedLoginAttempts <= 0 || input.BlockFailedLogin.FailedLoginDuration <= 0 {
				return entities.Policy{}, domainerrors.ErrInvalidRequest
			}
			config := *input.BlockFailedLogin
			policy.BlockFailedLogin = &config
		}
	case entities.KindPasswordless:
		if input.Passwordless != nil {
			config := *input.Passwordless
			policy.Passwordless = &config
		}
	case entities.KindTwoFactor:
		if input.TwoFactor != nil {
			config := *input.TwoFactor
			policy.TwoFactor = &config
		}
	}
	policy.UpdatedAt = s.now()

	saved, err := s.Repo.SavePolicy(ctx, policy)
	if err != nil {
		return entities.Policy{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, enterpriseID); err != nil {
			ResolveLogger(s.Logger).Warn("policy cache invalidate failed",
				"event", "policy_cache_invalidate_failed",
				"module", moduleName,
				"layer", "application",
				"enterprise_id", enterpriseID,
				"error", err.Error(),
			)
		}
	}
	return saved, nil
}

// PasswordRequirement returns the typed password-strength config.
func (s Service) PasswordRequirement(ctx context.Context, enterpriseID string) (entities.PasswordRequirementConfig, bool, error) {
	policy, err := s.GetPolicy(ctx, enterpriseID, entities.KindPasswordRequirement)
	if err != nil {
		return entities.PasswordRequirementConfig{}, false, err
	}
	return *policy.PasswordRequirement, policy.Enabled, nil
}

// MasterPasswordRequirement returns the typed master-password config.
func (s Service) MasterPasswordRequirement(ctx context.Context, enterpriseID string) (entities.PasswordRequirementConfig, bool, error) {
	policy, err := s.GetPolicy(ctx, enterpriseID, entities.KindMasterPasswordRequirement)
	if err != nil {
		return entities.PasswordRequirementConfig{}, false, err
	}
	return *policy.PasswordRequirement, policy.Enabled, nil
}

// Passwordless returns the typed passwordless-only config.
func (s Service) Passwordless(ctx context.Context, enterpriseID string) (entities.PasswordlessConfig, bool, error) {
	policy, err := s.GetPolicy(ctx, enterpriseID, entities.KindPasswordless)
	if err != nil {
		return entities.PasswordlessConfig{}, false, err
	}
	return *policy.Passwordless, policy.Enabled, nil
}

// RequiresTwoFactor reports whether the enterprise's 2FA policy applies to a
// member holding the given role.
func (s Service) RequiresTwoFactor(ctx context.Context, enterpriseID string, role entities.MemberRole) (bool, error) {
	policy, err := s.GetPolicy(ctx, enterpriseID, entities.KindTwoFactor)
	if err != nil {
		return false, err
	}
	if !policy.Enabled {
		return false, nil
	}
	if policy.TwoFactor.OnlyAdmin {
		return role.AtLeast(entities.RoleAdmin), nil
	}
	return true, nil
}

// EffectiveBlockFailedLogin resolves the lockout policy governing a user who
// may belong to several enterprises. The most permissive enabled policy wins:
// the one with the smallest attempts/duration rate, first seen on a tie.
func (s Service) EffectiveBlockFailedLogin(ctx context.Context, userID string) (entities.BlockFailedLoginConfig, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return entities.BlockFailedLoginConfig{}, false, domainerrors.ErrInvalidRequest
	}
	memberships, err := s.Members.ListConfirmedMemberships(ctx, userID)
	if err != nil {
		return entities.BlockFailedLoginConfig{}, false, err
	}
	// Stable order so ties break deterministically.
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].EnterpriseID < memberships[j].EnterpriseID
	})

	var selected *entities.BlockFailedLoginConfig
	for _, membership := range memberships {
		policy, err := s.GetPolicy(ctx, membership.EnterpriseID, entities.KindBlockFailedLogin)
		if err != nil {
			return entities.BlockFailedLoginConfig{}, false, err
		}
		if !policy.Enabled || policy.BlockFailedLogin == nil {
			continue
		}
		if selected == nil || policy.BlockFailedLogin.Rate() < selected.Rate() {
			config := *policy.BlockFailedLogin
			selected = &config
		}
	}
	if selected == nil {
		return entities.BlockFailedLoginConfig{}, false, nil
	}
	return *selected, true, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) cacheTTL() time.Duration {
	if s.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return s.CacheTTL
}
