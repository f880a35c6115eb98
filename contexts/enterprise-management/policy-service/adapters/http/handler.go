package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"locker/contexts/enterprise-management/policy-service/application"
	domainerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	"locker/contexts/enterprise-management/policy-service/domain/entities"
	"locker/contexts/enterprise-management/policy-service/ports"
	httptransport "locker/contexts/enterprise-management/policy-service/transport/http"
)

// Handler maps HTTP DTOs to policy application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListPoliciesHandler(ctx context.Context, enterpriseID string) (httptransport.ListPoliciesResponse, error) {
	policies, err := h.Service.ListPolicies(ctx, enterpriseID)
	if err != nil {
		return httptransport.ListPoliciesResponse{}, err
	}
	response := httptransport.ListPoliciesResponse{Policies: make([]httptransport.PolicyResponse, 0, len(policies))}
	for _, policy := range policies {
		dto, err := policyResponse(policy)
		if err != nil {
			return httptransport.ListPoliciesResponse{}, err
		}
		response.Policies = append(response.Policies, dto)
	}
	return response, nil
}

func (h Handler) GetPolicyHandler(ctx context.Context, enterpriseID, kind string) (httptransport.PolicyResponse, error) {
	policy, err := h.Service.GetPolicy(ctx, enterpriseID, entities.PolicyKind(kind))
	if err != nil {
		return httptransport.PolicyResponse{}, err
	}
	return policyResponse(policy)
}

func (h Handler) UpdatePolicyHandler(
	ctx context.Context,
	actorRole string,
	enterpriseID string,
	kind string,
	request httptransport.UpdatePolicyRequest,
) (httptransport.PolicyResponse, error) {
	input, err := updateInput(entities.PolicyKind(kind), request)
	if err != nil {
		return httptransport.PolicyResponse{}, err
	}
	policy, err := h.Service.UpdatePolicy(ctx, entities.MemberRole(actorRole), enterpriseID, entities.PolicyKind(kind), input)
	if err != nil {
		return httptransport.PolicyResponse{}, err
	}
	return policyResponse(policy)
}

func (h Handler) EffectiveLockoutHandler(ctx context.Context, userID string) (httptransport.EffectiveLockoutResponse, error) {
	config, enabled, err := h.Service.EffectiveBlockFailedLogin(ctx, userID)
	if err != nil {
		return httptransport.EffectiveLockoutResponse{}, err
	}
	if !enabled {
		return httptransport.EffectiveLockoutResponse{}, nil
	}
	return httptransport.EffectiveLockoutResponse{
		Enabled:              true,
		FailedLoginAttempts:  config.FailedLoginAttempts,
		FailedLoginDuration:  config.FailedLoginDuration,
		FailedLoginBlockTime: config.FailedLoginBlockTime,
		NotifyOwner:          config.NotifyOwner,
	}, nil
}

func updateInput(kind entities.PolicyKind, request httptransport.UpdatePolicyRequest) (ports.UpdatePolicyInput, error) {
	input := ports.UpdatePolicyInput{Enabled: request.Enabled}
	if request.Config == nil {
		return input, nil
	}
	raw, err := json.Marshal(request.Config)
	if err != nil {
		return ports.UpdatePolicyInput{}, domainerrors.ErrInvalidRequest
	}
	switch kind {
	case entities.KindPasswordRequirement, entities.KindMasterPasswordRequirement:
		var config entities.PasswordRequirementConfig
		if err := json.Unmarshal(raw, &config); err != nil {
			return ports.UpdatePolicyInput{}, domainerrors.ErrInvalidRequest
		}
		input.PasswordRequirement = &config
	case entities.KindBlockFailedLogin:
		var config entities.BlockFailedLoginConfig
		if err := json.Unmarshal(raw, &config); err != nil {
			return ports.UpdatePolicyInput{}, domainerrors.ErrInvalidRequest
		}
		input.BlockFailedLogin = &config
	case entities.KindPasswordless:
		var config entities.PasswordlessConfig
		if err := json.Unmarshal(raw, &config); err != nil {
			return ports.UpdatePolicyInput{}, domainerrors.ErrInvalidRequest
		}
		input.Passwordless = &config
	case entities.KindTwoFactor:
		var config entities.TwoFactorConfig
		if err := json.Unmarshal(raw, &config); err != nil {
			return ports.UpdatePolicyInput{}, domainerrors.ErrInvalidRequest
		}
		input.TwoFactor = &config
	default:
		return ports.UpdatePolicyInput{}, domainerrors.ErrInvalidRequest
	}
	return input, nil
}

func policyResponse(policy entities.Policy) (httptransport.PolicyResponse, error) {
	var source any
	switch policy.Kind {
	case entities.KindPasswordRequirement, entities.KindMasterPasswordRequirement:
		source = policy.PasswordRequirement
	case entities.KindBlockFailedLogin:
		source = policy.BlockFailedLogin
	case entities.KindPasswordless:
		source = policy.Passwordless
	case entities.KindTwoFactor:
		source = policy.TwoFactor
	}
	raw, err := json.Marshal(source)
	if err != nil {
		return httptransport.PolicyResponse{}, err
	}
	var config map[string]any
	if err := json.Unmarshal(raw, &config); err != nil {
		return httptransport.PolicyResponse{}, err
	}
	return httptransport.PolicyResponse{
		PolicyID:     policy.PolicyID,
		EnterpriseID: policy.EnterpriseID,
		Kind:         string(policy.Kind),
		Enabled:      policy.Enabled,
		Config:       config,
		UpdatedAt:    policy.UpdatedAt,
	}, nil
}
