package httptransport

import "time"

type PolicyResponse struct {
	PolicyID     string         `json:"policy_id"`
	EnterpriseID string         `json:"enterprise_id"`
	Kind         string         `json:"kind"`
	Enabled      bool           `json:"enabled"`
	Config       map[string]any `json:"config"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type ListPoliciesResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

type UpdatePolicyRequest struct {
	Enabled bool           `json:"enabled"`
	Config  map[string]any `json:"config,omitempty"`
}

type EffectiveLockoutResponse struct {
	Enabled              bool `json:"enabled"`
	FailedLoginAttempts  int  `json:"failed_login_attempts,omitempty"`
	FailedLoginDuration  int  `json:"failed_login_duration,omitempty"`
	FailedLoginBlockTime int  `json:"failed_login_block_time,omitempty"`
	NotifyOwner          bool `json:"is_notify,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
