package entities

import "time"

// PolicyKind identifies one of the five enterprise-wide policy types.
type PolicyKind string

const (
	KindPasswordRequirement       PolicyKind = "password_requirement"
	KindMasterPasswordRequirement PolicyKind = "master_password_requirement"
	KindBlockFailedLogin          PolicyKind = "block_failed_login"
	KindPasswordless              PolicyKind = "passwordless"
	KindTwoFactor                 PolicyKind = "two_factor"
)

// AllKinds is the full policy-type set, used for lazy default creation.
var AllKinds = []PolicyKind{
	KindPasswordRequirement,
	KindMasterPasswordRequirement,
	KindBlockFailedLogin,
	KindPasswordless,
	KindTwoFactor,
}

func (k PolicyKind) Valid() bool {
	switch k {
	case KindPasswordRequirement, KindMasterPasswordRequirement,
		KindBlockFailedLogin, KindPasswordless, KindTwoFactor:
		return true
	default:
		return false
	}
}

// PasswordRequirementConfig governs password and master-password strength.
type PasswordRequirementConfig struct {
	MinLength      int  `json:"min_length"`
	RequireLower   bool `json:"require_lower_case"`
	RequireUpper   bool `json:"require_upper_case"`
	RequireSpecial bool `json:"require_special_character"`
	RequireDigit   bool `json:"require_digit"`
}

// BlockFailedLoginConfig governs lockout after repeated failed logins.
// Duration and block time are in seconds.
type BlockFailedLoginConfig struct {
	FailedLoginAttempts  int  `json:"failed_login_attempts"`
	FailedLoginDuration  int  `json:"failed_login_duration"`
	FailedLoginBlockTime int  `json:"failed_login_block_time"`
	NotifyOwner          bool `json:"is_notify"`
}

// Rate is attempts per second of observation window; the smallest rate is
// the most permissive policy.
func (c BlockFailedLoginConfig) Rate() float64 {
	if c.FailedLoginDuration <= 0 {
		return 0
	}
	return float64(c.FailedLoginAttempts) / float64(c.FailedLoginDuration)
}

// PasswordlessConfig restricts sign-in to passwordless methods.
type PasswordlessConfig struct {
	OnlyAllowPasswordless bool `json:"only_allow_passwordless"`
}

// TwoFactorConfig requires 2FA; when OnlyAdmin is set the requirement applies
// to admin-level members only.
type TwoFactorConfig struct {
	OnlyAdmin bool `json:"only_admin"`
}

// Policy is one (enterprise, kind) row. Exactly the config matching Kind is
// non-nil.
type Policy struct {
	PolicyID     string     `json:"policy_id"`
	EnterpriseID string     `json:"enterprise_id"`
	Kind         PolicyKind `json:"kind"`
	Enabled      bool       `json:"enabled"`

	PasswordRequirement *PasswordRequirementConfig `json:"password_requirement,omitempty"`
	BlockFailedLogin    *BlockFailedLoginConfig    `json:"block_failed_login,omitempty"`
	Passwordless        *PasswordlessConfig        `json:"passwordless,omitempty"`
	TwoFactor           *TwoFactorConfig           `json:"two_factor,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultPolicy returns the disabled default row for a kind.
func DefaultPolicy(enterpriseID string, kind PolicyKind) Policy {
	policy := Policy{
		EnterpriseID: enterpriseID,
		Kind:         kind,
		Enabled:      false,
	}
	switch kind {
	case KindPasswordRequirement, KindMasterPasswordRequirement:
		policy.PasswordRequirement = &PasswordRequirementConfig{MinLength: 8}
	case KindBlockFailedLogin:
		policy.BlockFailedLogin = &BlockFailedLoginConfig{
			FailedLoginAttempts:  10,
			FailedLoginDuration:  600,
			FailedLoginBlockTime: 900,
		}
	case KindPasswordless:
		policy.Passwordless = &PasswordlessConfig{}
	case KindTwoFactor:
		policy.TwoFactor = &TwoFactorConfig{}
	}
	return policy
}
