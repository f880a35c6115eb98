package httptransport

import "time"

type CreateDomainRequest struct {
	Domain string `json:"domain"`
}

type SetAutoApproveRequest struct {
	AutoApprove bool `json:"auto_approve"`
}

type ChallengeResponse struct {
	OwnershipID string     `json:"ownership_id"`
	RecordType  string     `json:"record_type"`
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Verified    bool       `json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

type DomainResponse struct {
	DomainID     string    `json:"domain_id"`
	EnterpriseID string    `json:"enterprise_id"`
	Domain       string    `json:"domain"`
	RootDomain   string    `json:"root_domain"`
	Verification bool      `json:"verification"`
	AutoApprove  bool      `json:"auto_approve"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateDomainResponse struct {
	Domain     DomainResponse      `json:"domain"`
	Challenges []ChallengeResponse `json:"challenges"`
}

type ListDomainsResponse struct {
	Domains []DomainResponse `json:"domains"`
}

type AutoApproveResponse struct {
	Confirmed int `json:"confirmed"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
