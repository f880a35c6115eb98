package entities

import (
	"strings"
	"time"
)

// Domain is a claimed email domain of an enterprise. Verification flips to
// true once any ownership challenge is satisfied; a root domain may be
// verified by at most one enterprise at a time.
type Domain struct {
	DomainID       string    `json:"domain_id"`
	EnterpriseID   string    `json:"enterprise_id"`
	Domain         string    `json:"domain"`
	RootDomain     string    `json:"root_domain"`
	Verification   bool      `json:"verification"`
	AutoApprove    bool      `json:"auto_approve"`
	IsNotifyFailed bool      `json:"is_notify_failed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OwnershipChallenge is one DNS record the enterprise must publish to prove
// control of the domain. Challenges verify independently.
type OwnershipChallenge struct {
	OwnershipID string     `json:"ownership_id"`
	DomainID    string     `json:"domain_id"`
	RecordType  string     `json:"record_type"`
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Verified    bool       `json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

// RootDomainOf strips subdomain labels down to the registrable root. Multi-
// label public suffixes (co.uk style) are folded by keeping three labels
// when the second-level label is a well-known suffix part.
func RootDomainOf(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(domain, ".")))
	labels := strings.Split(domain, ".")
	if len(labels) <= 2 {
		return domain
	}
	secondLevel := labels[len(labels)-2]
	switch secondLevel {
	case "co", "com", "net", "org", "gov", "edu", "ac":
		if len(labels) >= 3 {
			return strings.Join(labels[len(labels)-3:], ".")
		}
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
