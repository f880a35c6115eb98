package entities

import "time"

// MemberRole is the enterprise-side role with strict precedence.
type MemberRole string

const (
	RolePrimaryAdmin MemberRole = "primary_admin"
	RoleAdmin        MemberRole = "admin"
	RoleMember       MemberRole = "member"
)

var roleRank = map[MemberRole]int{
	RoleMember:       0,
	RoleAdmin:        1,
	RolePrimaryAdmin: 2,
}

func (r MemberRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r sits at or above min in the role hierarchy.
func (r MemberRole) AtLeast(min MemberRole) bool {
	return roleRank[r] >= roleRank[min]
}

// MemberStatus is the membership lifecycle state. Activation is orthogonal
// and only gates billing.
type MemberStatus string

const (
	StatusInvited   MemberStatus = "invited"
	StatusRequested MemberStatus = "requested"
	StatusConfirmed MemberStatus = "confirmed"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case StatusInvited, StatusRequested, StatusConfirmed:
		return true
	default:
		return false
	}
}

// Member is one enterprise membership record. UserID stays nil for an
// email-only invite until the invite is claimed.
type Member struct {
	MemberID        string       `json:"member_id"`
	EnterpriseID    string       `json:"enterprise_id"`
	UserID          *string      `json:"user_id,omitempty"`
	Email           string       `json:"email,omitempty"`
	Role            MemberRole   `json:"role"`
	Status          MemberStatus `json:"status"`
	IsActivated     bool         `json:"is_activated"`
	IsPrimary       bool         `json:"is_primary"`
	IsDefault       bool         `json:"is_default"`
	DomainID        *string      `json:"domain_id,omitempty"`
	InvitationToken string       `json:"invitation_token,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// BelongsTo reports whether the membership is bound to the given user.
func (m Member) BelongsTo(userID string) bool {
	return m.UserID != nil && *m.UserID == userID
}

// DomainBound reports whether the membership was created via domain auto-join.
func (m Member) DomainBound() bool {
	return m.DomainID != nil && *m.DomainID != ""
}

// Billable reports whether the membership currently occupies a paid seat.
func (m Member) Billable() bool {
	return m.Status == StatusConfirmed && m.IsActivated
}
