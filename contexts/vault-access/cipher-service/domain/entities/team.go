package entities

import "time"

// TeamRole orders sharing-team roles by privilege.
type TeamRole string

const (
	TeamRoleOwner   TeamRole = "owner"
	TeamRoleAdmin   TeamRole = "admin"
	TeamRoleManager TeamRole = "manager"
	TeamRoleMember  TeamRole = "member"
)

var teamRoleRank = map[TeamRole]int{
	TeamRoleOwner:   3,
	TeamRoleAdmin:   2,
	TeamRoleManager: 1,
	TeamRoleMember:  0,
}

func (r TeamRole) Valid() bool {
	_, ok := teamRoleRank[r]
	return ok
}

// Administrative reports whether the role carries owner-level write access.
func (r TeamRole) Administrative() bool {
	return r == TeamRoleOwner || r == TeamRoleAdmin
}

// TeamMemberStatus mirrors the membership lifecycle inside a sharing team.
type TeamMemberStatus string

const (
	TeamStatusInvited   TeamMemberStatus = "invited"
	TeamStatusRequested TeamMemberStatus = "requested"
	TeamStatusConfirmed TeamMemberStatus = "confirmed"
)

// Team is the sharing boundary for team-owned ciphers. PersonalShare relaxes
// read access for non-administrative members.
type Team struct {
	TeamID        string    `json:"team_id"`
	Name          string    `json:"name"`
	PersonalShare bool      `json:"personal_share"`
	Locked        bool      `json:"locked"`
	CreatedAt     time.Time `json:"created_at"`
}

// TeamMember is one user's membership within a team.
type TeamMember struct {
	TeamMemberID string           `json:"team_member_id"`
	TeamID       string           `json:"team_id"`
	UserID       string           `json:"user_id"`
	Role         TeamRole         `json:"role"`
	Status       TeamMemberStatus `json:"status"`
}

// Confirmed reports whether the membership grants any access at all.
func (m TeamMember) Confirmed() bool {
	return m.Status == TeamStatusConfirmed
}

// Group bundles team members under a shared role.
type Group struct {
	GroupID   string    `json:"group_id"`
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	Role      TeamRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CollectionAccess is one member's grant on a collection. ReadOnly blocks
// writes through this grant; HidePasswords masks secret fields on read.
type CollectionAccess struct {
	CollectionID  string `json:"collection_id"`
	TeamMemberID  string `json:"team_member_id"`
	ReadOnly      bool   `json:"read_only"`
	HidePasswords bool   `json:"hide_passwords"`
}
