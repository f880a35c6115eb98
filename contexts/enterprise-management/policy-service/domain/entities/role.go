package entities

// MemberRole mirrors the enterprise role precedence used by scope gates.
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
