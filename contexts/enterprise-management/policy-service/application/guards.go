package application

import (
	"strings"

	domainerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	"locker/contexts/enterprise-management/policy-service/domain/entities"
)

// Actor is the authenticated caller as seen by endpoint guards.
type Actor struct {
	UserID string
	Role   entities.MemberRole
}

// Guard is a composable access predicate evaluated per endpoint.
type Guard func(actor Actor) error

// All combines guards; the first failure wins.
func All(guards ...Guard) Guard {
	return func(actor Actor) error {
		for _, guard := range guards {
			if err := guard(actor); err != nil {
				return err
			}
		}
		return nil
	}
}

// IsAuthenticated requires a bound user id.
func IsAuthenticated() Guard {
	return func(actor Actor) error {
		if strings.TrimSpace(actor.UserID) == "" {
			return domainerrors.ErrForbidden
		}
		return nil
	}
}

// HasRoleAtLeast requires a minimum enterprise role.
func HasRoleAtLeast(min entities.MemberRole) Guard {
	return func(actor Actor) error {
		if !actor.Role.AtLeast(min) {
			return domainerrors.ErrForbidden
		}
		return nil
	}
}

// OwnsResource requires the actor to be the resource owner.
func OwnsResource(ownerUserID string) Guard {
	return func(actor Actor) error {
		if actor.UserID == "" || actor.UserID != ownerUserID {
			return domainerrors.ErrForbidden
		}
		return nil
	}
}

// adminActions are the "{scope}.{action}" pairs that need admin or above.
// Everything not listed only needs confirmed membership.
var adminActions = map[string]struct{}{
	"dashboard": {},
	"update":    {},
	"destroy":   {},
	"billing":   {},
	"import":    {},
	"export":    {},
}

// RequiredRole maps a "{scope}.{action}" gate to its minimum role.
func RequiredRole(scope, action string) entities.MemberRole {
	_ = scope
	if _, ok := adminActions[strings.ToLower(strings.TrimSpace(action))]; ok {
		return entities.RoleAdmin
	}
	return entities.RoleMember
}

// CheckScope evaluates a "{scope}.{action}" gate against a role.
func CheckScope(role entities.MemberRole, scope, action string) bool {
	return role.AtLeast(RequiredRole(scope, action))
}
