// Package authz holds the pure per-request authorization decisions.
// Handlers attach a declarative role set to each protected route and evaluate
// it here; no reflection, no request state.
package authz

import (
	"github.com/S1mon009/auth-service/internal/auth/domain"
)

// Decide maps (required roles, caller) to allow/deny. An empty requirement
// allows everyone; an unauthenticated caller is denied any requirement.
func Decide(required []domain.Role, caller domain.Role, authenticated bool) bool {
	if len(required) == 0 {
		return true
	}

	if !authenticated {
		return false
	}

	for _, role := range required {
		if role == caller {
			return true
		}
	}

	return false
}

// OwnerOrAdmin is the ownership predicate layered on top of role checking for
// self-service endpoints. Kept separate from Decide on purpose.
func OwnerOrAdmin(callerID string, callerRole domain.Role, targetID string) bool {
	return callerRole == domain.RoleAdmin || callerID == targetID
}
