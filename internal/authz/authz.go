// Package authz implements the role-hierarchy guard every usecase runs before
// touching input or storage.
package authz

import "github.com/example/ec-shop-core/internal/apperr"

// Role is a caller capability level.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

// Session is the caller identity supplied by the authentication collaborator.
type Session struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// hierarchy lists, per role, the roles it satisfies. Adding a role means
// adding a row here; call sites stay untouched.
var hierarchy = map[Role][]Role{
	RoleAdmin: {RoleAdmin, RoleBuyer},
	RoleBuyer: {RoleBuyer},
}

// HasRole reports whether the session's role satisfies the required role
// through the hierarchy. A nil session satisfies nothing.
func HasRole(sess *Session, required Role) bool {
	if sess == nil {
		return false
	}
	for _, granted := range hierarchy[sess.Role] {
		if granted == required {
			return true
		}
	}
	return false
}

// IsAdmin is a convenience predicate used by visibility checks.
func IsAdmin(sess *Session) bool {
	return HasRole(sess, RoleAdmin)
}

// Require guards a usecase: the session must satisfy at least one of the
// required roles. A missing session is an authorization failure, not an
// authentication one; verifying credentials happens upstream.
func Require(sess *Session, required ...Role) error {
	if sess == nil {
		return apperr.Unauthorized("authentication required")
	}
	for _, role := range required {
		if HasRole(sess, role) {
			return nil
		}
	}
	return apperr.Forbidden("insufficient permissions")
}
