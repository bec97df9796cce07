package utils

import "context"

// Role names carried in sessions and JWT claims.
// models.UserRole stores the same strings.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleTenant = "tenant"
)

// Session is the authenticated caller, resolved once by middleware and
// carried in the request context. No ambient globals.
type Session struct {
	UserId   int
	Username string
	Role     string
}

// Authorize is the whole access gate: nil session fails as unauthorized,
// a known-but-insufficient role fails as forbidden. Admin passes every check.
func Authorize(sess *Session, requiredRole string) error {
	if sess == nil || sess.UserId == 0 {
		return UnauthorizedError("unauthorized")
	}
	if requiredRole == "" || sess.Role == RoleAdmin {
		return nil
	}
	if sess.Role != requiredRole {
		return ForbiddenError("insufficient role")
	}
	return nil
}

// SessionFromContext rebuilds the session from the context values the
// middlewares set. Returns nil when the request is unauthenticated.
func SessionFromContext(ctx context.Context) *Session {
	userId, ok := GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil
	}
	username, _ := GetUsernameFromContext(ctx)
	role, _ := GetUserRoleFromContext(ctx)
	return &Session{UserId: userId, Username: username, Role: role}
}
