package shared

import "context"

// Principal is the request-scoped authenticated identity. It is created
// fresh per request by the authentication gate and discarded at response
// time; it is never persisted.
//
// Role and DepartmentID come from the first joined role row and can be
// stale or arbitrary when the user holds several roles. Roles is the full
// assignment set and is populated only after an authorization gate runs.
type Principal struct {
	ID            int64    `json:"id"`
	Email         string   `json:"email"`
	Username      string   `json:"username"`
	Role          *string  `json:"role"`
	DepartmentID  *int64   `json:"department_id"`
	IsSystemAdmin bool     `json:"is_system_admin"`
	Roles         []string `json:"roles,omitempty"`
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context, nil when the
// request never passed the authentication gate.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
