package rbac

import "github.com/intralink/intralink/internal/shared"

// HasAny reports whether the principal's known roles intersect the
// synonym-expanded labels. It prefers the full role set an authorization
// gate attached and falls back to the denormalized single role when no
// gate ran on this route.
func HasAny(p *shared.Principal, labels ...string) bool {
	if p == nil {
		return false
	}
	accepted := Expand(labels...)
	for _, name := range p.Roles {
		if _, ok := accepted[name]; ok {
			return true
		}
	}
	if p.Role != nil {
		if _, ok := accepted[*p.Role]; ok {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal may act as an administrator.
func IsAdmin(p *shared.Principal) bool {
	return p != nil && (p.IsSystemAdmin || HasAny(p, LabelAdmin))
}
