package auth

import (
	"context"
	"net/http"
	"strings"

	"log/slog"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/rbac"
	"github.com/intralink/intralink/internal/shared"
)

const bearerPrefix = "Bearer "

// RoleSource loads the full set of role names assigned to a user.
type RoleSource interface {
	RoleNames(ctx context.Context, userID int64) ([]string, error)
}

// Gate bundles the authentication and authorization middleware. It holds no
// per-request state; every decision is a pure function of the request plus
// fresh reads.
type Gate struct {
	logger    *slog.Logger
	tokens    *TokenService
	directory UserDirectory
	roles     RoleSource
}

// NewGate constructs a Gate.
func NewGate(logger *slog.Logger, tokens *TokenService, directory UserDirectory, roles RoleSource) *Gate {
	return &Gate{logger: logger, tokens: tokens, directory: directory, roles: roles}
}

// Authenticator validates the bearer token, loads the account and populates
// the request-scoped principal. The wrong scheme is rejected before any
// token parsing happens, and verification failures collapse into one
// generic message so signature details never leak.
func (g *Gate) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			httpx.RespondError(w, g.logger, httpx.Unauthenticated("Authentication required"))
			return
		}

		userID, err := g.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			httpx.RespondError(w, g.logger, httpx.Unauthenticated("Invalid or expired token"))
			return
		}

		user, err := g.directory.FindByID(r.Context(), userID)
		if err != nil {
			httpx.RespondError(w, g.logger, httpx.Unauthenticated("Invalid or expired token"))
			return
		}
		if user.Status != "active" {
			httpx.RespondError(w, g.logger, httpx.AccountDisabled())
			return
		}

		ctx := shared.ContextWithPrincipal(r.Context(), user.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize returns a middleware granting access when the user's resolved
// role set intersects the accepted labels after synonym expansion. Labels
// are validated at construction so a typo fails startup, not requests.
//
// The full role set is re-queried on every call. The principal's single
// denormalized role is appended for backward compatibility; the possible
// duplicate is harmless. On success the resolved set is attached to the
// principal so handlers can branch on it without another query.
func (g *Gate) Authorize(labels ...string) func(http.Handler) http.Handler {
	accepted := rbac.Expand(rbac.MustLabels(labels...)...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.RespondError(w, g.logger, httpx.Unauthenticated("Authentication required"))
				return
			}

			resolved, err := g.roles.RoleNames(r.Context(), principal.ID)
			if err != nil {
				httpx.RespondError(w, g.logger, httpx.Infrastructure("Authorization check failed", err))
				return
			}
			if principal.Role != nil {
				resolved = append(resolved, *principal.Role)
			}

			for _, name := range resolved {
				if _, ok := accepted[name]; ok {
					principal.Roles = resolved
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.RespondError(w, g.logger, httpx.Forbidden("Insufficient permissions"))
		})
	}
}
