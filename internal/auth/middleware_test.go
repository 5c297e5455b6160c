package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/auth"
	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/internal/users"
	_ "github.com/intralink/intralink/testing"
)

type stubDirectory struct {
	user *users.User
	err  error
}

func (s *stubDirectory) FindByID(ctx context.Context, id int64) (*users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubDirectory) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubRoles struct {
	names []string
	err   error
	calls int
}

func (s *stubRoles) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	s.calls++
	return s.names, s.err
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func activeUser() *users.User {
	role := "Employee"
	return &users.User{ID: 7, Email: "t@corp.local", Username: "t", Status: users.StatusActive, RoleName: &role}
}

func newGate(directory auth.UserDirectory, roles auth.RoleSource) (*auth.Gate, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", "intralink", time.Hour)
	return auth.NewGate(nil, tokens, directory, roles), tokens
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestAuthenticatorValidToken(t *testing.T) {
	gate, tokens := newGate(&stubDirectory{user: activeUser()}, &stubRoles{})
	token, err := tokens.Issue(7)
	require.NoError(t, err)

	var got *shared.Principal
	handler := gate.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, got)
	require.Equal(t, int64(7), got.ID)
	require.NotNil(t, got.Role)
	require.Equal(t, "Employee", *got.Role)
}

func TestAuthenticatorMissingHeader(t *testing.T) {
	gate, _ := newGate(&stubDirectory{user: activeUser()}, &stubRoles{})
	handler := gate.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	env := decodeEnvelope(t, rr)
	require.False(t, env.Success)
	require.Equal(t, "Authentication required", env.Message)
}

func TestAuthenticatorWrongScheme(t *testing.T) {
	directory := &stubDirectory{err: errors.New("directory must not be hit")}
	gate, _ := newGate(directory, &stubRoles{})
	handler := gate.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Authentication required", decodeEnvelope(t, rr).Message)
}

func TestAuthenticatorInvalidToken(t *testing.T) {
	gate, _ := newGate(&stubDirectory{user: activeUser()}, &stubRoles{})
	handler := gate.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid or expired token", decodeEnvelope(t, rr).Message)
}

func TestAuthenticatorUnknownUser(t *testing.T) {
	gate, tokens := newGate(&stubDirectory{err: shared.ErrNotFound}, &stubRoles{})
	token, err := tokens.Issue(99)
	require.NoError(t, err)

	handler := gate.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid or expired token", decodeEnvelope(t, rr).Message)
}

func TestAuthenticatorDisabledAccount(t *testing.T) {
	disabled := activeUser()
	disabled.Status = users.StatusDisabled
	gate, tokens := newGate(&stubDirectory{user: disabled}, &stubRoles{})
	token, err := tokens.Issue(7)
	require.NoError(t, err)

	handler := gate.Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "Account is disabled", decodeEnvelope(t, rr).Message)
}

func authorizedRequest(t *testing.T, gate *auth.Gate, roles []string, labels ...string) *httptest.ResponseRecorder {
	t.Helper()
	var attached []string
	mw := gate.Authorize(labels...)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := shared.PrincipalFromContext(r.Context()); p != nil {
			attached = p.Roles
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	principal := &shared.Principal{ID: 7, Email: "t@corp.local", Username: "t"}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code == http.StatusNoContent {
		require.Equal(t, roles, attached)
	}
	return rr
}

func TestAuthorizeSynonymGrantsCanonicalRole(t *testing.T) {
	gate, _ := newGate(&stubDirectory{}, &stubRoles{names: []string{"Administrator"}})
	rr := authorizedRequest(t, gate, []string{"Administrator"}, "admin")
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthorizeSynonymDoesNotLeakAcrossLabels(t *testing.T) {
	gate, _ := newGate(&stubDirectory{}, &stubRoles{names: []string{"Department Manager"}})
	rr := authorizedRequest(t, gate, nil, "admin")
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "Insufficient permissions", decodeEnvelope(t, rr).Message)
}

func TestAuthorizeMatchingIsCaseSensitive(t *testing.T) {
	gate, _ := newGate(&stubDirectory{}, &stubRoles{names: []string{"administrator"}})
	rr := authorizedRequest(t, gate, nil, "admin")
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuthorizeRoleQueryFailure(t *testing.T) {
	gate, _ := newGate(&stubDirectory{}, &stubRoles{err: errors.New("connection refused")})
	rr := authorizedRequest(t, gate, nil, "admin")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Authorization check failed", decodeEnvelope(t, rr).Message)
}

func TestAuthorizeWithoutPrincipal(t *testing.T) {
	gate, _ := newGate(&stubDirectory{}, &stubRoles{names: []string{"Administrator"}})
	mw := gate.Authorize("admin")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Authentication required", decodeEnvelope(t, rr).Message)
}

func TestAuthorizeQueriesRolesEveryCall(t *testing.T) {
	roles := &stubRoles{names: []string{"Administrator"}}
	gate, _ := newGate(&stubDirectory{}, roles)
	mw := gate.Authorize("admin")
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		principal := &shared.Principal{ID: 7}
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNoContent, rr.Code)
	}
	require.Equal(t, 3, roles.calls)
}

func TestAuthorizeUnknownLabelPanicsAtConstruction(t *testing.T) {
	gate, _ := newGate(&stubDirectory{}, &stubRoles{})
	require.Panics(t, func() { gate.Authorize("superuser") })
}
