package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/intralink/intralink/internal/auth"
	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/internal/users"
	_ "github.com/intralink/intralink/testing"
)

const testPassword = "correct-horse"

func loginUser(t *testing.T) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := activeUser()
	user.PasswordHash = string(hash)
	return user
}

func newLoginRouter(directory auth.UserDirectory) (chi.Router, *auth.TokenService) {
	gate, tokens := newGate(directory, &stubRoles{})
	handler := auth.NewHandler(nil, auth.NewService(directory, tokens), gate)
	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r, tokens
}

func postLogin(t *testing.T, router chi.Router, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLoginReturnsVerifiableToken(t *testing.T) {
	router, tokens := newLoginRouter(&stubDirectory{user: loginUser(t)})

	rr := postLogin(t, router, "t@corp.local", testPassword)
	require.Equal(t, http.StatusOK, rr.Code)

	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)
	require.Equal(t, "Login successful", env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)

	userID, err := tokens.Verify(data.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newLoginRouter(&stubDirectory{user: loginUser(t)})

	rr := postLogin(t, router, "t@corp.local", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid email or password", decodeEnvelope(t, rr).Message)
}

func TestLoginDisabledAccount(t *testing.T) {
	disabled := loginUser(t)
	disabled.Status = users.StatusDisabled
	router, _ := newLoginRouter(&stubDirectory{user: disabled})

	rr := postLogin(t, router, "t@corp.local", testPassword)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid email or password", decodeEnvelope(t, rr).Message)
}

func TestLoginUnknownEmail(t *testing.T) {
	router, _ := newLoginRouter(&stubDirectory{err: shared.ErrNotFound})

	rr := postLogin(t, router, "nobody@corp.local", testPassword)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid email or password", decodeEnvelope(t, rr).Message)
}

func TestAuthenticateFailureModesCollapse(t *testing.T) {
	user := loginUser(t)
	tokens := auth.NewTokenService("test-secret", "intralink", time.Hour)
	ctx := context.Background()

	svc := auth.NewService(&stubDirectory{user: user}, tokens)
	_, _, err := svc.Authenticate(ctx, "t@corp.local", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	disabled := loginUser(t)
	disabled.Status = users.StatusDisabled
	svc = auth.NewService(&stubDirectory{user: disabled}, tokens)
	_, _, err = svc.Authenticate(ctx, "t@corp.local", testPassword)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	svc = auth.NewService(&stubDirectory{err: shared.ErrNotFound}, tokens)
	_, _, err = svc.Authenticate(ctx, "nobody@corp.local", testPassword)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
