package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/auth"
	_ "github.com/intralink/intralink/testing"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewTokenService("test-secret", "intralink", time.Hour)

	token, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestTokenExpired(t *testing.T) {
	svc := auth.NewTokenService("test-secret", "intralink", -time.Minute)

	token, err := svc.Issue(42)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.True(t, errors.Is(err, auth.ErrInvalidToken))
}

func TestTokenForgedSecret(t *testing.T) {
	issuer := auth.NewTokenService("other-secret", "intralink", time.Hour)
	verifier := auth.NewTokenService("test-secret", "intralink", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.True(t, errors.Is(err, auth.ErrInvalidToken))
}

func TestTokenWrongIssuer(t *testing.T) {
	issuer := auth.NewTokenService("test-secret", "someone-else", time.Hour)
	verifier := auth.NewTokenService("test-secret", "intralink", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.True(t, errors.Is(err, auth.ErrInvalidToken))
}

func TestTokenGarbage(t *testing.T) {
	svc := auth.NewTokenService("test-secret", "intralink", time.Hour)

	for _, raw := range []string{"", "abc123", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := svc.Verify(raw)
		require.True(t, errors.Is(err, auth.ErrInvalidToken), "raw=%q", raw)
	}
}
