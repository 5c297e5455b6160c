// Package auth implements the authentication pipeline: the stateless token
// service, the login flow, and the gate middleware every protected route
// runs through.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, forged and expired tokens alike so the
// caller cannot tell them apart.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// TokenService issues and verifies signed, time-bound access tokens.
// Verification is a pure computation against the shared secret; no I/O.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService constructs a TokenService.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue produces a signed HS256 token binding the user id as subject.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the subject user id.
// Every failure mode collapses into ErrInvalidToken.
func (s *TokenService) Verify(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
