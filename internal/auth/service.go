package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/internal/users"
)

// UserDirectory resolves accounts for the login flow and the gates.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	directory UserDirectory
	tokens    *TokenService
}

// NewService constructs a new Service.
func NewService(directory UserDirectory, tokens *TokenService) *Service {
	return &Service{directory: directory, tokens: tokens}
}

// Authenticate validates email/password credentials and returns the account
// plus a fresh access token. Wrong email, wrong password and disabled
// accounts all fail identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, string, error) {
	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if user.Status != users.StatusActive {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
