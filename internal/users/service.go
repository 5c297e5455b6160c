package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/intralink/intralink/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, search string, limit, offset int) ([]User, int, error)
	Search(ctx context.Context, query string, limit int) ([]User, error)
	Create(ctx context.Context, email, username, passwordHash string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, username, email *string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetStatus(ctx context.Context, id int64, status string) error
	SetAvatar(ctx context.Context, id int64, path string) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// FindByID loads one user.
func (s *Service) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of users plus the total count.
func (s *Service) List(ctx context.Context, search string, page, limit int) ([]User, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, search, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// Search finds active users for the global search fan-out.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]User, error) {
	return s.repo.Search(ctx, query, limit)
}

// Create registers a new account with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, email, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, email, username, string(hash))
}

// UpdateProfile updates username/email.
func (s *Service) UpdateProfile(ctx context.Context, id int64, username, email *string) (*User, error) {
	return s.repo.UpdateProfile(ctx, id, username, email)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// Deactivate flips the account to disabled. Rows are never removed.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetStatus(ctx, id, StatusDisabled)
}

// Activate re-enables a disabled account.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetStatus(ctx, id, StatusActive)
}

// SetAvatar records the stored avatar path.
func (s *Service) SetAvatar(ctx context.Context, id int64, path string) error {
	return s.repo.SetAvatar(ctx, id, path)
}
