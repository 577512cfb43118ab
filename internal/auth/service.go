// Package auth handles host registration and credential checks for the
// session based login flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hostflow/hostflow/internal/platform/httpx"
	"github.com/hostflow/hostflow/internal/shared"
)

// Service implements registration and login on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a host account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, name, password string) (Host, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Host{}, fmt.Errorf("%w: email is required", httpx.ErrValidation)
	}
	if len(password) < 8 {
		return Host{}, fmt.Errorf("%w: password must be at least 8 characters", httpx.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Host{}, fmt.Errorf("auth: hash password: %w", err)
	}

	host, err := s.repo.Create(ctx, Host{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Host{}, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
		}
		return Host{}, err
	}
	return host, nil
}

// Authenticate verifies the credentials and returns the matching host.
// A missing account and a wrong password produce the same error so the
// endpoint cannot be used to probe for registered emails.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Host, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	host, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Host{}, shared.ErrInvalidCredentials
		}
		return Host{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(host.PasswordHash), []byte(password)); err != nil {
		return Host{}, shared.ErrInvalidCredentials
	}
	return host, nil
}
