package properties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hostflow/hostflow/internal/platform/httpx"
)

// Service wraps property business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the host's portfolio, newest first.
func (s *Service) List(ctx context.Context, hostID int64) ([]Property, error) {
	return s.repo.List(ctx, hostID)
}

// Get fetches one property owned by hostID. Foreign rows come back as not
// found so existence never leaks across tenants.
func (s *Service) Get(ctx context.Context, id, hostID int64) (Property, error) {
	property, err := s.repo.Get(ctx, id, hostID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
		}
		return Property{}, err
	}
	return property, nil
}

// Create validates and stores a new property for the host.
func (s *Service) Create(ctx context.Context, property Property) (Property, error) {
	if err := s.validate(property); err != nil {
		return Property{}, err
	}
	return s.repo.Create(ctx, property)
}

// Update validates and stores changes to an owned property.
func (s *Service) Update(ctx context.Context, property Property) error {
	if err := s.validate(property); err != nil {
		return err
	}
	affected, err := s.repo.Update(ctx, property)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: property %d", httpx.ErrNotFound, property.ID)
	}
	return nil
}

// Delete removes an owned property and everything scoped under it.
func (s *Service) Delete(ctx context.Context, id, hostID int64) error {
	affected, err := s.repo.Delete(ctx, id, hostID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
	}
	return nil
}

// PropertyName resolves the display name of an owned property. It backs
// the finance engine's ownership check.
func (s *Service) PropertyName(ctx context.Context, propertyID, hostID int64) (string, error) {
	property, err := s.Get(ctx, propertyID, hostID)
	if err != nil {
		return "", err
	}
	return property.Name, nil
}

func (s *Service) validate(p Property) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: property name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("%w: property address is required", httpx.ErrValidation)
	}
	return nil
}
