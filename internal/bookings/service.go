package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hostflow/hostflow/internal/platform/httpx"
)

// Service wraps booking business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForProperty returns the property's bookings, latest check-in first.
func (s *Service) ListForProperty(ctx context.Context, propertyID, hostID int64) ([]Booking, error) {
	return s.repo.ListForProperty(ctx, propertyID, hostID)
}

// Create validates and stores a booking under an owned property.
func (s *Service) Create(ctx context.Context, booking Booking, hostID int64) (Booking, error) {
	if err := s.validate(booking); err != nil {
		return Booking{}, err
	}
	created, err := s.repo.Create(ctx, booking, hostID)
	if err != nil {
		// The guarded insert returns no row when the property belongs to
		// another host or does not exist.
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, fmt.Errorf("%w: property %d", httpx.ErrNotFound, booking.PropertyID)
		}
		return Booking{}, err
	}
	return created, nil
}

// Update validates and stores changes to an owned booking.
func (s *Service) Update(ctx context.Context, booking Booking, hostID int64) error {
	if err := s.validate(booking); err != nil {
		return err
	}
	affected, err := s.repo.Update(ctx, booking, hostID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: booking %d", httpx.ErrNotFound, booking.ID)
	}
	return nil
}

// Delete removes an owned booking.
func (s *Service) Delete(ctx context.Context, id, hostID int64) error {
	affected, err := s.repo.Delete(ctx, id, hostID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: booking %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (s *Service) validate(b Booking) error {
	if strings.TrimSpace(b.GuestName) == "" {
		return fmt.Errorf("%w: guest name is required", httpx.ErrValidation)
	}
	if b.PayoutAmount < 0 {
		return fmt.Errorf("%w: payout amount must not be negative", httpx.ErrValidation)
	}
	if b.CheckIn.IsZero() {
		return fmt.Errorf("%w: check-in date is required", httpx.ErrValidation)
	}
	if !b.CheckOut.IsZero() && b.CheckOut.Before(b.CheckIn) {
		return fmt.Errorf("%w: check-out must not precede check-in", httpx.ErrValidation)
	}
	return nil
}
