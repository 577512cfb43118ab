package finance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PropertySource resolves property metadata scoped to the owning host.
type PropertySource interface {
	PropertyName(ctx context.Context, propertyID, hostID int64) (string, error)
}

// BookingSource supplies fresh booking snapshots for one property.
type BookingSource interface {
	BookingSnapshots(ctx context.Context, propertyID int64) ([]Booking, error)
}

// InventorySource supplies fresh item and movement snapshots for one property.
type InventorySource interface {
	ItemSnapshots(ctx context.Context, propertyID int64) ([]Item, error)
	MovementSnapshots(ctx context.Context, propertyID int64) ([]Movement, error)
}

// Service assembles statements and stock reports from freshly fetched
// snapshots. Every call re-fetches and recomputes; nothing is kept between
// invocations.
type Service struct {
	properties PropertySource
	bookings   BookingSource
	inventory  InventorySource
}

// NewService wires the snapshot sources.
func NewService(properties PropertySource, bookings BookingSource, inventory InventorySource) *Service {
	return &Service{properties: properties, bookings: bookings, inventory: inventory}
}

// Statement builds the P&L statement for a property owned by hostID.
func (s *Service) Statement(ctx context.Context, hostID, propertyID int64, year int, g Granularity) (Statement, error) {
	name, bookings, movements, err := s.statementInputs(ctx, hostID, propertyID)
	if err != nil {
		return Statement{}, err
	}
	return BuildStatement(name, year, g, bookings, movements), nil
}

// MonthStatement builds the P&L statement narrowed to one calendar month.
func (s *Service) MonthStatement(ctx context.Context, hostID, propertyID int64, year int, month time.Month) (Statement, error) {
	name, bookings, movements, err := s.statementInputs(ctx, hostID, propertyID)
	if err != nil {
		return Statement{}, err
	}
	return BuildMonthStatement(name, year, month, bookings, movements), nil
}

func (s *Service) statementInputs(ctx context.Context, hostID, propertyID int64) (string, []Booking, []Movement, error) {
	if s == nil || s.properties == nil {
		return "", nil, nil, errors.New("finance: service not initialised")
	}
	name, err := s.properties.PropertyName(ctx, propertyID, hostID)
	if err != nil {
		return "", nil, nil, err
	}
	bookings, err := s.bookings.BookingSnapshots(ctx, propertyID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("finance: load bookings: %w", err)
	}
	movements, err := s.inventory.MovementSnapshots(ctx, propertyID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("finance: load movements: %w", err)
	}
	return name, bookings, movements, nil
}

// ShoppingList builds the low-stock restock list for a property owned by
// hostID.
func (s *Service) ShoppingList(ctx context.Context, hostID, propertyID int64) (ShoppingList, error) {
	if s == nil || s.properties == nil {
		return ShoppingList{}, errors.New("finance: service not initialised")
	}
	name, err := s.properties.PropertyName(ctx, propertyID, hostID)
	if err != nil {
		return ShoppingList{}, err
	}
	items, err := s.inventory.ItemSnapshots(ctx, propertyID)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("finance: load items: %w", err)
	}
	return BuildShoppingList(name, items), nil
}

// StockStatus classifies the property's consumables for the dashboard.
func (s *Service) StockStatus(ctx context.Context, hostID, propertyID int64) ([]StockStatus, error) {
	if s == nil || s.properties == nil {
		return nil, errors.New("finance: service not initialised")
	}
	if _, err := s.properties.PropertyName(ctx, propertyID, hostID); err != nil {
		return nil, err
	}
	items, err := s.inventory.ItemSnapshots(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("finance: load items: %w", err)
	}
	return ResolveStock(items), nil
}
