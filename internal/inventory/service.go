package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hostflow/hostflow/internal/finance"
	"github.com/hostflow/hostflow/internal/platform/httpx"
)

const defaultLogLimit = 100

// Service wraps inventory business rules on top of the repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListItems returns the property's items, alphabetical.
func (s *Service) ListItems(ctx context.Context, propertyID, hostID int64) ([]Item, error) {
	return s.repo.ListItems(ctx, propertyID, hostID)
}

// ListLogs returns the property's recent movements, newest first.
func (s *Service) ListLogs(ctx context.Context, propertyID, hostID int64) ([]Log, error) {
	return s.repo.ListLogs(ctx, propertyID, hostID, defaultLogLimit)
}

// CreateItem validates and stores an item under an owned property.
func (s *Service) CreateItem(ctx context.Context, item Item, hostID int64) (Item, error) {
	if err := validateItem(item); err != nil {
		return Item{}, err
	}
	if item.Permanent {
		// Utility items carry no stock level.
		item.Quantity = 0
		item.MinStock = 0
	}
	created, err := s.repo.CreateItem(ctx, item, hostID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, fmt.Errorf("%w: property %d", httpx.ErrNotFound, item.PropertyID)
		}
		return Item{}, err
	}
	return created, nil
}

// UpdateItem validates and stores changes to an owned item. Editing
// cost_per_unit affects future logs only; existing log prices are frozen.
func (s *Service) UpdateItem(ctx context.Context, item Item, hostID int64) error {
	if err := validateItem(item); err != nil {
		return err
	}
	affected, err := s.repo.UpdateItem(ctx, item, hostID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: item %d", httpx.ErrNotFound, item.ID)
	}
	return nil
}

// DeleteItem removes an owned item. Its logs survive so historical
// expenses keep their totals.
func (s *Service) DeleteItem(ctx context.Context, id, hostID int64) error {
	affected, err := s.repo.DeleteItem(ctx, id, hostID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: item %d", httpx.ErrNotFound, id)
	}
	return nil
}

// AdjustStock records a movement. Non-permanent items have their quantity
// moved in the same transaction as the log insert; permanent items only
// get the log row. The snapshot price is the override when given,
// otherwise the item's current cost per unit.
func (s *Service) AdjustStock(ctx context.Context, adj Adjustment, hostID int64) (Log, error) {
	if adj.Action != finance.ActionRestock && adj.Action != finance.ActionDispatch {
		return Log{}, fmt.Errorf("%w: unknown action %q", httpx.ErrValidation, adj.Action)
	}
	if adj.Quantity <= 0 {
		return Log{}, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	}

	item, err := s.repo.GetItem(ctx, adj.ItemID, hostID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, fmt.Errorf("%w: item %d", httpx.ErrNotFound, adj.ItemID)
		}
		return Log{}, err
	}

	// Stocked items move in whole units; a fractional quantity would log
	// an expense the stock level cannot follow.
	if !item.Permanent && adj.Quantity != math.Trunc(adj.Quantity) {
		return Log{}, fmt.Errorf("%w: quantity must be a whole number of units", httpx.ErrValidation)
	}

	price := item.CostPerUnit
	if adj.PriceOverride != nil {
		if *adj.PriceOverride < 0 {
			return Log{}, fmt.Errorf("%w: price must not be negative", httpx.ErrValidation)
		}
		price = *adj.PriceOverride
	}
	occurredAt := adj.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	log := Log{
		PropertyID:  item.PropertyID,
		ItemID:      item.ID,
		ItemName:    item.Name,
		Action:      adj.Action,
		Quantity:    adj.Quantity,
		PriceAtTime: price,
		OccurredAt:  occurredAt,
	}
	created, err := s.repo.ApplyAdjustment(ctx, log, !item.Permanent)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return Log{}, fmt.Errorf("%w: only %d of %q in stock", httpx.ErrValidation, item.Quantity, item.Name)
		}
		return Log{}, err
	}
	return created, nil
}

// ItemSnapshots implements finance.InventorySource.
func (s *Service) ItemSnapshots(ctx context.Context, propertyID int64) ([]finance.Item, error) {
	return s.repo.ItemSnapshots(ctx, propertyID)
}

// MovementSnapshots implements finance.InventorySource.
func (s *Service) MovementSnapshots(ctx context.Context, propertyID int64) ([]finance.Movement, error) {
	return s.repo.MovementSnapshots(ctx, propertyID)
}

func validateItem(item Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name is required", httpx.ErrValidation)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", httpx.ErrValidation)
	}
	if item.MinStock < 0 {
		return fmt.Errorf("%w: minimum stock must not be negative", httpx.ErrValidation)
	}
	if item.CostPerUnit < 0 {
		return fmt.Errorf("%w: cost per unit must not be negative", httpx.ErrValidation)
	}
	return nil
}
