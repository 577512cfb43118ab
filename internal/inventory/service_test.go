package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/hostflow/hostflow/internal/finance"
	"github.com/hostflow/hostflow/internal/platform/httpx"
)

// memoryRepo mimics the SQL guards of the real repository, including the
// transactional negative-stock check.
type memoryRepo struct {
	items  map[int64]Item
	logs   []Log
	nextID int64
}

func newMemoryRepo(items ...Item) *memoryRepo {
	r := &memoryRepo{items: make(map[int64]Item), nextID: 1}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memoryRepo) ListItems(ctx context.Context, propertyID, hostID int64) ([]Item, error) {
	var out []Item
	for _, it := range r.items {
		if it.PropertyID == propertyID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetItem(ctx context.Context, id, hostID int64) (Item, error) {
	it, ok := r.items[id]
	if !ok {
		return Item{}, pgx.ErrNoRows
	}
	return it, nil
}

func (r *memoryRepo) CreateItem(ctx context.Context, item Item, hostID int64) (Item, error) {
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	return item, nil
}

func (r *memoryRepo) UpdateItem(ctx context.Context, item Item, hostID int64) (int64, error) {
	if _, ok := r.items[item.ID]; !ok {
		return 0, nil
	}
	r.items[item.ID] = item
	return 1, nil
}

func (r *memoryRepo) DeleteItem(ctx context.Context, id, hostID int64) (int64, error) {
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

func (r *memoryRepo) ListLogs(ctx context.Context, propertyID, hostID int64, limit int) ([]Log, error) {
	return r.logs, nil
}

func (r *memoryRepo) ApplyAdjustment(ctx context.Context, log Log, applyQuantity bool) (Log, error) {
	if applyQuantity {
		it := r.items[log.ItemID]
		delta := int(log.Quantity)
		if log.Action == finance.ActionDispatch {
			delta = -delta
		}
		if it.Quantity+delta < 0 {
			return Log{}, ErrInsufficientStock
		}
		it.Quantity += delta
		r.items[log.ItemID] = it
	}
	log.ID = r.nextID
	r.nextID++
	r.logs = append(r.logs, log)
	return log, nil
}

func (r *memoryRepo) ItemSnapshots(ctx context.Context, propertyID int64) ([]finance.Item, error) {
	return nil, nil
}

func (r *memoryRepo) MovementSnapshots(ctx context.Context, propertyID int64) ([]finance.Movement, error) {
	return nil, nil
}

func soap() Item {
	return Item{ID: 10, PropertyID: 1, Name: "Soap", Quantity: 5, MinStock: 3, CostPerUnit: 50}
}

func wifi() Item {
	return Item{ID: 11, PropertyID: 1, Name: "WiFi", CostPerUnit: 2500, Permanent: true}
}

func TestAdjustStockRestockMovesQuantityAndSnapshotsPrice(t *testing.T) {
	repo := newMemoryRepo(soap())
	svc := NewService(repo)

	log, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:   10,
		Action:   finance.ActionRestock,
		Quantity: 4,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, 9, repo.items[10].Quantity)
	require.Equal(t, 50.0, log.PriceAtTime)
	require.Equal(t, "Soap", log.ItemName)
	require.False(t, log.OccurredAt.IsZero())
}

func TestAdjustStockPriceOverrideWins(t *testing.T) {
	repo := newMemoryRepo(soap())
	svc := NewService(repo)

	price := 65.0
	log, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:        10,
		Action:        finance.ActionRestock,
		Quantity:      2,
		PriceOverride: &price,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, 65.0, log.PriceAtTime)
	// The item's listed cost stays as-is; only the log snapshot changes.
	require.Equal(t, 50.0, repo.items[10].CostPerUnit)
}

func TestAdjustStockDispatchCannotGoNegative(t *testing.T) {
	repo := newMemoryRepo(soap())
	svc := NewService(repo)

	_, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:   10,
		Action:   finance.ActionDispatch,
		Quantity: 6,
	}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, 5, repo.items[10].Quantity)
	require.Empty(t, repo.logs)
}

func TestAdjustStockPermanentItemLogsWithoutQuantityChange(t *testing.T) {
	repo := newMemoryRepo(wifi())
	svc := NewService(repo)

	log, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:   11,
		Action:   finance.ActionDispatch,
		Quantity: 1,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, 0, repo.items[11].Quantity)
	require.Equal(t, 2500.0, log.PriceAtTime)
	require.Len(t, repo.logs, 1)
}

func TestAdjustStockRejectsFractionalQuantityForStockedItems(t *testing.T) {
	repo := newMemoryRepo(soap())
	svc := NewService(repo)

	_, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:   10,
		Action:   finance.ActionDispatch,
		Quantity: 2.5,
	}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Equal(t, 5, repo.items[10].Quantity)
	require.Empty(t, repo.logs)
}

func TestAdjustStockAllowsFractionalQuantityForPermanentItems(t *testing.T) {
	repo := newMemoryRepo(wifi())
	svc := NewService(repo)

	// Utility charges are log-only, so partial units (1.5 months of
	// service) are fine.
	log, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:   11,
		Action:   finance.ActionDispatch,
		Quantity: 1.5,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, 1.5, log.Quantity)
	require.Len(t, repo.logs, 1)
}

func TestAdjustStockBackdatesWhenRequested(t *testing.T) {
	repo := newMemoryRepo(soap())
	svc := NewService(repo)

	past := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)
	log, err := svc.AdjustStock(context.Background(), Adjustment{
		ItemID:     10,
		Action:     finance.ActionRestock,
		Quantity:   1,
		OccurredAt: past,
	}, 1)
	require.NoError(t, err)
	require.Equal(t, past, log.OccurredAt)
}

func TestAdjustStockRejectsBadInput(t *testing.T) {
	svc := NewService(newMemoryRepo(soap()))

	_, err := svc.AdjustStock(context.Background(), Adjustment{ItemID: 10, Action: "LOAN", Quantity: 1}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.AdjustStock(context.Background(), Adjustment{ItemID: 10, Action: finance.ActionRestock, Quantity: 0}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.AdjustStock(context.Background(), Adjustment{ItemID: 99, Action: finance.ActionRestock, Quantity: 1}, 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateItemZeroesStockFieldsForPermanent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	created, err := svc.CreateItem(context.Background(), Item{
		PropertyID:  1,
		Name:        "Electricity",
		Quantity:    10,
		MinStock:    4,
		CostPerUnit: 3000,
		Permanent:   true,
	}, 1)
	require.NoError(t, err)
	require.Zero(t, created.Quantity)
	require.Zero(t, created.MinStock)
}

func TestItemValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.CreateItem(context.Background(), Item{PropertyID: 1, Name: " "}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateItem(context.Background(), Item{PropertyID: 1, Name: "Soap", CostPerUnit: -1}, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.UpdateItem(context.Background(), Item{ID: 404, Name: "Soap"}, 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
