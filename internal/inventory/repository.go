package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostflow/hostflow/internal/finance"
)

// ErrInsufficientStock reports a dispatch that would drive an item's
// quantity below zero. The quantity guard lives in SQL so concurrent
// dispatches cannot race past the service-level check.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// Repository abstracts item and log persistence. Reads and mutations are
// scoped through the owning property's host.
type Repository interface {
	ListItems(ctx context.Context, propertyID, hostID int64) ([]Item, error)
	GetItem(ctx context.Context, id, hostID int64) (Item, error)
	CreateItem(ctx context.Context, item Item, hostID int64) (Item, error)
	UpdateItem(ctx context.Context, item Item, hostID int64) (int64, error)
	DeleteItem(ctx context.Context, id, hostID int64) (int64, error)

	ListLogs(ctx context.Context, propertyID, hostID int64, limit int) ([]Log, error)
	ApplyAdjustment(ctx context.Context, log Log, applyQuantity bool) (Log, error)

	ItemSnapshots(ctx context.Context, propertyID int64) ([]finance.Item, error)
	MovementSnapshots(ctx context.Context, propertyID int64) ([]finance.Movement, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListItems(ctx context.Context, propertyID, hostID int64) ([]Item, error) {
	query := `SELECT i.id, i.property_id, i.name, i.quantity, i.min_stock, i.cost_per_unit, i.permanent, i.created_at, i.updated_at
		FROM inventory_items i
		JOIN properties p ON p.id = i.property_id
		WHERE i.property_id = $1 AND p.host_id = $2
		ORDER BY i.name`
	rows, err := r.db.Query(ctx, query, propertyID, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.PropertyID, &it.Name, &it.Quantity, &it.MinStock, &it.CostPerUnit, &it.Permanent, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) GetItem(ctx context.Context, id, hostID int64) (Item, error) {
	query := `SELECT i.id, i.property_id, i.name, i.quantity, i.min_stock, i.cost_per_unit, i.permanent, i.created_at, i.updated_at
		FROM inventory_items i
		JOIN properties p ON p.id = i.property_id
		WHERE i.id = $1 AND p.host_id = $2`
	var it Item
	err := r.db.QueryRow(ctx, query, id, hostID).Scan(
		&it.ID, &it.PropertyID, &it.Name, &it.Quantity, &it.MinStock, &it.CostPerUnit, &it.Permanent, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *repository) CreateItem(ctx context.Context, item Item, hostID int64) (Item, error) {
	query := `INSERT INTO inventory_items (property_id, name, quantity, min_stock, cost_per_unit, permanent, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $7
		WHERE EXISTS (SELECT 1 FROM properties WHERE id = $1 AND host_id = $8)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		item.PropertyID, item.Name, item.Quantity, item.MinStock,
		item.CostPerUnit, item.Permanent, now, hostID,
	).Scan(&item.ID)
	if err != nil {
		return Item{}, err
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) UpdateItem(ctx context.Context, item Item, hostID int64) (int64, error) {
	query := `UPDATE inventory_items i
		SET name = $1, quantity = $2, min_stock = $3, cost_per_unit = $4, permanent = $5, updated_at = $6
		FROM properties p
		WHERE i.id = $7 AND p.id = i.property_id AND p.host_id = $8`
	tag, err := r.db.Exec(ctx, query,
		item.Name, item.Quantity, item.MinStock, item.CostPerUnit, item.Permanent,
		time.Now(), item.ID, hostID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) DeleteItem(ctx context.Context, id, hostID int64) (int64, error) {
	query := `DELETE FROM inventory_items i
		USING properties p
		WHERE i.id = $1 AND p.id = i.property_id AND p.host_id = $2`
	tag, err := r.db.Exec(ctx, query, id, hostID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) ListLogs(ctx context.Context, propertyID, hostID int64, limit int) ([]Log, error) {
	query := `SELECT l.id, l.property_id, COALESCE(l.item_id, 0), l.item_name, l.action, l.quantity, l.price_at_time, l.occurred_at, l.created_at
		FROM inventory_logs l
		JOIN properties p ON p.id = l.property_id
		WHERE l.property_id = $1 AND p.host_id = $2
		ORDER BY l.occurred_at DESC, l.id DESC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, propertyID, hostID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.ItemID, &l.ItemName, &l.Action, &l.Quantity, &l.PriceAtTime, &l.OccurredAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ApplyAdjustment writes the log row and, when applyQuantity is true, moves
// the item's stock level in the same transaction. A dispatch that would push
// the quantity negative matches no row and the whole transaction rolls back.
func (r *repository) ApplyAdjustment(ctx context.Context, log Log, applyQuantity bool) (Log, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Log{}, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	insert := `INSERT INTO inventory_logs (property_id, item_id, item_name, action, quantity, price_at_time, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err = tx.QueryRow(ctx, insert,
		log.PropertyID, log.ItemID, log.ItemName, log.Action,
		log.Quantity, log.PriceAtTime, log.OccurredAt, now,
	).Scan(&log.ID)
	if err != nil {
		return Log{}, err
	}
	log.CreatedAt = now

	if applyQuantity {
		delta := int(log.Quantity)
		if log.Action == finance.ActionDispatch {
			delta = -delta
		}
		update := `UPDATE inventory_items
			SET quantity = quantity + $1, updated_at = $2
			WHERE id = $3 AND quantity + $1 >= 0`
		tag, err := tx.Exec(ctx, update, delta, now, log.ItemID)
		if err != nil {
			return Log{}, err
		}
		if tag.RowsAffected() == 0 {
			return Log{}, ErrInsufficientStock
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Log{}, err
	}
	return log, nil
}

// ItemSnapshots feeds the low-stock resolver and shopping list builder.
func (r *repository) ItemSnapshots(ctx context.Context, propertyID int64) ([]finance.Item, error) {
	query := `SELECT name, COALESCE(quantity, 0), COALESCE(min_stock, 0), COALESCE(cost_per_unit, 0), permanent
		FROM inventory_items WHERE property_id = $1`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []finance.Item
	for rows.Next() {
		var s finance.Item
		if err := rows.Scan(&s.Name, &s.Quantity, &s.MinStock, &s.CostPerUnit, &s.Permanent); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// MovementSnapshots feeds the P&L expense roll-up. Every log row counts,
// restocks included.
func (r *repository) MovementSnapshots(ctx context.Context, propertyID int64) ([]finance.Movement, error) {
	query := `SELECT item_name, action, COALESCE(quantity, 0), COALESCE(price_at_time, 0), occurred_at
		FROM inventory_logs WHERE property_id = $1`
	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []finance.Movement
	for rows.Next() {
		var s finance.Movement
		if err := rows.Scan(&s.ItemName, &s.Action, &s.Quantity, &s.PriceAtTime, &s.OccurredAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
