package inventory

import (
	"time"

	"github.com/hostflow/hostflow/internal/finance"
)

// Item is a consumable (or permanent utility) tracked per property.
// Permanent items such as electricity or WiFi carry no stock level; they
// exist so recurring charges can be logged against them.
type Item struct {
	ID          int64     `json:"id"`
	PropertyID  int64     `json:"property_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	CostPerUnit float64   `json:"cost_per_unit"`
	Permanent   bool      `json:"permanent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Log is one immutable stock movement. PriceAtTime snapshots the unit
// price at write time and is never recomputed, so later cost edits on the
// item leave historical expenses untouched.
type Log struct {
	ID          int64          `json:"id"`
	PropertyID  int64          `json:"property_id"`
	ItemID      int64          `json:"item_id"`
	ItemName    string         `json:"item_name"`
	Action      finance.Action `json:"action"`
	Quantity    float64        `json:"quantity"`
	PriceAtTime float64        `json:"price_at_time"`
	OccurredAt  time.Time      `json:"occurred_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Adjustment is a requested stock movement before it becomes a Log.
// PriceOverride, when set, replaces the item's current cost as the
// snapshot price. OccurredAt may be backdated; zero means now.
type Adjustment struct {
	ItemID        int64
	Action        finance.Action
	Quantity      float64
	PriceOverride *float64
	OccurredAt    time.Time
}
