// Package finance implements the aggregation core behind HostFlow's
// dashboards and reports: calendar bucketing, profit and loss roll-ups,
// low-stock resolution and the snapshot types they operate on.
//
// Everything in this package is a pure function over in-memory slices that
// the surrounding application fetched beforehand. The package holds no
// session, store or UI state.
package finance

import (
	"fmt"
	"math"
	"time"
)

// Granularity selects the reporting bucket size.
type Granularity string

const (
	// GranularityMonth buckets records into 12 calendar months.
	GranularityMonth Granularity = "monthly"
	// GranularityQuarter buckets records into 4 calendar quarters.
	GranularityQuarter Granularity = "quarterly"
	// GranularityYear keeps the whole selected year in one bucket.
	GranularityYear Granularity = "yearly"
)

// ParseGranularity validates a user supplied period selector.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityMonth, GranularityQuarter, GranularityYear:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("finance: unknown granularity %q", s)
}

// Action enumerates inventory stock movements.
type Action string

const (
	// ActionRestock replenishes stock and records the purchase cost.
	ActionRestock Action = "RESTOCK"
	// ActionDispatch consumes stock.
	ActionDispatch Action = "DISPATCH"
)

// Booking is a read-only payout snapshot handed in by the caller.
type Booking struct {
	GuestName    string
	PayoutAmount float64
	CheckIn      time.Time
	CheckOut     time.Time
}

// Movement is a read-only inventory log snapshot. PriceAtTime is the unit
// price captured when the log row was written; it stays frozen no matter
// how the item's current cost changes later, which is what keeps historical
// expense totals stable.
type Movement struct {
	ItemName    string
	Action      Action
	Quantity    float64
	PriceAtTime float64
	OccurredAt  time.Time
}

// Item is a read-only inventory item snapshot. Quantity and MinStock are
// only meaningful when Permanent is false; permanent/utility items (power,
// WiFi) are billed per logging event instead of stocked.
type Item struct {
	Name        string
	Quantity    int
	MinStock    int
	CostPerUnit float64
	Permanent   bool
}

// amount normalises a numeric field coming from partially filled records.
// NaN and infinities collapse to zero so display math never crashes or
// propagates garbage.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
