package finance

import "sort"

// reorderFactor targets twice the minimum threshold when suggesting an
// order quantity. Fixed business rule, not configurable.
const reorderFactor = 2

// StockStatus classifies one consumable item for display.
type StockStatus struct {
	Item           Item `json:"item"`
	Low            bool `json:"low"`
	SuggestedOrder int  `json:"suggested_order"`
}

// ShoppingLine is one row of the restock shopping list.
type ShoppingLine struct {
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	MinStock       int     `json:"min_stock"`
	SuggestedOrder int     `json:"suggested_order"`
	UnitCost       float64 `json:"unit_cost"`
	Subtotal       float64 `json:"subtotal"`
}

// ShoppingList aggregates every low-stock consumable with order totals.
type ShoppingList struct {
	PropertyName string         `json:"property_name"`
	Lines        []ShoppingLine `json:"lines"`
	TotalUnits   int            `json:"total_units"`
	TotalCost    float64        `json:"total_cost"`
}

// IsLow reports whether a consumable item needs restocking. Permanent
// items are never low regardless of the counters they happen to hold.
func IsLow(item Item) bool {
	return !item.Permanent && item.Quantity <= item.MinStock
}

// SuggestedOrder returns how many units to buy to reach twice the minimum
// threshold, clamped at zero.
func SuggestedOrder(item Item) int {
	if item.Permanent {
		return 0
	}
	if suggested := reorderFactor*item.MinStock - item.Quantity; suggested > 0 {
		return suggested
	}
	return 0
}

// ResolveStock classifies consumable items and orders them for display:
// low-stock items first, otherwise the incoming order is preserved.
// Permanent/utility items are excluded entirely.
func ResolveStock(items []Item) []StockStatus {
	statuses := make([]StockStatus, 0, len(items))
	for _, item := range items {
		if item.Permanent {
			continue
		}
		statuses = append(statuses, StockStatus{
			Item:           item,
			Low:            IsLow(item),
			SuggestedOrder: SuggestedOrder(item),
		})
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Low && !statuses[j].Low
	})
	return statuses
}

// BuildShoppingList collects the low-stock consumables into a priced
// restock list. An empty list is valid output, not an error.
func BuildShoppingList(propertyName string, items []Item) ShoppingList {
	list := ShoppingList{PropertyName: propertyName, Lines: []ShoppingLine{}}
	for _, status := range ResolveStock(items) {
		if !status.Low {
			continue
		}
		item := status.Item
		subtotal := float64(status.SuggestedOrder) * amount(item.CostPerUnit)
		list.Lines = append(list.Lines, ShoppingLine{
			Name:           item.Name,
			Quantity:       item.Quantity,
			MinStock:       item.MinStock,
			SuggestedOrder: status.SuggestedOrder,
			UnitCost:       amount(item.CostPerUnit),
			Subtotal:       subtotal,
		})
		list.TotalUnits += status.SuggestedOrder
		list.TotalCost += subtotal
	}
	return list
}
