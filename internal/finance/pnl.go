package finance

import (
	"sort"
	"time"
)

// topExpenseLimit caps the expense-category breakdown shown on reports.
const topExpenseLimit = 5

// PeriodFigures is one row of the profit and loss breakdown.
type PeriodFigures struct {
	Label        string  `json:"label"`
	BookingCount int     `json:"booking_count"`
	Revenue      float64 `json:"revenue"`
	Expense      float64 `json:"expense"`
	Profit       float64 `json:"profit"`
	// Margin is profit/revenue as a fraction, zero when revenue is zero.
	Margin float64 `json:"margin"`
}

// StatementTotals aggregates the whole statement. Each field equals the sum
// of the per-period values, so the dashboard's single-period view and the
// full-year report always agree.
type StatementTotals struct {
	Revenue         float64 `json:"revenue"`
	Expense         float64 `json:"expense"`
	Profit          float64 `json:"profit"`
	BookingCount    int     `json:"booking_count"`
	AvgBookingValue float64 `json:"avg_booking_value"`
	Margin          float64 `json:"margin"`
}

// ExpenseCategory groups spend by the denormalized item name on the log.
type ExpenseCategory struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Statement is the full profit and loss report for one property and year.
type Statement struct {
	PropertyName string            `json:"property_name"`
	Year         int               `json:"year"`
	Granularity  Granularity       `json:"granularity"`
	Periods      []PeriodFigures   `json:"periods"`
	Totals       StatementTotals   `json:"totals"`
	TopExpenses  []ExpenseCategory `json:"top_expenses"`
}

// BuildStatement computes the profit and loss statement from raw snapshots.
// Revenue sums booking payouts per bucket. Expense sums quantity times the
// price snapshot over ALL movements in the bucket: restocks represent real
// spend, so both RESTOCK and DISPATCH contribute.
func BuildStatement(propertyName string, year int, g Granularity, bookings []Booking, movements []Movement) Statement {
	buckets := BuildBuckets(year, g, bookings, movements)

	periods := make([]PeriodFigures, 0, len(buckets))
	var totals StatementTotals
	for _, bucket := range buckets {
		figures := bucketFigures(bucket)
		periods = append(periods, figures)
		totals.Revenue += figures.Revenue
		totals.Expense += figures.Expense
		totals.Profit += figures.Profit
		totals.BookingCount += figures.BookingCount
	}
	totals.Margin = margin(totals.Profit, totals.Revenue)
	if totals.BookingCount > 0 {
		totals.AvgBookingValue = totals.Revenue / float64(totals.BookingCount)
	}

	yearMovements := make([]Movement, 0, len(movements))
	for _, bucket := range buckets {
		yearMovements = append(yearMovements, bucket.Movements...)
	}

	return Statement{
		PropertyName: propertyName,
		Year:         year,
		Granularity:  g,
		Periods:      periods,
		Totals:       totals,
		TopExpenses:  TopExpenseCategories(yearMovements, topExpenseLimit),
	}
}

// BuildMonthStatement narrows the statement to a single calendar month.
// The one period row carries that month's figures and the top expense
// categories consider only its movements.
func BuildMonthStatement(propertyName string, year int, month time.Month, bookings []Booking, movements []Movement) Statement {
	bucket := BuildBuckets(year, GranularityMonth, bookings, movements)[month-1]
	figures := bucketFigures(bucket)

	totals := StatementTotals{
		Revenue:      figures.Revenue,
		Expense:      figures.Expense,
		Profit:       figures.Profit,
		BookingCount: figures.BookingCount,
		Margin:       figures.Margin,
	}
	if totals.BookingCount > 0 {
		totals.AvgBookingValue = totals.Revenue / float64(totals.BookingCount)
	}

	return Statement{
		PropertyName: propertyName,
		Year:         year,
		Granularity:  GranularityMonth,
		Periods:      []PeriodFigures{figures},
		Totals:       totals,
		TopExpenses:  TopExpenseCategories(bucket.Movements, topExpenseLimit),
	}
}

func bucketFigures(bucket Bucket) PeriodFigures {
	figures := PeriodFigures{Label: bucket.Label, BookingCount: len(bucket.Bookings)}
	for _, b := range bucket.Bookings {
		figures.Revenue += amount(b.PayoutAmount)
	}
	for _, m := range bucket.Movements {
		figures.Expense += MovementCost(m)
	}
	figures.Profit = figures.Revenue - figures.Expense
	figures.Margin = margin(figures.Profit, figures.Revenue)
	return figures
}

// MovementCost is the expense contribution of a single log entry.
func MovementCost(m Movement) float64 {
	return amount(m.Quantity) * amount(m.PriceAtTime)
}

// TopExpenseCategories groups movements by item name, sums their cost and
// returns the top categories by descending spend. Movements without a name
// snapshot fall into "Other".
func TopExpenseCategories(movements []Movement, limit int) []ExpenseCategory {
	byName := make(map[string]float64)
	for _, m := range movements {
		name := m.ItemName
		if name == "" {
			name = "Other"
		}
		byName[name] += MovementCost(m)
	}

	categories := make([]ExpenseCategory, 0, len(byName))
	for name, total := range byName {
		categories = append(categories, ExpenseCategory{Name: name, Amount: total})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Name < categories[j].Name
	})
	if limit > 0 && len(categories) > limit {
		categories = categories[:limit]
	}
	return categories
}

func margin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue
}
