package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hostflow/hostflow/internal/finance"
)

func frozenExporter() *Exporter {
	e := NewExporter()
	e.clock = func() time.Time {
		return time.Date(2025, time.August, 30, 10, 0, 0, 0, time.UTC)
	}
	return e
}

func sampleStatement() finance.Statement {
	bookings := []finance.Booking{
		{GuestName: "Amina", PayoutAmount: 12000, CheckIn: time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC)},
		{GuestName: "Brian", PayoutAmount: 8000, CheckIn: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)},
	}
	movements := []finance.Movement{
		{ItemName: "Soap", Action: finance.ActionRestock, Quantity: 10, PriceAtTime: 50, OccurredAt: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{ItemName: "Gas", Action: finance.ActionDispatch, Quantity: 1, PriceAtTime: 3000, OccurredAt: time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)},
	}
	return finance.BuildStatement("Seaview Cottage", 2025, finance.GranularityMonth, bookings, movements)
}

func TestFinancialReportProducesPDF(t *testing.T) {
	data, err := frozenExporter().FinancialReport(sampleStatement())
	require.NoError(t, err)
	require.Greater(t, len(data), 1024)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestFinancialReportEmptyStatement(t *testing.T) {
	stmt := finance.BuildStatement("Seaview Cottage", 2025, finance.GranularityQuarter, nil, nil)
	data, err := frozenExporter().FinancialReport(stmt)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestShoppingListProducesPDF(t *testing.T) {
	list := finance.BuildShoppingList("Seaview Cottage", []finance.Item{
		{Name: "Soap", Quantity: 3, MinStock: 5, CostPerUnit: 20},
		{Name: "Coffee", Quantity: 0, MinStock: 2, CostPerUnit: 150},
	})
	data, err := frozenExporter().ShoppingList(list)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestShoppingListEmpty(t *testing.T) {
	data, err := frozenExporter().ShoppingList(finance.ShoppingList{PropertyName: "Seaview Cottage"})
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestFilenames(t *testing.T) {
	require.Equal(t,
		"HostFlow_Seaview_Cottage_monthly_2025.pdf",
		FinancialReportFilename("Seaview Cottage", finance.GranularityMonth, 2025))
	require.Equal(t,
		"HostFlow_Seaview_Cottage_June_2025.pdf",
		MonthReportFilename("Seaview Cottage", time.June, 2025))
	require.Equal(t,
		"Shopping_List_Seaview_Cottage_2025-08-30.pdf",
		ShoppingListFilename("Seaview Cottage", time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC)))
}
