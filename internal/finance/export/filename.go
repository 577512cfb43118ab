package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/hostflow/hostflow/internal/finance"
)

// FinancialReportFilename builds the deterministic download name, e.g.
// "HostFlow_Seaview_Cottage_monthly_2025.pdf".
func FinancialReportFilename(propertyName string, g finance.Granularity, year int) string {
	return fmt.Sprintf("HostFlow_%s_%s_%d.pdf", underscored(propertyName), g, year)
}

// MonthReportFilename builds the single-month download name, e.g.
// "HostFlow_Seaview_Cottage_June_2025.pdf".
func MonthReportFilename(propertyName string, month time.Month, year int) string {
	return fmt.Sprintf("HostFlow_%s_%s_%d.pdf", underscored(propertyName), month, year)
}

// ShoppingListFilename builds the restock list download name, e.g.
// "Shopping_List_Seaview_Cottage_2025-08-30.pdf".
func ShoppingListFilename(propertyName string, generatedAt time.Time) string {
	return fmt.Sprintf("Shopping_List_%s_%s.pdf", underscored(propertyName), generatedAt.Format("2006-01-02"))
}

func underscored(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
