package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hostflow/hostflow/internal/finance"
	"github.com/hostflow/hostflow/internal/finance/export"
	"github.com/hostflow/hostflow/internal/platform/httpx"
	"github.com/hostflow/hostflow/internal/shared"
)

type fakeSources struct {
	name      string
	nameErr   error
	bookings  []finance.Booking
	items     []finance.Item
	movements []finance.Movement
}

func (f *fakeSources) PropertyName(ctx context.Context, propertyID, hostID int64) (string, error) {
	if f.nameErr != nil {
		return "", f.nameErr
	}
	return f.name, nil
}

func (f *fakeSources) BookingSnapshots(ctx context.Context, propertyID int64) ([]finance.Booking, error) {
	return f.bookings, nil
}

func (f *fakeSources) ItemSnapshots(ctx context.Context, propertyID int64) ([]finance.Item, error) {
	return f.items, nil
}

func (f *fakeSources) MovementSnapshots(ctx context.Context, propertyID int64) ([]finance.Movement, error) {
	return f.movements, nil
}

func testRouter(src *fakeSources, hostID int64) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, finance.NewService(src, src, src), export.NewExporter())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &shared.Session{}
			if hostID != 0 {
				sess.SetHost(hostID)
			}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/properties/{propertyID}", h.MountPropertyRoutes)
	return r
}

func seaviewSources() *fakeSources {
	june := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	return &fakeSources{
		name: "Seaview Cottage",
		bookings: []finance.Booking{
			{GuestName: "Asha", PayoutAmount: 1000, CheckIn: june},
		},
		movements: []finance.Movement{
			{ItemName: "Soap", Action: finance.ActionRestock, Quantity: 2, PriceAtTime: 100, OccurredAt: june},
		},
		items: []finance.Item{
			{Name: "Soap", Quantity: 1, MinStock: 5, CostPerUnit: 50},
			{Name: "Towels", Quantity: 20, MinStock: 4, CostPerUnit: 300},
		},
	}
}

func TestSummaryReturnsStatementJSON(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/summary?year=2025&granularity=quarterly")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stmt finance.Statement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stmt))
	require.Equal(t, "Seaview Cottage", stmt.PropertyName)
	require.Len(t, stmt.Periods, 4)
	require.Equal(t, 1000.0, stmt.Totals.Revenue)
	require.Equal(t, 200.0, stmt.Totals.Expense)
}

func TestSummaryRejectsUnknownGranularity(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/summary?granularity=weekly")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummaryRequiresSession(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 0))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/summary")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSummarySingleMonth(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/summary?year=2025&month=6")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stmt finance.Statement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stmt))
	require.Len(t, stmt.Periods, 1)
	require.Equal(t, "June", stmt.Periods[0].Label)
	require.Equal(t, 1000.0, stmt.Totals.Revenue)
	require.Equal(t, 200.0, stmt.Totals.Expense)
}

func TestSummaryRejectsOutOfRangeMonth(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/summary?month=13")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLowStockListsEveryConsumable(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/inventory/low-stock")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Stock []finance.StockStatus `json:"stock"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Stock, 2)
	require.True(t, body.Stock[0].Low)
	require.Equal(t, "Soap", body.Stock[0].Item.Name)
}

func TestFinancialReportDownload(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/report.pdf?year=2025&granularity=monthly")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "HostFlow_Seaview_Cottage_monthly_2025.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestMonthReportDownloadFilename(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/report.pdf?year=2025&month=6")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "HostFlow_Seaview_Cottage_June_2025.pdf")
}

func TestExportRateKeyPrefersSessionHost(t *testing.T) {
	sess := &shared.Session{}
	sess.SetHost(42)
	req := httptest.NewRequest(http.MethodGet, "/properties/7/finance/report.pdf", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	key, err := exportRateKey(req)
	require.NoError(t, err)
	require.Equal(t, "host:42", key)
}

func TestExportRateKeyFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/properties/7/finance/report.pdf", nil)
	req.RemoteAddr = "203.0.113.9:51000"

	key, err := exportRateKey(req)
	require.NoError(t, err)
	require.Equal(t, "ip:203.0.113.9", key)
}

func TestExportRateLimitTripsPerHost(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	var last int
	for i := 0; i < pdfRateLimit+1; i++ {
		resp, err := http.Get(srv.URL + "/properties/7/inventory/shopping-list.pdf")
		require.NoError(t, err)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		last = resp.StatusCode
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestShoppingListDownload(t *testing.T) {
	srv := httptest.NewServer(testRouter(seaviewSources(), 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/inventory/shopping-list.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "Shopping_List_Seaview_Cottage_")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestReportMapsMissingPropertyTo404(t *testing.T) {
	src := seaviewSources()
	src.nameErr = fmt.Errorf("%w: property 7", httpx.ErrNotFound)
	srv := httptest.NewServer(testRouter(src, 1))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/properties/7/finance/report.pdf")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
