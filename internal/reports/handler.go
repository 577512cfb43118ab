// Package reports exposes the analytics and export endpoints: P&L
// summaries, low-stock status and the downloadable PDF documents.
package reports

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/hostflow/hostflow/internal/finance"
	"github.com/hostflow/hostflow/internal/finance/export"
	"github.com/hostflow/hostflow/internal/platform/httpx"
	"github.com/hostflow/hostflow/internal/shared"
)

// PDF generation walks every log row for the property, so downloads get a
// tighter rate limit than the JSON endpoints.
const (
	pdfRateLimit  = 10
	pdfRateWindow = time.Minute
)

// Handler serves analytics and exports for one property.
type Handler struct {
	logger   *slog.Logger
	finance  *finance.Service
	exporter *export.Exporter
	clock    func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, financeSvc *finance.Service, exporter *export.Exporter) *Handler {
	return &Handler{
		logger:   logger,
		finance:  financeSvc,
		exporter: exporter,
		clock:    time.Now,
	}
}

// MountPropertyRoutes registers the routes nested under a property.
func (h *Handler) MountPropertyRoutes(r chi.Router) {
	r.Get("/finance/summary", h.Summary)
	r.Get("/inventory/low-stock", h.LowStock)
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(pdfRateLimit, pdfRateWindow, httprate.WithKeyFuncs(exportRateKey)))
		r.Get("/finance/report.pdf", h.FinancialReport)
		r.Get("/inventory/shopping-list.pdf", h.ShoppingList)
	})
}

// exportRateKey buckets downloads per authenticated host, falling back to
// the client IP for anonymous requests.
func exportRateKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.Host() != 0 {
		return "host:" + sess.HostToken(), nil
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr, nil
	}
	return "ip:" + ip, nil
}

// Summary responds with the P&L statement as JSON.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	hostID, propertyID, ok := h.scope(w, r)
	if !ok {
		return
	}
	year, granularity, month, ok := h.periodParams(w, r)
	if !ok {
		return
	}
	stmt, err := h.statement(r.Context(), hostID, propertyID, year, granularity, month)
	if err != nil {
		h.logger.Error("build statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stmt)
}

// LowStock responds with the stock classification for every consumable.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	hostID, propertyID, ok := h.scope(w, r)
	if !ok {
		return
	}
	statuses, err := h.finance.StockStatus(r.Context(), hostID, propertyID)
	if err != nil {
		h.logger.Error("resolve stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if statuses == nil {
		statuses = []finance.StockStatus{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stock": statuses})
}

// FinancialReport streams the P&L statement as a PDF download.
func (h *Handler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	hostID, propertyID, ok := h.scope(w, r)
	if !ok {
		return
	}
	year, granularity, month, ok := h.periodParams(w, r)
	if !ok {
		return
	}
	stmt, err := h.statement(r.Context(), hostID, propertyID, year, granularity, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.exporter.FinancialReport(stmt)
	if err != nil {
		h.logger.Error("render financial report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	filename := export.FinancialReportFilename(stmt.PropertyName, granularity, year)
	if month != 0 {
		filename = export.MonthReportFilename(stmt.PropertyName, month, year)
	}
	writePDF(w, filename, doc)
}

// ShoppingList streams the restock shopping list as a PDF download.
func (h *Handler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	hostID, propertyID, ok := h.scope(w, r)
	if !ok {
		return
	}
	list, err := h.finance.ShoppingList(r.Context(), hostID, propertyID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.exporter.ShoppingList(list)
	if err != nil {
		h.logger.Error("render shopping list", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	writePDF(w, export.ShoppingListFilename(list.PropertyName, h.clock()), doc)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (hostID, propertyID int64, ok bool) {
	hostID = shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, 0, false
	}
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid property id")
		return 0, 0, false
	}
	return hostID, propertyID, true
}

// statement dispatches to the single-month build when a month selector is
// present; the month overrides granularity, like the dashboard's month
// picker.
func (h *Handler) statement(ctx context.Context, hostID, propertyID int64, year int, g finance.Granularity, month time.Month) (finance.Statement, error) {
	if month != 0 {
		return h.finance.MonthStatement(ctx, hostID, propertyID, year, month)
	}
	return h.finance.Statement(ctx, hostID, propertyID, year, g)
}

// periodParams reads year, granularity and the optional single-month
// selector, defaulting to the current year and monthly buckets. A zero
// month means no selector was given.
func (h *Handler) periodParams(w http.ResponseWriter, r *http.Request) (int, finance.Granularity, time.Month, bool) {
	year := h.clock().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2200 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid year")
			return 0, "", 0, false
		}
		year = parsed
	}
	granularity := finance.GranularityMonth
	if raw := r.URL.Query().Get("granularity"); raw != "" {
		parsed, err := finance.ParseGranularity(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "granularity must be monthly, quarterly or yearly")
			return 0, "", 0, false
		}
		granularity = parsed
	}
	var month time.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "month must be between 1 and 12")
			return 0, "", 0, false
		}
		month = time.Month(parsed)
	}
	return year, granularity, month, true
}

func writePDF(w http.ResponseWriter, filename string, doc []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
