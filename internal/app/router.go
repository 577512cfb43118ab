package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hostflow/hostflow/internal/auth"
	"github.com/hostflow/hostflow/internal/bookings"
	"github.com/hostflow/hostflow/internal/inventory"
	"github.com/hostflow/hostflow/internal/observability"
	"github.com/hostflow/hostflow/internal/properties"
	"github.com/hostflow/hostflow/internal/reports"
	"github.com/hostflow/hostflow/internal/shared"
	"github.com/hostflow/hostflow/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	AuthHandler      *auth.Handler
	PropertyHandler  *properties.Handler
	BookingHandler   *bookings.Handler
	InventoryHandler *inventory.Handler
	ReportHandler    *reports.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with HostFlow defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/properties", func(r chi.Router) {
		params.PropertyHandler.MountRoutes(r)
		r.Route("/{propertyID}", func(r chi.Router) {
			params.PropertyHandler.MountPropertyRoutes(r)
			r.Route("/bookings", params.BookingHandler.MountPropertyRoutes)
			params.InventoryHandler.MountPropertyRoutes(r)
			params.ReportHandler.MountPropertyRoutes(r)
		})
	})
	r.Route("/bookings", params.BookingHandler.MountRoutes)
	r.Route("/items", params.InventoryHandler.MountRoutes)

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
