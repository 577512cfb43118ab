package properties

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hostflow/hostflow/internal/platform/httpx"
	"github.com/hostflow/hostflow/internal/shared"
)

// Handler wires the property CRUD endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the collection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
}

// MountPropertyRoutes registers the single-property routes; the caller
// mounts these under a {propertyID} subrouter shared with the nested
// booking, inventory and report routes.
func (h *Handler) MountPropertyRoutes(r chi.Router) {
	r.Get("/", h.Show)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
}

type propertyForm struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Address      string `json:"address" validate:"required,max=240"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

// List responds with the host's property portfolio.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	properties, err := h.service.List(r.Context(), hostID)
	if err != nil {
		h.logger.Error("list properties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if properties == nil {
		properties = []Property{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"properties": properties})
}

// Show responds with a single owned property.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid property id")
		return
	}
	property, err := h.service.Get(r.Context(), id, hostID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, property)
}

// Create stores a new property for the session host.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var form propertyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	property, err := h.service.Create(r.Context(), Property{
		HostID:       hostID,
		Name:         form.Name,
		Address:      form.Address,
		ThumbnailURL: form.ThumbnailURL,
	})
	if err != nil {
		h.logger.Error("create property", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, property)
}

// Update overwrites an owned property.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid property id")
		return
	}
	var form propertyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	err = h.service.Update(r.Context(), Property{
		ID:           id,
		HostID:       hostID,
		Name:         form.Name,
		Address:      form.Address,
		ThumbnailURL: form.ThumbnailURL,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an owned property.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid property id")
		return
	}
	if err := h.service.Delete(r.Context(), id, hostID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
