package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hostflow/hostflow/internal/finance"
	"github.com/hostflow/hostflow/internal/platform/httpx"
	"github.com/hostflow/hostflow/internal/shared"
)

const dateTimeLayout = time.RFC3339

// Handler wires the inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountPropertyRoutes registers the routes nested under a property.
func (h *Handler) MountPropertyRoutes(r chi.Router) {
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Get("/logs", h.ListLogs)
}

// MountRoutes registers the item-scoped routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/{itemID}", h.UpdateItem)
	r.Delete("/{itemID}", h.DeleteItem)
	r.Post("/{itemID}/adjust", h.AdjustStock)
}

type itemForm struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	MinStock    int     `json:"min_stock" validate:"gte=0"`
	CostPerUnit float64 `json:"cost_per_unit" validate:"gte=0"`
	Permanent   bool    `json:"permanent"`
}

type adjustmentForm struct {
	Action        string   `json:"action" validate:"required,oneof=RESTOCK DISPATCH"`
	Quantity      float64  `json:"quantity" validate:"gt=0"`
	PriceOverride *float64 `json:"price_override" validate:"omitempty,gte=0"`
	OccurredAt    string   `json:"occurred_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ListItems responds with the property's inventory.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	propertyID, ok := pathID(w, r, "propertyID")
	if !ok {
		return
	}
	items, err := h.service.ListItems(r.Context(), propertyID, hostID)
	if err != nil {
		h.logger.Error("list items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// CreateItem stores an item under the property.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	propertyID, ok := pathID(w, r, "propertyID")
	if !ok {
		return
	}
	var form itemForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	item, err := h.service.CreateItem(r.Context(), Item{
		PropertyID:  propertyID,
		Name:        form.Name,
		Quantity:    form.Quantity,
		MinStock:    form.MinStock,
		CostPerUnit: form.CostPerUnit,
		Permanent:   form.Permanent,
	}, hostID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// ListLogs responds with the property's recent stock movements.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	propertyID, ok := pathID(w, r, "propertyID")
	if !ok {
		return
	}
	logs, err := h.service.ListLogs(r.Context(), propertyID, hostID)
	if err != nil {
		h.logger.Error("list logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if logs == nil {
		logs = []Log{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// UpdateItem overwrites an owned item.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var form itemForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	err := h.service.UpdateItem(r.Context(), Item{
		ID:          id,
		Name:        form.Name,
		Quantity:    form.Quantity,
		MinStock:    form.MinStock,
		CostPerUnit: form.CostPerUnit,
		Permanent:   form.Permanent,
	}, hostID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem removes an owned item.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := h.service.DeleteItem(r.Context(), id, hostID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustStock records a restock or dispatch against an owned item.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var form adjustmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	var occurredAt time.Time
	if form.OccurredAt != "" {
		occurredAt, _ = time.Parse(dateTimeLayout, form.OccurredAt)
	}
	log, err := h.service.AdjustStock(r.Context(), Adjustment{
		ItemID:        id,
		Action:        finance.Action(form.Action),
		Quantity:      form.Quantity,
		PriceOverride: form.PriceOverride,
		OccurredAt:    occurredAt,
	}, hostID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, log)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return id, true
}
