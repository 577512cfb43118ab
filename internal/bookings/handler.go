package bookings

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hostflow/hostflow/internal/platform/httpx"
	"github.com/hostflow/hostflow/internal/shared"
)

const dateLayout = "2006-01-02"

// Handler wires the booking endpoints.
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
	r.Get("/", h.List)
	r.Post("/", h.Create)
}

// MountRoutes registers the booking-scoped routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/{bookingID}", h.Update)
	r.Delete("/{bookingID}", h.Delete)
}

type bookingForm struct {
	GuestName    string  `json:"guest_name" validate:"required,max=120"`
	PayoutAmount float64 `json:"payout_amount" validate:"gte=0"`
	CheckIn      string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut     string  `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
}

func (f bookingForm) toBooking() Booking {
	checkIn, _ := time.Parse(dateLayout, f.CheckIn)
	var checkOut time.Time
	if f.CheckOut != "" {
		checkOut, _ = time.Parse(dateLayout, f.CheckOut)
	}
	return Booking{
		GuestName:    f.GuestName,
		PayoutAmount: f.PayoutAmount,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
	}
}

// List responds with the property's bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid property id")
		return
	}
	bookings, err := h.service.ListForProperty(r.Context(), propertyID, hostID)
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// Create stores a booking under the property.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid property id")
		return
	}
	var form bookingForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	booking := form.toBooking()
	booking.PropertyID = propertyID
	created, err := h.service.Create(r.Context(), booking, hostID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update overwrites an owned booking.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid booking id")
		return
	}
	var form bookingForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", httpx.ValidationDetail(err))
		return
	}
	booking := form.toBooking()
	booking.ID = id
	if err := h.service.Update(r.Context(), booking, hostID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an owned booking.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	hostID := shared.HostFromContext(r.Context())
	if hostID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid booking id")
		return
	}
	if err := h.service.Delete(r.Context(), id, hostID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
