package adaptor

import (
	"net/http"
	"strings"

	"hibachi-booking/internal/dto/request"
	"hibachi-booking/internal/usecase"
	"hibachi-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListBookings handles GET /api/bookings. The cursor query parameter is the
// opaque page token from a previous response; limit defaults to 50 and is
// clamped to 100 by the paginator.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.CursorRequest{
		Cursor:       query.Get("cursor"),
		Limit:        utils.ParseInt(query.Get("limit"), 0),
		IncludeTotal: utils.ParseBool(query.Get("include_total")),
	}

	page, err := h.service.ListBookings(r.Context(), &req)
	if err != nil {
		h.log.Error("Failed to list bookings", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.service.GetBookingByID(r.Context(), id)
	if err != nil {
		errMsg := err.Error()
		switch {
		case strings.Contains(errMsg, "not found"):
			utils.ResponseNotFound(w, errMsg)
		case strings.Contains(errMsg, "invalid"):
			utils.ResponseBadRequest(w, errMsg, nil)
		default:
			h.log.Error("Failed to get booking", zap.Error(err))
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListStations handles GET /api/stations
func (h *BookingHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.service.ListStations(r.Context())
	if err != nil {
		h.log.Error("Failed to list stations", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", stations)
}
