package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hibachi-booking/internal/data/repository"
	"hibachi-booking/internal/dto/request"
	"hibachi-booking/internal/usecase"
	"hibachi-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// CreateHold handles POST /api/holds
func (h *AvailabilityHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	hold, err := h.service.CreateHold(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create hold")
		return
	}

	utils.ResponseCreated(w, "success", hold)
}

// ValidateHold handles GET /api/holds/{token}
func (h *AvailabilityHandler) ValidateHold(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	hold, err := h.service.ValidateHold(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err, "validate hold")
		return
	}

	if hold == nil {
		utils.ResponseNotFound(w, "Hold not found")
		return
	}

	utils.ResponseSuccess(w, "success", hold)
}

// SignHold handles POST /api/holds/{token}/sign
func (h *AvailabilityHandler) SignHold(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	hold, err := h.service.SignHold(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err, "sign hold")
		return
	}

	utils.ResponseSuccess(w, "success", hold)
}

// ReleaseHold handles POST /api/holds/{token}/release
func (h *AvailabilityHandler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	hold, err := h.service.ReleaseHold(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err, "release hold")
		return
	}

	utils.ResponseSuccess(w, "success", hold)
}

// ConvertHold handles POST /api/holds/{token}/convert
func (h *AvailabilityHandler) ConvertHold(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req request.ConvertHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.ConvertHold(r.Context(), token, req.TotalPrice)
	if err != nil {
		h.handleServiceError(w, err, "convert hold")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// CheckSlot handles GET /api/availability
func (h *AvailabilityHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.SlotQuery{
		StationID: query.Get("station_id"),
		EventDate: query.Get("event_date"),
		SlotTime:  query.Get("slot_time"),
	}

	availability, err := h.service.CheckSlot(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "check slot")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// ActiveHolds handles GET /api/availability/holds
func (h *AvailabilityHandler) ActiveHolds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.SlotQuery{
		StationID: query.Get("station_id"),
		EventDate: query.Get("event_date"),
		SlotTime:  query.Get("slot_time"),
	}

	holds, err := h.service.ActiveHoldsForSlot(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "list active holds")
		return
	}

	utils.ResponseSuccess(w, "success", holds)
}

// SweepHolds handles POST /api/admin/holds/sweep (admin)
func (h *AvailabilityHandler) SweepHolds(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ExpireStaleHolds(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "sweep holds")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int64{"expired": count})
}

func (h *AvailabilityHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, repository.ErrSlotUnavailable):
		h.log.Warn(operation+" failed - slot unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Slot unavailable, please pick another time")

	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "cannot"):
		h.log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
