package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"hibachi-booking/internal/dto/request"
	"hibachi-booking/internal/usecase"
	"hibachi-booking/pkg/utils"

	"go.uber.org/zap"
)

type TravelHandler struct {
	service usecase.TravelService
	log     *zap.Logger
}

func NewTravelHandler(service usecase.TravelService, log *zap.Logger) *TravelHandler {
	return &TravelHandler{
		service: service,
		log:     log.With(zap.String("handler", "travel")),
	}
}

// Quote handles POST /api/travel/quote
func (h *TravelHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req request.TravelQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			utils.ResponseBadRequest(w, err.Error(), nil)
			return
		}
		h.log.Error("Failed to quote travel", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// CacheStats handles GET /api/admin/travel/cache/stats (admin)
func (h *TravelHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.Stats())
}

// CacheCleanup handles POST /api/admin/travel/cache/cleanup (admin)
func (h *TravelHandler) CacheCleanup(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CleanupExpired(r.Context())
	if err != nil {
		h.log.Error("Failed to clean up travel cache", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int64{"removed": count})
}
