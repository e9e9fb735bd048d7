package wire

import (
	"hibachi-booking/internal/adaptor"
	"hibachi-booking/pkg/middleware"
	"hibachi-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTravel(
	r chi.Router,
	handler *adaptor.TravelHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// POST /api/travel/quote - Travel time/distance/fee quote (cached)
	r.Post("/api/travel/quote", handler.Quote)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/travel/cache", func(r chi.Router) {
		r.Use(middleware.AdminKey(config.Admin.APIKey, log))

		// GET /api/admin/travel/cache/stats - Tier hit/miss counters
		r.Get("/stats", handler.CacheStats)

		// POST /api/admin/travel/cache/cleanup - Drop expired rows
		r.Post("/cleanup", handler.CacheCleanup)
	})
}
