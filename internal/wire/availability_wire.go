package wire

import (
	"hibachi-booking/internal/adaptor"
	"hibachi-booking/pkg/middleware"
	"hibachi-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(
	r chi.Router,
	handler *adaptor.AvailabilityHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/holds - Claim a slot for checkout
	r.Post("/api/holds", handler.CreateHold)

	// Hold lifecycle by token
	r.Route("/api/holds/{token}", func(r chi.Router) {
		r.Get("/", handler.ValidateHold)
		r.Post("/sign", handler.SignHold)
		r.Post("/release", handler.ReleaseHold)
		r.Post("/convert", handler.ConvertHold)
	})

	// GET /api/availability - Combined hold+booking slot check
	r.Get("/api/availability", handler.CheckSlot)

	// GET /api/availability/holds - Active holds for a slot
	r.Get("/api/availability/holds", handler.ActiveHolds)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/holds", func(r chi.Router) {
		r.Use(middleware.AdminKey(config.Admin.APIKey, log))

		// POST /api/admin/holds/sweep - Flip genuinely expired holds
		r.Post("/sweep", handler.SweepHolds)
	})
}
