package wire

import (
	"hibachi-booking/internal/adaptor"
	"hibachi-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	handler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// GET /api/bookings - Cursor-paginated listing, newest first
	r.Get("/api/bookings", handler.ListBookings)

	// GET /api/bookings/{id} - Booking details
	r.Get("/api/bookings/{id}", handler.GetBookingByID)

	// GET /api/stations - Active station reference data
	r.Get("/api/stations", handler.ListStations)
}
