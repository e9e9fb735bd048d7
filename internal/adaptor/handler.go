package adaptor

import (
	"hibachi-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Availability *AvailabilityHandler
	Travel       *TravelHandler
	Booking      *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Availability: NewAvailabilityHandler(service.Availability, log),
		Travel:       NewTravelHandler(service.Travel, log),
		Booking:      NewBookingHandler(service.Booking, log),
	}
}
