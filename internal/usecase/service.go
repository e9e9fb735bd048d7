package usecase

import (
	"hibachi-booking/internal/data/repository"
	"hibachi-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Availability AvailabilityService
	Travel       TravelService
	Booking      BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Availability: NewAvailabilityService(repo, config, log),
		Travel:       NewTravelService(repo.TravelCache, config.Travel, log),
		Booking:      NewBookingService(repo, log),
	}
}
