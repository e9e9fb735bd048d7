package repository

import (
	"hibachi-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Station     StationRepository
	Booking     BookingRepository
	SlotHold    SlotHoldRepository
	TravelCache TravelCacheRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Station:     NewStationRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		SlotHold:    NewSlotHoldRepository(db, log),
		TravelCache: NewTravelCacheRepository(db, log),
	}
}
