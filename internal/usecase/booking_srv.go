package usecase

import (
	"context"
	"fmt"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/internal/data/repository"
	"hibachi-booking/internal/dto/request"
	"hibachi-booking/internal/dto/response"
	"hibachi-booking/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the read surface over finalized bookings: a
// cursor-paginated listing ordered by creation time (id as tie-break),
// lookup by ID, and station reference data.
type BookingService interface {
	ListBookings(ctx context.Context, req *request.CursorRequest) (*pagination.Page[*response.BookingResponse], error)
	GetBookingByID(ctx context.Context, id string) (*response.BookingResponse, error)
	ListStations(ctx context.Context) ([]*response.StationResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	paginator *pagination.Paginator[*entity.Booking]
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	paginator := pagination.New(repo.Booking, pagination.Config[*entity.Booking]{
		Direction:      pagination.Desc,
		Key:            func(b *entity.Booking) any { return b.CreatedAt },
		Secondary:      func(b *entity.Booking) any { return b.ID },
		ParseKey:       pagination.ParseTime,
		ParseSecondary: pagination.ParseUUID,
	})

	return &bookingService{
		repo:      repo,
		paginator: paginator,
		log:       log.With(zap.String("service", "booking")),
	}
}

// ListBookings pages through bookings newest-first. A stale or tampered
// cursor degrades to the first page rather than erroring.
func (s *bookingService) ListBookings(ctx context.Context, req *request.CursorRequest) (*pagination.Page[*response.BookingResponse], error) {
	page, err := s.paginator.Paginate(ctx, req.Cursor, req.Limit, req.IncludeTotal)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	items := make([]*response.BookingResponse, len(page.Items))
	for i, booking := range page.Items {
		items[i] = toBookingResponse(booking)
	}

	return &pagination.Page[*response.BookingResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		PrevCursor: page.PrevCursor,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
		TotalCount: page.TotalCount,
	}, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id string) (*response.BookingResponse, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", id, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}

	return toBookingResponse(booking), nil
}

func (s *bookingService) ListStations(ctx context.Context) ([]*response.StationResponse, error) {
	stations, err := s.repo.Station.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}

	out := make([]*response.StationResponse, len(stations))
	for i, station := range stations {
		out[i] = &response.StationResponse{
			ID:       station.ID.String(),
			Name:     station.Name,
			City:     station.City,
			Lat:      station.Lat,
			Lng:      station.Lng,
			IsActive: station.IsActive,
		}
	}
	return out, nil
}

func toBookingResponse(booking *entity.Booking) *response.BookingResponse {
	return &response.BookingResponse{
		ID:            booking.ID.String(),
		OrderID:       booking.OrderID,
		StationID:     booking.StationID.String(),
		EventDate:     booking.EventDate.Format("2006-01-02"),
		SlotTime:      booking.SlotTime,
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		GuestCount:    booking.GuestCount,
		TotalPrice:    booking.TotalPrice,
		Status:        string(booking.Status),
		CreatedAt:     booking.CreatedAt,
	}
}
