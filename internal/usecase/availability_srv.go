package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/internal/data/repository"
	"hibachi-booking/internal/dto/request"
	"hibachi-booking/internal/dto/response"
	"hibachi-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService is the concurrency guard for booking checkout: it
// claims a station/date/time slot with a short-lived hold so no two
// customers can be told the same slot is free while one of them finishes.
type AvailabilityService interface {
	CreateHold(ctx context.Context, req *request.CreateHoldRequest) (*response.HoldResponse, error)
	ValidateHold(ctx context.Context, token string) (*response.HoldResponse, error)
	SignHold(ctx context.Context, token string) (*response.HoldResponse, error)
	ReleaseHold(ctx context.Context, token string) (*response.HoldResponse, error)
	ConvertHold(ctx context.Context, token string, totalPrice float64) (*response.BookingResponse, error)
	CheckSlot(ctx context.Context, req *request.SlotQuery) (*response.SlotAvailabilityResponse, error)
	ActiveHoldsForSlot(ctx context.Context, req *request.SlotQuery) ([]*response.HoldResponse, error)
	ExpireStaleHolds(ctx context.Context) (int64, error)
}

type availabilityService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAvailabilityService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "availability")),
		now:    time.Now,
	}
}

func (s *availabilityService) CreateHold(ctx context.Context, req *request.CreateHoldRequest) (*response.HoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create hold validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	stationID, eventDate, slotTime, err := parseSlot(req.StationID, req.EventDate, req.SlotTime)
	if err != nil {
		return nil, err
	}

	station, err := s.repo.Station.FindByID(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("look up station: %w", err)
	}
	if station == nil || !station.IsActive {
		return nil, fmt.Errorf("station %s not found", req.StationID)
	}

	now := s.now()

	// The sole availability gate: active holds and blocking bookings both
	// make the slot unavailable. Store faults propagate — assuming a slot
	// is free on a failed check would defeat the component.
	held, err := s.isSlotHeldOrBooked(ctx, stationID, eventDate, slotTime, now)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, repository.ErrSlotUnavailable
	}

	hold := &entity.SlotHold{
		ID:            utils.GenerateUUID(),
		StationID:     stationID,
		EventDate:     eventDate,
		SlotTime:      slotTime,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		GuestCount:    req.GuestCount,
		Status:        entity.HoldStatusPending,
		Token:         utils.GenerateHoldToken(),
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(s.config.Hold.ExpiryMinutes) * time.Minute),
	}

	// The check above and this insert race under concurrent writers; the
	// partial unique index on active holds decides the loser, which gets
	// the same unavailable outcome as the pre-check.
	if err := s.repo.SlotHold.Insert(ctx, hold); err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return nil, repository.ErrSlotUnavailable
		}
		return nil, fmt.Errorf("create hold: %w", err)
	}

	s.log.Info("Slot hold created",
		zap.String("hold_id", hold.ID.String()),
		zap.String("station_id", stationID.String()),
		zap.String("event_date", eventDate.Format("2006-01-02")),
		zap.String("slot_time", slotTime),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	return toHoldResponse(hold, now), nil
}

// ValidateHold looks up a hold by its opaque token. Absent tokens return
// nil without error; found holds carry their clock-derived status, so a
// caller can tell expired from released from converted.
func (s *availabilityService) ValidateHold(ctx context.Context, token string) (*response.HoldResponse, error) {
	tok, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	hold, err := s.repo.SlotHold.FindByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("validate hold: %w", err)
	}
	if hold == nil {
		return nil, nil
	}

	return toHoldResponse(hold, s.now()), nil
}

func (s *availabilityService) SignHold(ctx context.Context, token string) (*response.HoldResponse, error) {
	hold, err := s.findActionableHold(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if hold.EffectiveStatus(now) != entity.HoldStatusPending {
		return nil, fmt.Errorf("cannot sign hold in status %s", hold.EffectiveStatus(now))
	}

	if err := s.repo.SlotHold.UpdateStatus(ctx, hold.ID, entity.HoldStatusSigned); err != nil {
		return nil, fmt.Errorf("sign hold: %w", err)
	}

	hold.Status = entity.HoldStatusSigned
	return toHoldResponse(hold, now), nil
}

// ReleaseHold cancels a hold explicitly. Only pending holds may be
// released by the holder.
func (s *availabilityService) ReleaseHold(ctx context.Context, token string) (*response.HoldResponse, error) {
	hold, err := s.findActionableHold(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if hold.EffectiveStatus(now) != entity.HoldStatusPending {
		return nil, fmt.Errorf("cannot release hold in status %s", hold.EffectiveStatus(now))
	}

	if err := s.repo.SlotHold.UpdateStatus(ctx, hold.ID, entity.HoldStatusReleased); err != nil {
		return nil, fmt.Errorf("release hold: %w", err)
	}

	s.log.Info("Slot hold released", zap.String("hold_id", hold.ID.String()))

	hold.Status = entity.HoldStatusReleased
	return toHoldResponse(hold, now), nil
}

// ConvertHold finalizes a hold into a confirmed booking for the same slot.
// The booking keeps event_date and slot_time as separate columns, exactly
// as the hold stored them.
func (s *availabilityService) ConvertHold(ctx context.Context, token string, totalPrice float64) (*response.BookingResponse, error) {
	hold, err := s.findActionableHold(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := hold.EffectiveStatus(now)
	if status != entity.HoldStatusPending && status != entity.HoldStatusSigned {
		return nil, fmt.Errorf("cannot convert hold in status %s", status)
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:       utils.GenerateOrderID(),
		StationID:     hold.StationID,
		EventDate:     hold.EventDate,
		SlotTime:      hold.SlotTime,
		CustomerEmail: hold.CustomerEmail,
		CustomerName:  hold.CustomerName,
		GuestCount:    hold.GuestCount,
		TotalPrice:    totalPrice,
		Status:        entity.BookingStatusConfirmed,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("convert hold: %w", err)
	}

	if err := s.repo.SlotHold.UpdateStatus(ctx, hold.ID, entity.HoldStatusConverted); err != nil {
		// The booking exists and blocks the slot; the stale hold is
		// harmless for availability and the sweep will expire it.
		s.log.Error("Booking created but hold status update failed",
			zap.Error(err),
			zap.String("hold_id", hold.ID.String()),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	s.log.Info("Slot hold converted",
		zap.String("hold_id", hold.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
	)

	return toBookingResponse(booking), nil
}

func (s *availabilityService) CheckSlot(ctx context.Context, req *request.SlotQuery) (*response.SlotAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	stationID, eventDate, slotTime, err := parseSlot(req.StationID, req.EventDate, req.SlotTime)
	if err != nil {
		return nil, err
	}

	held, err := s.isSlotHeldOrBooked(ctx, stationID, eventDate, slotTime, s.now())
	if err != nil {
		return nil, err
	}

	return &response.SlotAvailabilityResponse{
		StationID: req.StationID,
		EventDate: eventDate.Format("2006-01-02"),
		SlotTime:  slotTime,
		Available: !held,
	}, nil
}

func (s *availabilityService) ActiveHoldsForSlot(ctx context.Context, req *request.SlotQuery) ([]*response.HoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	stationID, eventDate, slotTime, err := parseSlot(req.StationID, req.EventDate, req.SlotTime)
	if err != nil {
		return nil, err
	}

	now := s.now()
	holds, err := s.repo.SlotHold.FindActiveBySlot(ctx, stationID, eventDate, slotTime, now)
	if err != nil {
		return nil, err
	}

	out := make([]*response.HoldResponse, len(holds))
	for i, hold := range holds {
		out[i] = toHoldResponse(hold, now)
	}
	return out, nil
}

// ExpireStaleHolds reconciles stored statuses with the clock. Availability
// never depends on it having run.
func (s *availabilityService) ExpireStaleHolds(ctx context.Context) (int64, error) {
	count, err := s.repo.SlotHold.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.log.Info("Expired stale holds", zap.Int64("count", count))
	}
	return count, nil
}

func (s *availabilityService) isSlotHeldOrBooked(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) (bool, error) {
	held, err := s.repo.SlotHold.ExistsActiveBySlot(ctx, stationID, eventDate, slotTime, now)
	if err != nil {
		return false, fmt.Errorf("check slot holds: %w", err)
	}
	if held {
		return true, nil
	}

	booked, err := s.repo.Booking.ExistsBlockingBySlot(ctx, stationID, eventDate, slotTime)
	if err != nil {
		return false, fmt.Errorf("check slot bookings: %w", err)
	}
	return booked, nil
}

// findActionableHold resolves a token to its hold for a state transition.
func (s *availabilityService) findActionableHold(ctx context.Context, token string) (*entity.SlotHold, error) {
	tok, err := uuid.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("hold %s not found", token)
	}

	hold, err := s.repo.SlotHold.FindByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("look up hold: %w", err)
	}
	if hold == nil {
		return nil, fmt.Errorf("hold %s not found", token)
	}

	return hold, nil
}

func parseSlot(stationID, eventDate, slotTime string) (uuid.UUID, time.Time, string, error) {
	id, err := uuid.Parse(stationID)
	if err != nil {
		return uuid.Nil, time.Time{}, "", fmt.Errorf("invalid station ID format %s: %w", stationID, err)
	}

	date, err := utils.ParseEventDate(eventDate)
	if err != nil {
		return uuid.Nil, time.Time{}, "", fmt.Errorf("invalid event date %s: %w", eventDate, err)
	}

	slot, err := utils.NormalizeSlotTime(slotTime)
	if err != nil {
		return uuid.Nil, time.Time{}, "", fmt.Errorf("invalid slot time %s: %w", slotTime, err)
	}

	return id, date, slot, nil
}

func toHoldResponse(hold *entity.SlotHold, now time.Time) *response.HoldResponse {
	return &response.HoldResponse{
		ID:            hold.ID.String(),
		StationID:     hold.StationID.String(),
		EventDate:     hold.EventDate.Format("2006-01-02"),
		SlotTime:      hold.SlotTime,
		CustomerEmail: hold.CustomerEmail,
		CustomerName:  hold.CustomerName,
		GuestCount:    hold.GuestCount,
		Status:        string(hold.EffectiveStatus(now)),
		Token:         hold.Token.String(),
		CreatedAt:     hold.CreatedAt,
		ExpiresAt:     hold.ExpiresAt,
	}
}
