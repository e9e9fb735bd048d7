package repository

import (
	"context"
	"fmt"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/pkg/database"
	"hibachi-booking/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	ExistsBlockingBySlot(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string) (bool, error)

	// Fetch and Count satisfy pagination.Source for cursor-paginated
	// listings ordered by created_at with id as tie-break.
	Fetch(ctx context.Context, w pagination.Window) ([]*entity.Booking, error)
	Count(ctx context.Context) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, station_id, event_date, to_char(slot_time, 'HH24:MI'), customer_email, customer_name, guest_count, total_price, status, created_at, updated_at, deleted_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, order_id, station_id, event_date, slot_time, customer_email, customer_name, guest_count, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::time, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.StationID,
		booking.EventDate,
		booking.SlotTime,
		booking.CustomerEmail,
		booking.CustomerName,
		booking.GuestCount,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("station_id", booking.StationID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`

	booking, err := r.scanOne(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

// ExistsBlockingBySlot reports whether a booking still claims the slot.
// Cancelled, completed and deleted bookings do not block; date and time are
// matched against their separate columns.
func (r *bookingRepository) ExistsBlockingBySlot(ctx context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE station_id = $1
			  AND event_date = $2
			  AND slot_time = $3::time
			  AND status NOT IN ('cancelled', 'completed', 'deleted')
			  AND deleted_at IS NULL
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, stationID, eventDate, slotTime).Scan(&exists); err != nil {
		r.log.Error("Failed to check blocking bookings", zap.Error(err))
		return false, fmt.Errorf("check blocking bookings: %w", err)
	}

	return exists, nil
}

func (r *bookingRepository) Fetch(ctx context.Context, w pagination.Window) ([]*entity.Booking, error) {
	where, orderBy, args := w.SQL("created_at", "id", 1)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE deleted_at IS NULL
	`
	if where != "" {
		query += " AND " + where
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT %d", orderBy, w.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to fetch bookings page", zap.Error(err))
		return nil, fmt.Errorf("fetch bookings page: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) scanOne(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.StationID,
		&booking.EventDate,
		&booking.SlotTime,
		&booking.CustomerEmail,
		&booking.CustomerName,
		&booking.GuestCount,
		&booking.TotalPrice,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
