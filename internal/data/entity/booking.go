package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusDeleted   BookingStatus = "deleted"
)

// Booking is a finalized hibachi event reservation. EventDate and SlotTime
// are stored as separate date and time columns, never a combined timestamp.
type Booking struct {
	Base
	OrderID       string        `db:"order_id"`
	StationID     uuid.UUID     `db:"station_id"`
	EventDate     time.Time     `db:"event_date"`
	SlotTime      string        `db:"slot_time"`
	CustomerEmail string        `db:"customer_email"`
	CustomerName  string        `db:"customer_name"`
	GuestCount    int           `db:"guest_count"`
	TotalPrice    float64       `db:"total_price"`
	Status        BookingStatus `db:"status"`
}

// BlocksSlot reports whether this booking makes its slot unavailable.
// Cancelled, completed and deleted bookings release the slot.
func (b *Booking) BlocksSlot() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusDeleted:
		return false
	default:
		return true
	}
}
