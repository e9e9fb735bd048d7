package entity

import (
	"time"

	"github.com/google/uuid"
)

type HoldStatus string

const (
	HoldStatusPending   HoldStatus = "pending"
	HoldStatusSigned    HoldStatus = "signed"
	HoldStatusConverted HoldStatus = "converted"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusReleased  HoldStatus = "released"
)

// SlotHold is a time-boxed exclusive claim on a station/date/time slot taken
// while a customer completes checkout. EventDate and SlotTime stay separate
// columns through the whole lifecycle, same as Booking.
//
// Expiry is passive: a pending or signed row past ExpiresAt no longer blocks
// the slot even if its status column has not been swept yet.
type SlotHold struct {
	ID            uuid.UUID  `db:"id"`
	StationID     uuid.UUID  `db:"station_id"`
	EventDate     time.Time  `db:"event_date"`
	SlotTime      string     `db:"slot_time"`
	CustomerEmail string     `db:"customer_email"`
	CustomerName  string     `db:"customer_name"`
	GuestCount    int        `db:"guest_count"`
	Status        HoldStatus `db:"status"`
	Token         uuid.UUID  `db:"token"`
	CreatedAt     time.Time  `db:"created_at"`
	ExpiresAt     time.Time  `db:"expires_at"`
}

// Active reports whether the hold still blocks its slot at the given time.
func (h *SlotHold) Active(now time.Time) bool {
	if h.Status != HoldStatusPending && h.Status != HoldStatusSigned {
		return false
	}
	return h.ExpiresAt.After(now)
}

// EffectiveStatus derives the status against the clock: a stored pending or
// signed status past expiry reads as expired.
func (h *SlotHold) EffectiveStatus(now time.Time) HoldStatus {
	if (h.Status == HoldStatusPending || h.Status == HoldStatusSigned) && !h.ExpiresAt.After(now) {
		return HoldStatusExpired
	}
	return h.Status
}
