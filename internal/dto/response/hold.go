package response

import "time"

type HoldResponse struct {
	ID            string    `json:"id"`
	StationID     string    `json:"station_id"`
	EventDate     string    `json:"event_date"`
	SlotTime      string    `json:"slot_time"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	GuestCount    int       `json:"guest_count"`
	Status        string    `json:"status"`
	Token         string    `json:"token"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type SlotAvailabilityResponse struct {
	StationID string `json:"station_id"`
	EventDate string `json:"event_date"`
	SlotTime  string `json:"slot_time"`
	Available bool   `json:"available"`
}
