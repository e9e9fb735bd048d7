package response

import "time"

type BookingResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	StationID     string    `json:"station_id"`
	EventDate     string    `json:"event_date"`
	SlotTime      string    `json:"slot_time"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	GuestCount    int       `json:"guest_count"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type StationResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	IsActive bool    `json:"is_active"`
}
