package request

type CreateHoldRequest struct {
	StationID     string `json:"station_id" validate:"required,uuid"`
	EventDate     string `json:"event_date" validate:"required,datetime=2006-01-02"`
	SlotTime      string `json:"slot_time" validate:"required,datetime=15:04"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerName  string `json:"customer_name" validate:"required,min=2,max=100"`
	GuestCount    int    `json:"guest_count" validate:"required,min=1,max=100"`
}

type ConvertHoldRequest struct {
	TotalPrice float64 `json:"total_price" validate:"min=0"`
}

type SlotQuery struct {
	StationID string `json:"station_id" validate:"required,uuid"`
	EventDate string `json:"event_date" validate:"required,datetime=2006-01-02"`
	SlotTime  string `json:"slot_time" validate:"required,datetime=15:04"`
}
