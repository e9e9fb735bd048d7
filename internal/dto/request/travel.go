package request

type TravelQuoteRequest struct {
	OriginLat float64 `json:"origin_lat" validate:"latitude"`
	OriginLng float64 `json:"origin_lng" validate:"longitude"`
	DestLat   float64 `json:"dest_lat" validate:"latitude"`
	DestLng   float64 `json:"dest_lng" validate:"longitude"`
	RushHour  bool    `json:"is_rush_hour"`
}
