package response

type TravelQuoteResponse struct {
	TravelTimeMinutes int     `json:"travel_time_minutes"`
	DistanceMiles     float64 `json:"distance_miles"`
	Source            string  `json:"source"`
	RushHour          bool    `json:"is_rush_hour"`
	TravelFee         float64 `json:"travel_fee"`
}

type TravelCacheStatsResponse struct {
	MemoryHits     int64 `json:"memory_hits"`
	MemoryMisses   int64 `json:"memory_misses"`
	StoreHits      int64 `json:"store_hits"`
	StoreMisses    int64 `json:"store_misses"`
	Writes         int64 `json:"writes"`
	WriteFailures  int64 `json:"write_failures"`
	MemoryEntries  int   `json:"memory_entries"`
	MemoryCapacity int   `json:"memory_capacity"`
}
