package entity

import (
	"fmt"
	"math"
	"time"
)

type TravelSource string

const (
	TravelSourceGoogleMaps TravelSource = "google_maps"
	TravelSourceOpenRoute  TravelSource = "openroute"
	TravelSourceCache      TravelSource = "cache"
	TravelSourceEstimate   TravelSource = "estimate"
)

// TravelCacheKey identifies one cached travel computation. Coordinates are
// rounded to 3 decimal places (~100 m), trading positional accuracy for hit
// rate: two addresses within ~100 m collapse to the same entry.
type TravelCacheKey struct {
	OriginLat float64
	OriginLng float64
	DestLat   float64
	DestLng   float64
	RushHour  bool
}

// NewTravelCacheKey rounds the raw coordinates into a cache key.
func NewTravelCacheKey(originLat, originLng, destLat, destLng float64, rushHour bool) TravelCacheKey {
	return TravelCacheKey{
		OriginLat: roundCoord(originLat),
		OriginLng: roundCoord(originLng),
		DestLat:   roundCoord(destLat),
		DestLng:   roundCoord(destLng),
		RushHour:  rushHour,
	}
}

func (k TravelCacheKey) String() string {
	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f:%t",
		k.OriginLat, k.OriginLng, k.DestLat, k.DestLng, k.RushHour)
}

func roundCoord(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// TravelEstimate is a travel time/distance result for a coordinate pair.
type TravelEstimate struct {
	TravelTimeMinutes int          `json:"travel_time_minutes"`
	DistanceMiles     float64      `json:"distance_miles"`
	Source            TravelSource `json:"source"`
}

// TravelCacheEntry is the persistent-tier row backing one estimate.
type TravelCacheEntry struct {
	TravelCacheKey
	TravelTimeMinutes int
	DistanceMiles     float64
	Source            TravelSource
	HitCount          int
	CreatedAt         time.Time
	ExpiresAt         time.Time
}
