package entity

// Station is a hibachi service station: the base a chef crew operates from.
// Its coordinates are the origin for travel fee quotes.
type Station struct {
	BaseNoDelete
	Name     string  `db:"name"`
	City     string  `db:"city"`
	Lat      float64 `db:"lat"`
	Lng      float64 `db:"lng"`
	IsActive bool    `db:"is_active"`
}
