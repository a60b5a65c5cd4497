package domain

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Venue struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location GeoPoint `json:"location"`
}

type HotelOption struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Address        string   `json:"address"`
	Location       GeoPoint `json:"location"`
	DistanceMeters *int     `json:"distance_meters,omitempty"`
	WalkMinutes    *int     `json:"walk_minutes,omitempty"`
}
