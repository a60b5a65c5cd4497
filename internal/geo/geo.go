// Package geo resuelve lugares conocidos de Midtown y filtra hoteles por
// distancia a pie. Es un stub local: no consulta ningun servicio externo.
package geo

import (
	"math"
	"sort"
	"strings"

	"relo-assistant/internal/domain"
)

const (
	earthRadiusMeters = 6371000
	walkMetersPerMin  = 80

	// DefaultRadiusMeters equivale a unos cinco minutos caminando.
	DefaultRadiusMeters = 400
	RelaxedRadiusMeters = 600
)

// Geocode devuelve el venue para una consulta libre. Lo desconocido cae en un
// punto de Midtown con el texto de la consulta como nombre.
func Geocode(query string) domain.Venue {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "javits"):
		return domain.Venue{Name: "Javits Center", Address: "429 11th Ave, New York, NY", Location: domain.GeoPoint{Lat: 40.757777, Lng: -74.00259}}
	case strings.Contains(lower, "times"):
		return domain.Venue{Name: "Times Square Center", Address: "Times Sq, New York, NY", Location: domain.GeoPoint{Lat: 40.758, Lng: -73.9855}}
	default:
		return domain.Venue{Name: query, Address: query, Location: domain.GeoPoint{Lat: 40.7549, Lng: -73.984}}
	}
}

// HaversineMeters es la distancia de gran circulo entre dos puntos.
func HaversineMeters(a, b domain.GeoPoint) float64 {
	toRad := func(x float64) float64 { return x * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func WalkMinutes(meters float64) int {
	return int(math.Round(meters / walkMetersPerMin))
}

// Hotels es el inventario fijo alrededor de Midtown y Javits.
func Hotels() []domain.HotelOption {
	return []domain.HotelOption{
		{ID: "h1", Name: "Hudson West Hotel", Price: 210, Address: "442 W 36th St, NY", Location: domain.GeoPoint{Lat: 40.7549, Lng: -73.997}},
		{ID: "h2", Name: "The High Line Stay", Price: 240, Address: "10th Ave, NY", Location: domain.GeoPoint{Lat: 40.7479, Lng: -74.0047}},
		{ID: "h3", Name: "Midtown Petite Inn", Price: 180, Address: "W 37th St, NY", Location: domain.GeoPoint{Lat: 40.7537, Lng: -73.991}},
		{ID: "h4", Name: "Times Square Budget", Price: 195, Address: "W 43rd St, NY", Location: domain.GeoPoint{Lat: 40.7587, Lng: -73.987}},
		{ID: "h5", Name: "Chelsea Corner Hotel", Price: 220, Address: "W 23rd St, NY", Location: domain.GeoPoint{Lat: 40.7465, Lng: -73.995}},
		{ID: "h6", Name: "Hell’s Kitchen Suites", Price: 260, Address: "9th Ave, NY", Location: domain.GeoPoint{Lat: 40.7622, Lng: -73.9915}},
		{ID: "h7", Name: "Garry’s Midtown Lodge", Price: 235, Address: "8th Ave, NY", Location: domain.GeoPoint{Lat: 40.7572, Lng: -73.989}},
		{ID: "h8", Name: "Javits Walk Hotel", Price: 205, Address: "11th Ave, NY", Location: domain.GeoPoint{Lat: 40.7568, Lng: -74.0035}},
	}
}

// Nearby filtra el inventario por radio y presupuesto. Si no queda nada se
// reintenta con el radio relajado. El resultado va ordenado por precio y
// despues por distancia. budget <= 0 no filtra por precio. Devuelve el radio
// efectivamente usado.
func Nearby(venue domain.Venue, budget float64) ([]domain.HotelOption, int) {
	all := Hotels()
	for i := range all {
		d := HaversineMeters(venue.Location, all[i].Location)
		dist := int(math.Round(d))
		walk := WalkMinutes(d)
		all[i].DistanceMeters = &dist
		all[i].WalkMinutes = &walk
	}

	radius := DefaultRadiusMeters
	out := within(all, radius, budget)
	if len(out) == 0 {
		radius = RelaxedRadiusMeters
		out = within(all, radius, budget)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return *out[i].DistanceMeters < *out[j].DistanceMeters
	})
	return out, radius
}

func within(hotels []domain.HotelOption, radius int, budget float64) []domain.HotelOption {
	out := make([]domain.HotelOption, 0, len(hotels))
	for _, h := range hotels {
		if *h.DistanceMeters > radius {
			continue
		}
		if budget > 0 && h.Price > budget {
			continue
		}
		out = append(out, h)
	}
	return out
}
