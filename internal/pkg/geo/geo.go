package geo

import (
	"math"

	"quoteme/internal/domain"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(a, b domain.Coordinate) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLon := deg2rad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// WithinRadius reports whether a and b lie within radiusKm of each other.
// A missing coordinate never matches: geographic checks fail closed.
func WithinRadius(a, b *domain.Coordinate, radiusKm float64) bool {
	if a == nil || b == nil {
		return false
	}
	return DistanceKm(*a, *b) <= radiusKm
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
