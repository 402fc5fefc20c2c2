package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quoteme/internal/domain"
)

var (
	london = domain.Coordinate{Lat: 51.5074, Lon: -0.1278}
	paris  = domain.Coordinate{Lat: 48.8566, Lon: 2.3522}
)

func TestDistanceKm_KnownCities(t *testing.T) {
	// London–Paris is ~343-344 km great-circle.
	d := DistanceKm(london, paris)
	assert.InDelta(t, 343.5, d, 2.0)
}

func TestDistanceKm_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(london, london))
}

func TestWithinRadius_Boundary(t *testing.T) {
	near := domain.Coordinate{Lat: 51.5074, Lon: -0.12}
	assert.True(t, WithinRadius(&london, &near, 50))

	d := DistanceKm(london, paris)
	assert.True(t, WithinRadius(&london, &paris, d+0.1))
	assert.False(t, WithinRadius(&london, &paris, d-0.1))
}

func TestWithinRadius_MissingCoordinateFailsClosed(t *testing.T) {
	assert.False(t, WithinRadius(nil, &paris, 1e9))
	assert.False(t, WithinRadius(&london, nil, 1e9))
	assert.False(t, WithinRadius(nil, nil, 1e9))
}
