package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSymmetry(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"casablanca to rabat", 33.5731, -7.5898, 34.0209, -6.8416},
		{"across the equator", -1.2921, 36.8219, 1.3521, 103.8198},
		{"across the date line", 35.6762, 139.6503, 37.7749, -122.4194},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			ba := Distance(tt.lat2, tt.lng2, tt.lat1, tt.lng1)
			assert.InDelta(t, ab, ba, 1e-6)
		})
	}
}

func TestDistanceIdentity(t *testing.T) {
	assert.Equal(t, float64(0), Distance(33.5731, -7.5898, 33.5731, -7.5898))
	assert.Equal(t, float64(0), Distance(0, 0, 0, 0))
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of latitude is roughly 111.2 km on a 6371 km sphere.
	d := Distance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)

	// Casablanca to Rabat is about 87 km as the crow flies.
	d = Distance(33.5731, -7.5898, 34.0209, -6.8416)
	assert.InDelta(t, 87000, d, 2000)
}

func TestDistanceSmallOffsets(t *testing.T) {
	// ~200m north of the reference point.
	d := Distance(33.5731, -7.5898, 33.5731+0.0018, -7.5898)
	assert.InDelta(t, 200, d, 5)
	assert.GreaterOrEqual(t, d, float64(0))
}

func TestDistanceInvalidInputs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"nan lat", math.NaN(), 0, 0, 0},
		{"nan lng", 0, math.NaN(), 0, 0},
		{"nan target", 0, 0, math.NaN(), 0},
		{"positive inf", math.Inf(1), 0, 0, 0},
		{"negative inf", 0, 0, 0, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)))
		})
	}
}
