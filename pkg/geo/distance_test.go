package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilesZeroForIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{32.7767, -96.7970},
		{-45.1, 170.5},
		{89.9, -179.9},
	}
	for _, p := range points {
		assert.InDelta(t, 0, Miles(p[0], p[1], p[0], p[1]), 1e-9)
	}
}

func TestMilesSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{40.7128, -74.0060, 34.0522, -118.2437},
		{32.7767, -96.7970, 30.2672, -97.7431},
		{42.3314, -83.0458, 40.7128, -74.0060},
		{0, 0, 0, 180},
	}
	for _, p := range pairs {
		ab := Miles(p[0], p[1], p[2], p[3])
		ba := Miles(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestMilesKnownDistances(t *testing.T) {
	// New York City to Los Angeles, reference haversine value with R=3958.8.
	d := Miles(40.7128, -74.0060, 34.0522, -118.2437)
	assert.InEpsilon(t, 2445.6, d, 0.005)

	// Dallas to Fort Worth is ~31 miles, comfortably inside the search radius.
	d = Miles(32.7767, -96.7970, 32.7555, -97.3308)
	assert.Less(t, d, 100.0)
	assert.Greater(t, d, 25.0)

	// Dallas to Houston is ~225 miles, well outside it.
	d = Miles(32.7767, -96.7970, 29.7604, -95.3698)
	assert.Greater(t, d, 100.0)
}
