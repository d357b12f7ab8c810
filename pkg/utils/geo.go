package utils

import (
	"math"

	"iter/internal/models/itinerary_models"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters is the great-circle distance between two coordinates.
func HaversineMeters(a, b itinerary_models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// walking speed of 5 km/h expressed in meters per minute
const walkingMetersPerMinute = 83.33

// WalkingMinutes estimates walking time for a straight-line distance, never less than one minute.
func WalkingMinutes(meters float64) int {
	m := int(math.Round(meters / walkingMetersPerMinute))
	if m < 1 {
		return 1
	}
	return m
}
