package domain

import "math"

// GeoPoint is a geographic coordinate pair (WGS 84).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point can participate in distance computation.
// Coordinates outside the valid range, or the (0,0) null-island placeholder
// that upstream data uses for "not geocoded", are treated as unknown.
func (p GeoPoint) Valid() bool {
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return false
	}
	if p.Lat == 0 && p.Lon == 0 {
		return false
	}
	return true
}

const (
	earthRadiusKm = 6371

	// Travel time assumes a fixed average road speed plus a buffer for
	// stops and non-highway segments. No traffic or terrain modeling.
	avgSpeedKmh      = 70
	travelTimeBuffer = 1.2
)

// Distance returns the great-circle distance in kilometers between two points.
// ok is false when either point is missing or invalid; callers must exclude
// such pairs from scoring rather than substitute a numeric zero.
func Distance(a, b *GeoPoint) (km float64, ok bool) {
	if a == nil || b == nil || !a.Valid() || !b.Valid() {
		return 0, false
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, true
}

// EstimateTravelTime converts a road distance into an estimated driving time
// in whole minutes.
func EstimateTravelTime(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	minutes := distanceKm / avgSpeedKmh * 60 * travelTimeBuffer
	return int(math.Round(minutes))
}
