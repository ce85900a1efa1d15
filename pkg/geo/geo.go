package geo

import "math"

const earthRadiusKm = 6371

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle distance between two points using the
// haversine formula.
func DistanceKm(a, b Point) float64 {
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)
	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// WithinRadius reports whether p lies strictly inside radiusKm of ref.
// A point exactly at ref has distance zero and is always allowed.
func WithinRadius(ref, p Point, radiusKm float64) bool {
	return DistanceKm(ref, p) < radiusKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
