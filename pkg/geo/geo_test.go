package geo

import (
	"math"
	"testing"
)

var reference = Point{Lat: 50.83174207392536, Lon: 19.08261400134686}

func TestDistanceAtReferenceIsZero(t *testing.T) {
	d := DistanceKm(reference, reference)
	if d != 0 {
		t.Fatalf("expected zero distance at reference, got %f", d)
	}
	if !WithinRadius(reference, reference, 0.1) {
		t.Fatal("point at reference must be allowed")
	}
}

func TestWithinRadiusBoundary(t *testing.T) {
	// ~50m north of the reference: one degree of latitude is ~111.19 km.
	near := Point{Lat: reference.Lat + 0.05/111.19, Lon: reference.Lon}
	if !WithinRadius(reference, near, 0.1) {
		t.Fatal("point 50m away should be inside a 100m radius")
	}

	// ~2km north is well outside.
	far := Point{Lat: reference.Lat + 2.0/111.19, Lon: reference.Lon}
	if WithinRadius(reference, far, 0.1) {
		t.Fatal("point 2km away should be outside a 100m radius")
	}
}

func TestDistanceKnownPair(t *testing.T) {
	// Warsaw to Krakow, roughly 252km.
	warsaw := Point{Lat: 52.2297, Lon: 21.0122}
	krakow := Point{Lat: 50.0647, Lon: 19.9450}
	d := DistanceKm(warsaw, krakow)
	if math.Abs(d-252) > 5 {
		t.Fatalf("Warsaw-Krakow distance out of range: %f", d)
	}
}
