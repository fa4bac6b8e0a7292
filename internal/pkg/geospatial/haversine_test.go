package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is ~111.19 km on a 6371 km sphere.
	d := Haversine(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.05 {
		t.Errorf("expected ~111.19 km, got %f", d)
	}
}

func TestHaversine_ZeroDistance(t *testing.T) {
	if d := Haversine(24.7136, 46.6753, 24.7136, 46.6753); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversine_RiyadhPair(t *testing.T) {
	// Riyadh center to a point 0.1 degrees due north is ~11.12 km.
	d := Haversine(24.7136, 46.6753, 24.8136, 46.6753)
	if d < 11.0 || d > 11.25 {
		t.Errorf("expected ~11.12 km, got %f", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Haversine(43.263, -2.935, 40.4168, -3.7038)
	b := Haversine(40.4168, -3.7038, 43.263, -2.935)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	lat, lng, radius := 24.7136, 46.6753, 10.0

	minLat, minLng, maxLat, maxLng := BoundingBox(lat, lng, radius)

	if minLat >= lat || maxLat <= lat || minLng >= lng || maxLng <= lng {
		t.Fatalf("box does not surround origin: [%f %f %f %f]", minLat, minLng, maxLat, maxLng)
	}

	// Points on the box edges directly north/south/east/west must be at least
	// radius away only in the lat direction; the box must never be smaller
	// than the circle.
	if d := Haversine(lat, lng, maxLat, lng); d < radius-0.1 {
		t.Errorf("north edge closer than radius: %f", d)
	}
	if d := Haversine(lat, lng, lat, maxLng); d < radius-0.1 {
		t.Errorf("east edge closer than radius: %f", d)
	}
}

func TestBoundingBox_LongitudeWidensTowardPoles(t *testing.T) {
	_, minLngEq, _, maxLngEq := BoundingBox(0, 0, 10)
	_, minLngHi, _, maxLngHi := BoundingBox(60, 0, 10)

	if (maxLngHi - minLngHi) <= (maxLngEq - minLngEq) {
		t.Errorf("longitude delta should widen with latitude: eq=%f hi=%f",
			maxLngEq-minLngEq, maxLngHi-minLngHi)
	}
}

func TestRoundKm(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.53, 2.5},
		{2.57, 2.6},
		{2.049, 2.0},
		{0.0, 0.0},
		{11.249, 11.2},
		// Exact binary ties round half up. (Decimal literals like 2.55 sit just
		// below the tie as float64 and round down, same as the usual Math.round.)
		{11.25, 11.3},
		{2.25, 2.3},
	}
	for _, c := range cases {
		if got := RoundKm(c.in); got != c.want {
			t.Errorf("RoundKm(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
