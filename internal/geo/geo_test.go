package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroAndSymmetric(t *testing.T) {
	// New York City against itself
	if d := Distance(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}

	ab := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	ba := Distance(34.0522, -118.2437, 40.7128, -74.0060)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}

	// NYC to LA is roughly 3936 km
	if ab < 3900 || ab > 3970 {
		t.Errorf("NYC-LA distance = %v km, outside plausible range", ab)
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{40.7128, -74.0060, true},
		{90.0001, 0, false},
		{-90.1, 0, false},
		{0, 180.5, false},
		{0, -181, false},
	}
	for _, c := range cases {
		if got := ValidCoordinates(c.lat, c.lon); got != c.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0.5, "500m"},
		{0.999, "999m"},
		{0.0004, "0m"},
		{1.0, "1.0km"},
		{12.34, "12.3km"},
		{5.05, "5.1km"},
	}
	for _, c := range cases {
		if got := FormatDistance(c.km); got != c.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", c.km, got, c.want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.14159); got != 3.14 {
		t.Errorf("Round2(3.14159) = %v, want 3.14", got)
	}
	if got := Round2(12.3456); got != 12.35 {
		t.Errorf("Round2(12.3456) = %v, want 12.35", got)
	}
}
