// Package geo holds the great-circle distance math used by the discovery
// query and the nearby-beneficiary notification fan-out.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm per the Haversine convention.
const earthRadiusKm = 6371

// Distance returns the great-circle distance between two points in
// kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * c
}

// ValidCoordinates reports whether lat/lon are inside geographic range.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// FormatDistance renders a distance in kilometers for display: meters below
// 1 km, one-decimal kilometers otherwise.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}

// Round2 truncates a distance to two decimals, the precision carried in
// listing responses and notification payloads.
func Round2(km float64) float64 {
	return math.Round(km*100) / 100
}
