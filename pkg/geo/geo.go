package geo

import "math"

const earthRadiusMeters = 6371000

// Distance returns the great-circle distance in meters between two
// coordinates given in degrees, using the haversine formula on a spherical
// earth. Non-finite inputs yield NaN so callers can tell "invalid GPS" apart
// from "valid but far away".
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	if !isFinite(lat1) || !isFinite(lng1) || !isFinite(lat2) || !isFinite(lng2) {
		return math.NaN()
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
