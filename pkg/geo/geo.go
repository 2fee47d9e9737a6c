// Package geo holds the spherical helpers behind radius queries.
package geo

import "math"

const (
	EarthRadiusMeters = 6371000.0
	metersPerDegree   = 111000.0
)

// Box is an inclusive latitude/longitude rectangle.
type Box struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// DistanceMeters is the haversine great-circle distance between two points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// BoundingBox returns a rectangle enclosing the circle of radius meters around
// (lat, lon), clamped to valid coordinates. Near the poles the longitude span
// widens to the full range. The box never wraps the ±180 seam.
func BoundingBox(lat, lon, radiusMeters float64) Box {
	latDelta := radiusMeters / metersPerDegree

	box := Box{
		LatMin: math.Max(-90, lat-latDelta),
		LatMax: math.Min(90, lat+latDelta),
		LonMin: -180,
		LonMax: 180,
	}

	cos := math.Cos(lat * math.Pi / 180)
	if cos > 1e-9 {
		lonDelta := radiusMeters / (metersPerDegree * cos)
		if lonDelta < 180 {
			box.LonMin = math.Max(-180, lon-lonDelta)
			box.LonMax = math.Min(180, lon+lonDelta)
		}
	}
	return box
}
