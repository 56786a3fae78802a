package geo

import "fmt"

// Coordinate is a validated latitude/longitude pair. Construct it through
// NewCoordinate so invalid values are rejected before any network call.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// InvalidCoordinateError reports a latitude/longitude pair outside valid
// Earth ranges.
type InvalidCoordinateError struct {
	Lat float64
	Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinates: lat=%v, lon=%v", e.Lat, e.Lon)
}

// NewCoordinate validates that lat is within [-90,90] and lon within
// [-180,180] and returns the pair unchanged.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Coordinate{}, &InvalidCoordinateError{Lat: lat, Lon: lon}
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Key returns a canonical string key for indexing this coordinate in caches.
// Precision matches the six decimals used in upstream request URLs.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.6f:%.6f", c.Lat, c.Lon)
}
