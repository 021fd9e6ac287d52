// Package weathermodel holds the plain data records shared across the
// provider, mapper, alert, and use-case layers.
package weathermodel

import "math"

// City is an immutable municipality record loaded once at process start.
type City struct {
	ID         string
	Name       string
	State      string
	Region     string
	Coordinate *Coordinates // nil when the municipality has no known lat/lon
}

// HasCoordinates reports whether the city can be used as a weather target.
func (c City) HasCoordinates() bool {
	return c.Coordinate != nil
}

// Coordinates is a latitude/longitude value object.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance to other using the haversine
// formula.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := c.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - c.Latitude) * math.Pi / 180
	dLon := (other.Longitude - c.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Valid reports whether the coordinates fall within legal ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
