package models

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 // Longitude of the geographical point.
	Latitude  float64 // Latitude of the geographical point.
}

// IsSet reports whether the point carries real coordinates.
// A zero latitude is the "no coordinates" sentinel used by the location records.
func (c Coordinates) IsSet() bool {
	return c.Latitude != 0
}
