package models

// Placement is a location prepared for the feed, optionally with its distance
// from the search origin expressed in the view unit.
type Placement struct {
	Location Location
	Distance *float64
}
