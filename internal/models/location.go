package models

import "slices"

// Location is a geo-tagged record that may be shown on a locator map.
// It is created and edited outside of this service; the locator only reads it.
type Location struct {
	ID            int64   // ID is the unique identifier of the location.
	Title         string  // Title is the display name.
	Address       string  // Address is the street line.
	Suburb        string  // Suburb or city.
	State         string  // State or region.
	Postcode      string  // Postcode or zip code.
	Country       string  // Country code or name.
	Website       string  // Website is an optional link shown in the info window.
	Phone         string  // Phone is an optional contact number.
	Email         string  // Email is an optional contact address.
	Lat           float64 // Lat is the latitude, 0 means "unset".
	Lng           float64 // Lng is the longitude.
	Featured      bool    // Featured locations disable auto geocoding.
	ShowInLocator bool    // ShowInLocator is the visibility opt-in.
	CategoryIDs   []int64 // CategoryIDs lists every category the location is linked to.
}

// Coordinates returns the location position.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Lat, Longitude: l.Lng}
}

// InCategory reports whether the location is linked to the given category.
func (l Location) InCategory(categoryID int64) bool {
	return slices.Contains(l.CategoryIDs, categoryID)
}
