package models

import "fmt"

// Unit is the distance unit a locator view displays.
type Unit string

const (
	// UnitMiles is the default unit, stored as "m".
	UnitMiles Unit = "m"
	// UnitKilometers is stored as "km".
	UnitKilometers Unit = "km"
)

// ParseUnit validates a stored unit value. An empty value falls back to miles.
func ParseUnit(raw string) (Unit, error) {
	switch Unit(raw) {
	case "", UnitMiles:
		return UnitMiles, nil
	case UnitKilometers:
		return UnitKilometers, nil
	default:
		return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidConfiguration, raw)
	}
}

// LocatorView holds the per-view settings of a locator page.
type LocatorView struct {
	ID          int64
	Title       string
	AutoGeocode bool       // AutoGeocode filters results around the visitor, default true.
	ModalWindow bool       // ModalWindow shows results in a modal, default false.
	Unit        Unit       // Unit of measure, default miles.
	Categories  []Category // Categories restricts results; empty means no restriction.
}

// NewLocatorView returns a view carrying the stored defaults.
func NewLocatorView(id int64) LocatorView {
	return LocatorView{ID: id, AutoGeocode: true, Unit: UnitMiles}
}
