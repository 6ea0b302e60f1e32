package locator

import (
	"fmt"

	"github.com/UnknownOlympus/locator/internal/filter"
	"github.com/UnknownOlympus/locator/internal/models"
)

// Mode is the effective loading mode of the map widget.
type Mode string

const (
	// ModeAutoGeocode centres the map on the visitor and shows a short list.
	ModeAutoGeocode Mode = "auto-geocode"
	// ModeFullList starts with every location on the map.
	ModeFullList Mode = "full-list"
)

// DisplayMode tells the widget where to draw results.
type DisplayMode string

const (
	DisplayInline DisplayMode = "inline"
	DisplayModal  DisplayMode = "modal"
)

// Limits caps the number of rows returned per mode. Zero disables the cap.
type Limits struct {
	FullList    int
	AutoGeocode int
}

// Evaluation is the effective behaviour of a locator view for one request.
type Evaluation struct {
	Mode              Mode
	AutoGeocode       bool
	FeaturedLocations bool
	FeaturedCount     int
	LengthUnit        string // "km" or "m"
	Unit              models.Unit
	Display           DisplayMode
	StoreLimit        int
	MaxDistance       bool
}

// Evaluator derives the effective view behaviour from its stored configuration.
type Evaluator struct {
	limits Limits
}

// NewEvaluator creates an Evaluator with the given row caps.
func NewEvaluator(limits Limits) *Evaluator {
	return &Evaluator{limits: limits}
}

// Evaluate computes the mode, unit label and display mode of a view.
// Auto geocoding is switched off whenever any visible location is featured.
func (e *Evaluator) Evaluate(view models.LocatorView, locations []models.Location) (Evaluation, error) {
	featured, err := filter.Count(locations, filter.Request{
		Required: filter.NewCriteria().Add(filter.KeyFeatured, true),
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("failed to count featured locations: %w", err)
	}

	eval := Evaluation{
		AutoGeocode:       view.AutoGeocode && featured == 0,
		FeaturedLocations: featured > 0,
		FeaturedCount:     featured,
		LengthUnit:        string(models.UnitMiles),
		Unit:              models.UnitMiles,
		Display:           DisplayInline,
	}

	if eval.AutoGeocode {
		eval.Mode = ModeAutoGeocode
		eval.StoreLimit = e.limits.AutoGeocode
	} else {
		eval.Mode = ModeFullList
		eval.StoreLimit = e.limits.FullList
		eval.MaxDistance = true
	}

	if view.Unit == models.UnitKilometers {
		eval.LengthUnit = string(models.UnitKilometers)
		eval.Unit = models.UnitKilometers
	}
	if view.ModalWindow {
		eval.Display = DisplayModal
	}

	return eval, nil
}
