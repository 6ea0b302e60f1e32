package filter

import (
	"fmt"

	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/spf13/cast"
)

// predicate reports whether a location satisfies one equality constraint.
type predicate func(models.Location) bool

// Locations returns the visible locations matching the request, in input order.
//
// Visibility is always enforced: ShowInLocator must be true and locations with a
// zero latitude are always excluded. Caller-supplied values for these two keys are
// replaced, never combined. The request bags themselves are not modified.
func Locations(locations []models.Location, req Request) ([]models.Location, error) {
	required := req.Required.Set(KeyShowInLocator, true)
	excluded := req.Excluded.Set(KeyLat, 0)

	requiredPreds, err := compile(required)
	if err != nil {
		return nil, fmt.Errorf("failed to compile required filters: %w", err)
	}
	excludedPreds, err := compile(excluded)
	if err != nil {
		return nil, fmt.Errorf("failed to compile excluded filters: %w", err)
	}
	anyPreds, err := compile(req.MatchAny)
	if err != nil {
		return nil, fmt.Errorf("failed to compile match-any filters: %w", err)
	}

	result := make([]models.Location, 0, len(locations))
	for _, loc := range locations {
		if allMatch(loc, requiredPreds) && noneMatch(loc, excludedPreds) && anyMatch(loc, anyPreds) {
			result = append(result, loc)
		}
	}

	return result, nil
}

// Count returns how many visible locations match the request.
func Count(locations []models.Location, req Request) (int, error) {
	found, err := Locations(locations, req)
	if err != nil {
		return 0, err
	}

	return len(found), nil
}

func allMatch(loc models.Location, preds []predicate) bool {
	for _, p := range preds {
		if !p(loc) {
			return false
		}
	}

	return true
}

func noneMatch(loc models.Location, preds []predicate) bool {
	for _, p := range preds {
		if p(loc) {
			return false
		}
	}

	return true
}

// anyMatch is vacuously true for an empty bag.
func anyMatch(loc models.Location, preds []predicate) bool {
	if len(preds) == 0 {
		return true
	}
	for _, p := range preds {
		if p(loc) {
			return true
		}
	}

	return false
}

func compile(criteria Criteria) ([]predicate, error) {
	preds := make([]predicate, 0, len(criteria))
	for _, cr := range criteria {
		p, err := compileOne(cr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}

	return preds, nil
}

// compileOne coerces the constraint value to the field type once, so the
// per-location check is a plain comparison.
func compileOne(cr Criterion) (predicate, error) {
	switch cr.Key {
	case KeyID, KeyCategoryID:
		want, err := cast.ToInt64E(cr.Value)
		if err != nil {
			return nil, invalidValue(cr, err)
		}
		if cr.Key == KeyID {
			return func(l models.Location) bool { return l.ID == want }, nil
		}
		return func(l models.Location) bool { return l.InCategory(want) }, nil
	case KeyLat, KeyLng:
		want, err := cast.ToFloat64E(cr.Value)
		if err != nil {
			return nil, invalidValue(cr, err)
		}
		if cr.Key == KeyLat {
			return func(l models.Location) bool { return l.Lat == want }, nil
		}
		return func(l models.Location) bool { return l.Lng == want }, nil
	case KeyFeatured, KeyShowInLocator:
		want, err := cast.ToBoolE(cr.Value)
		if err != nil {
			return nil, invalidValue(cr, err)
		}
		if cr.Key == KeyFeatured {
			return func(l models.Location) bool { return l.Featured == want }, nil
		}
		return func(l models.Location) bool { return l.ShowInLocator == want }, nil
	}

	get, ok := stringFields[cr.Key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFilterKey, cr.Key)
	}
	want, err := cast.ToStringE(cr.Value)
	if err != nil {
		return nil, invalidValue(cr, err)
	}

	return func(l models.Location) bool { return get(l) == want }, nil
}

var stringFields = map[string]func(models.Location) string{
	KeyTitle:    func(l models.Location) string { return l.Title },
	KeyAddress:  func(l models.Location) string { return l.Address },
	KeySuburb:   func(l models.Location) string { return l.Suburb },
	KeyState:    func(l models.Location) string { return l.State },
	KeyPostcode: func(l models.Location) string { return l.Postcode },
	KeyCountry:  func(l models.Location) string { return l.Country },
	KeyWebsite:  func(l models.Location) string { return l.Website },
	KeyPhone:    func(l models.Location) string { return l.Phone },
	KeyEmail:    func(l models.Location) string { return l.Email },
}

func invalidValue(cr Criterion, err error) error {
	return fmt.Errorf("%w: %s=%v: %w", models.ErrInvalidFilterValue, cr.Key, cr.Value, err)
}
