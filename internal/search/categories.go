package search

import (
	"fmt"
	"strings"

	"github.com/UnknownOlympus/locator/internal/filter"
	"github.com/UnknownOlympus/locator/internal/models"
)

// ResolveSearchCategories turns the categories assigned to a view into a match-any bag.
// A view without categories yields an empty bag, which places no restriction.
func ResolveSearchCategories(viewCategories []models.Category) filter.Criteria {
	criteria := filter.NewCriteria()
	for _, c := range viewCategories {
		criteria = criteria.Add(filter.KeyCategoryID, c.ID)
	}

	return criteria
}

// ResolveSelection maps a category picked in the search form to a match-any bag.
// The dropdown submits names, and names are not unique, so every category
// carrying the name is included.
func ResolveSelection(name string, categories []models.Category) (filter.Criteria, error) {
	name = strings.TrimSpace(name)
	criteria := filter.NewCriteria()
	for _, c := range categories {
		if c.Name == name {
			criteria = criteria.Add(filter.KeyCategoryID, c.ID)
		}
	}

	if criteria.Len() == 0 {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidFilterValue, name)
	}

	return criteria, nil
}
