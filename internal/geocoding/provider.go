package geocoding

import (
	"context"

	"github.com/UnknownOlympus/locator/internal/models"
)

// Provider resolves the free-text address typed into the search form
// into the origin used for distance sorting.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}
