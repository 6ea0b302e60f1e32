package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/locator/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider resolves search addresses with the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient
	region string
	log    *slog.Logger
}

// GoogleAPIClient is the part of *maps.Client used by the provider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider wraps a Google Maps client. A non-empty region (ccTLD code,
// e.g. "ua") biases ambiguous addresses towards that country.
func NewGoogleProvider(client GoogleAPIClient, region string, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, region: region, log: log}
}

// Geocode returns the coordinates of the first match for address.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	gp.log.DebugContext(ctx, "Resolving search origin using Google Maps", "address", address, "region", gp.region)

	results, err := gp.client.Geocode(ctx, &maps.GeocodingRequest{Address: address, Region: gp.region})
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	best := results[0]
	if best.PartialMatch {
		gp.log.DebugContext(ctx, "Search origin is a partial match",
			"address", address, "matched", best.FormattedAddress)
	}

	return &models.Coordinates{Longitude: best.Geometry.Location.Lng, Latitude: best.Geometry.Location.Lat}, nil
}
