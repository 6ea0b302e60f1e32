package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/locator/internal/geocoding"
	"github.com/UnknownOlympus/locator/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, "ua", slog.Default())
	ctx := t.Context()

	t.Run("error - api returns error", func(t *testing.T) {
		address := "some invalid place"
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address, Region: "ua"}).
			Return(nil, assert.AnError).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("error - empty response", func(t *testing.T) {
		address := "nowhere"
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address, Region: "ua"}).
			Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
	})

	t.Run("success - first result wins", func(t *testing.T) {
		address := "Khreshchatyk 1, Kyiv"
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 50.45, Lng: 30.52}}},
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 1, Lng: 1}}},
		}
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address, Region: "ua"}).
			Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.InEpsilon(t, 50.45, coords.Latitude, 0.0001)
		require.InEpsilon(t, 30.52, coords.Longitude, 0.0001)
	})

	t.Run("success - partial match is still used", func(t *testing.T) {
		address := "Khreshchatyk"
		response := []maps.GeocodingResult{{
			FormattedAddress: "Khreshchatyk St, Kyiv, Ukraine",
			PartialMatch:     true,
			Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 50.44, Lng: 30.52}},
		}}
		mockClient.On("Geocode", ctx, &maps.GeocodingRequest{Address: address, Region: "ua"}).
			Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.InEpsilon(t, 50.44, coords.Latitude, 0.0001)
	})
}
