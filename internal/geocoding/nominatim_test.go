package geocoding_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/locator/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominatimServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Locator-Feed-Service")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestNominatimProvider_Geocode(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	tests := []struct {
		name    string
		status  int
		body    string
		lat     float64
		lng     float64
		wantErr error
		errText string
	}{
		{
			name:   "successful geocoding",
			status: http.StatusOK,
			body:   `[{"lat":"50.4501","lon":"30.5234"}]`,
			lat:    50.4501,
			lng:    30.5234,
		},
		{
			name:    "empty response",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: geocoding.ErrNominatimEmptyResponse,
		},
		{
			name:    "invalid latitude",
			status:  http.StatusOK,
			body:    `[{"lat":"north","lon":"30.5"}]`,
			wantErr: geocoding.ErrNominatimInvalidCoords,
		},
		{
			name:    "invalid longitude",
			status:  http.StatusOK,
			body:    `[{"lat":"50.4","lon":"east"}]`,
			wantErr: geocoding.ErrNominatimInvalidCoords,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{`,
			errText: "failed to decode nominatim response",
		},
		{
			name:    "api error status",
			status:  http.StatusTooManyRequests,
			body:    `slow down`,
			errText: "nominatim API returned status 429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := nominatimServer(t, tt.status, tt.body)
			provider := geocoding.NewNominatimProviderWithClient(srv.Client(), srv.URL, "", logger)

			coords, err := provider.Geocode(t.Context(), "Kyiv")

			if tt.wantErr != nil || tt.errText != "" {
				require.Nil(t, coords)
				require.Error(t, err)
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
				}
				if tt.errText != "" {
					require.ErrorContains(t, err, tt.errText)
				}
				return
			}

			require.NoError(t, err)
			assert.InEpsilon(t, tt.lat, coords.Latitude, 0.0001)
			assert.InEpsilon(t, tt.lng, coords.Longitude, 0.0001)
		})
	}

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		srv := nominatimServer(t, http.StatusOK, `[]`)
		srv.Close()
		provider := geocoding.NewNominatimProviderWithClient(srv.Client(), srv.URL, "", logger)

		_, err := provider.Geocode(t.Context(), "Kyiv")

		require.ErrorContains(t, err, "failed to execute geocoding request")
	})

	t.Run("region restricts country codes", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ua", r.URL.Query().Get("countrycodes"))
			assert.Equal(t, "Khreshchatyk 1", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`[{"lat":"50.4474","lon":"30.5218"}]`))
		}))
		t.Cleanup(srv.Close)
		provider := geocoding.NewNominatimProviderWithClient(srv.Client(), srv.URL, "ua", logger)

		coords, err := provider.Geocode(t.Context(), "Khreshchatyk 1")

		require.NoError(t, err)
		assert.InEpsilon(t, 50.4474, coords.Latitude, 0.0001)
	})
}
