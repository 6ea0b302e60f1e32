package api_test

import (
	"encoding/json"
	"encoding/xml"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnknownOlympus/locator/internal/api"
	"github.com/UnknownOlympus/locator/internal/cache"
	"github.com/UnknownOlympus/locator/internal/feed"
	"github.com/UnknownOlympus/locator/internal/locator"
	"github.com/UnknownOlympus/locator/internal/metrics"
	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/UnknownOlympus/locator/internal/search"
	"github.com/UnknownOlympus/locator/internal/service"
	"github.com/UnknownOlympus/locator/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	repo     *mocks.Interface
	provider *mocks.Provider
	metrics  *metrics.Metrics
	router   http.Handler
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	log := slog.Default()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	repo := mocks.NewInterface(t)
	provider := mocks.NewProvider(t)

	svc := service.NewLocatorService(log, repo, provider, m,
		search.NewDescriber(),
		locator.NewEvaluator(locator.Limits{FullList: 1000, AutoGeocode: 26}),
		service.Options{BasePath: "/locators", ProviderName: "google"},
	)
	handler := api.NewHandler(log, svc, cache.NewFeedCache(nil, 0, log, m), repo)

	return testServer{
		repo:     repo,
		provider: provider,
		metrics:  m,
		router:   api.NewRouter(log, handler, reg, m),
	}
}

func (s testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	return rec
}

func snapshot() *models.Snapshot {
	return &models.Snapshot{
		Categories: []models.Category{{ID: 2, Name: "Bakery"}, {ID: 1, Name: "Cafe"}},
		Locations: []models.Location{
			{ID: 1, Title: "Hidden", Lat: 0, Lng: 1, ShowInLocator: true},
			{ID: 2, Title: "Opt out", Lat: 10, Lng: 1, ShowInLocator: false},
			{ID: 3, Title: "Corner Cafe", Lat: 20, Lng: 1, ShowInLocator: true, CategoryIDs: []int64{1}},
			{ID: 4, Title: "Bread & Co", Lat: 21, Lng: 1, ShowInLocator: true, CategoryIDs: []int64{2}},
		},
	}
}

func TestFeedHandler(t *testing.T) {
	t.Run("success - json feed", func(t *testing.T) {
		srv := newTestServer(t)
		view := models.NewLocatorView(5)
		srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

		rec := srv.get(t, "/locators/5/feed.json")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

		var doc feed.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		require.Len(t, doc.Locations, 2)
		assert.Equal(t, int64(3), doc.Locations[0].ID)
		assert.Equal(t, "Cafe", doc.Locations[0].Category)
	})

	t.Run("success - xml markers feed", func(t *testing.T) {
		srv := newTestServer(t)
		view := models.NewLocatorView(5)
		srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

		rec := srv.get(t, "/locators/5/feed.xml?category=Bakery")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "<?xml"))

		var doc feed.Document
		require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
		require.Len(t, doc.Locations, 1)
		assert.Equal(t, "Bread & Co", doc.Locations[0].Name)
	})

	t.Run("success - coordinates order the feed", func(t *testing.T) {
		srv := newTestServer(t)
		view := models.NewLocatorView(5)
		srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

		rec := srv.get(t, "/locators/5/feed.json?lat=21&lng=1")

		require.Equal(t, http.StatusOK, rec.Code)
		var doc feed.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		require.Len(t, doc.Locations, 2)
		assert.Equal(t, int64(4), doc.Locations[0].ID)
		require.NotNil(t, doc.Locations[0].Distance)
	})

	t.Run("error - unknown format", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.get(t, "/locators/5/feed.csv")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("error - invalid locator id", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.get(t, "/locators/abc/feed.json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - lat without lng", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.get(t, "/locators/5/feed.json?lat=10")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - non-finite or out of range query values", func(t *testing.T) {
		for _, query := range []string{
			"lat=NaN&lng=0",
			"lat=0&lng=Inf",
			"lat=200&lng=0",
			"lat=0&lng=-180.5",
			"distance=NaN",
			"distance=+Inf",
		} {
			srv := newTestServer(t)

			rec := srv.get(t, "/locators/5/feed.json?"+query)

			assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		}
	})

	t.Run("success - boundary coordinates are accepted", func(t *testing.T) {
		srv := newTestServer(t)
		view := models.NewLocatorView(5)
		srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

		rec := srv.get(t, "/locators/5/feed.json?lat=-90&lng=180")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("error - malformed distance", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.get(t, "/locators/5/feed.json?distance=far")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error - unknown category", func(t *testing.T) {
		srv := newTestServer(t)
		view := models.NewLocatorView(5)
		srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

		rec := srv.get(t, "/locators/5/feed.json?category=Pub")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid filter value")
	})

	t.Run("error - address not resolved", func(t *testing.T) {
		srv := newTestServer(t)
		view := models.NewLocatorView(5)
		srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()
		srv.provider.On("Geocode", mock.Anything, "atlantis").Return(nil, assert.AnError).Once()

		rec := srv.get(t, "/locators/5/feed.json?address=atlantis")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("error - locator not found", func(t *testing.T) {
		srv := newTestServer(t)
		srv.repo.On("Load", mock.Anything, int64(6)).Return(nil, nil, models.ErrLocatorNotFound).Once()

		rec := srv.get(t, "/locators/6/feed.json")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("error - database unavailable", func(t *testing.T) {
		srv := newTestServer(t)
		srv.repo.On("Load", mock.Anything, int64(6)).Return(nil, nil, models.ErrDependencyUnavailable).Once()

		rec := srv.get(t, "/locators/6/feed.json")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "dependency")
	})

	t.Run("error - invalid configuration", func(t *testing.T) {
		srv := newTestServer(t)
		srv.repo.On("Load", mock.Anything, int64(6)).Return(nil, nil, models.ErrInvalidConfiguration).Once()

		rec := srv.get(t, "/locators/6/feed.json")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSearchFormHandler(t *testing.T) {
	srv := newTestServer(t)
	view := models.NewLocatorView(5)
	srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

	rec := srv.get(t, "/locators/5/search-form")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"addressField": {"name": "address", "placeholder": "address or zip code"},
		"categoryOptions": {"name": "category", "emptyString": "Select Category", "options": ["Bakery", "Cafe"]}
	}`, rec.Body.String())
}

func TestSettingsHandler(t *testing.T) {
	srv := newTestServer(t)
	view := models.NewLocatorView(5)
	srv.repo.On("Load", mock.Anything, int64(5)).Return(&view, snapshot(), nil).Once()

	rec := srv.get(t, "/locators/5/settings")

	require.Equal(t, http.StatusOK, rec.Code)
	var settings service.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.True(t, settings.AutoGeocode)
	assert.Equal(t, "/locators/5/feed.xml", settings.DataLocation)
	assert.True(t, settings.HasLocations)
}

func TestPurgeFeedHandler(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodDelete, "/locators/5/feed-cache", nil)
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("success - database reachable", func(t *testing.T) {
		srv := newTestServer(t)
		srv.repo.On("Ping", mock.Anything).Return(nil).Once()

		rec := srv.get(t, "/healthz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.InDelta(t, 1, testutil.ToFloat64(srv.metrics.HTTPRequests.WithLabelValues("/healthz", "200")), 0)
	})

	t.Run("error - database unreachable", func(t *testing.T) {
		srv := newTestServer(t)
		srv.repo.On("Ping", mock.Anything).Return(assert.AnError).Once()

		rec := srv.get(t, "/healthz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.get(t, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "locator_feed_build_duration_seconds")
}
