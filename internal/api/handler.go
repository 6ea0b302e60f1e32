// Package api exposes locator feeds, search forms and widget settings over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/locator/internal/cache"
	"github.com/UnknownOlympus/locator/internal/feed"
	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/UnknownOlympus/locator/internal/search"
	"github.com/UnknownOlympus/locator/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

// LocatorService is the part of service.LocatorService used by the handlers.
type LocatorService interface {
	Feed(ctx context.Context, req service.FeedRequest) (feed.Document, error)
	SearchForm(ctx context.Context, locatorID int64) (search.FormDescriptor, error)
	Settings(ctx context.Context, locatorID int64) (service.Settings, error)
}

// Pinger reports whether the persistence layer is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the locator endpoints.
type Handler struct {
	log      *slog.Logger
	locators LocatorService
	cache    *cache.FeedCache
	health   Pinger
}

// NewHandler creates a Handler. feeds may wrap a nil Redis client to disable caching.
func NewHandler(log *slog.Logger, locators LocatorService, feeds *cache.FeedCache, health Pinger) *Handler {
	return &Handler{log: log, locators: locators, cache: feeds, health: health}
}

var errBadRequest = errors.New("bad request")

// Feed writes the feed of a locator in the format named by the path.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	locatorID, err := locatorParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	format, err := feed.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	req, variant, err := parseFeedQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req.LocatorID = locatorID

	key := cache.Key(locatorID, string(format), variant)
	body, hit, err := h.cache.Fetch(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		doc, errFeed := h.locators.Feed(ctx, req)
		if errFeed != nil {
			return nil, errFeed
		}
		var buf bytes.Buffer
		if errFeed = feed.Encode(&buf, doc, format); errFeed != nil {
			return nil, errFeed
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

// PurgeFeed drops the cached feeds of a locator after its content changed.
func (h *Handler) PurgeFeed(w http.ResponseWriter, r *http.Request) {
	locatorID, err := locatorParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.cache.InvalidateLocator(r.Context(), locatorID)
	w.WriteHeader(http.StatusNoContent)
}

// SearchForm writes the search form descriptor of a locator.
func (h *Handler) SearchForm(w http.ResponseWriter, r *http.Request) {
	locatorID, err := locatorParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	form, err := h.locators.SearchForm(r.Context(), locatorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, form)
}

// Settings writes the map widget options of a locator.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	locatorID, err := locatorParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	settings, err := h.locators.Settings(r.Context(), locatorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, settings)
}

// Healthz reports whether the database answers pings.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.log.DebugContext(r.Context(), "Performing health checks...")
	status, body := http.StatusOK, "OK"
	if err := h.health.Ping(r.Context()); err != nil {
		h.log.WarnContext(r.Context(), "Health check failed", "error", err)
		status, body = http.StatusServiceUnavailable, "DB ping failed"
	}

	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

func locatorParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid locator id %q", errBadRequest, chi.URLParam(r, "id"))
	}

	return id, nil
}

// parseFeedQuery reads the feed query parameters. The returned variant is a
// canonical encoding of them used as the cache key suffix.
func parseFeedQuery(query url.Values) (service.FeedRequest, string, error) {
	var req service.FeedRequest
	canonical := url.Values{}

	if category := strings.TrimSpace(query.Get("category")); category != "" {
		req.Category = category
		canonical.Set("category", category)
	}

	rawLat, rawLng := strings.TrimSpace(query.Get("lat")), strings.TrimSpace(query.Get("lng"))
	switch {
	case rawLat != "" && rawLng != "":
		lat, err := parseBounded("lat", rawLat, maxLatitude)
		if err != nil {
			return req, "", err
		}
		lng, err := parseBounded("lng", rawLng, maxLongitude)
		if err != nil {
			return req, "", err
		}
		req.Origin = &models.Coordinates{Latitude: lat, Longitude: lng}
		canonical.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		canonical.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	case rawLat != "" || rawLng != "":
		return req, "", fmt.Errorf("%w: lat and lng must be given together", errBadRequest)
	}

	if address := strings.TrimSpace(query.Get("address")); address != "" && req.Origin == nil {
		req.Address = address
		canonical.Set("address", strings.ToLower(address))
	}

	if rawRadius := strings.TrimSpace(query.Get("distance")); rawRadius != "" {
		radius, err := parseBounded("distance", rawRadius, math.MaxFloat64)
		if err != nil || radius < 0 {
			return req, "", fmt.Errorf("%w: invalid distance %q", errBadRequest, rawRadius)
		}
		req.Radius = radius
		canonical.Set("distance", strconv.FormatFloat(radius, 'f', -1, 64))
	}

	return req, canonical.Encode(), nil
}

const (
	maxLatitude  = 90
	maxLongitude = 180
)

// parseBounded accepts finite numbers within [-limit, limit].
func parseBounded(name, raw string, limit float64) (float64, error) {
	value, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) > limit {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}

	return value, nil
}

type errorReply struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", status, "error", err)
		message = http.StatusText(status)
	}

	h.writeJSON(w, r, status, errorReply{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrUnsupportedFilterKey),
		errors.Is(err, models.ErrInvalidFilterValue):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrLocatorNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrOriginNotResolved):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}
