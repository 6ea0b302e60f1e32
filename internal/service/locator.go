package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/locator/internal/feed"
	"github.com/UnknownOlympus/locator/internal/filter"
	"github.com/UnknownOlympus/locator/internal/geocoding"
	"github.com/UnknownOlympus/locator/internal/locator"
	"github.com/UnknownOlympus/locator/internal/metrics"
	"github.com/UnknownOlympus/locator/internal/models"
	"github.com/UnknownOlympus/locator/internal/repository"
	"github.com/UnknownOlympus/locator/internal/search"
)

// ErrOriginNotResolved is returned when a search address cannot be turned into coordinates.
var ErrOriginNotResolved = errors.New("search origin could not be resolved")

// Options holds the values the service needs from the application configuration.
type Options struct {
	MapsAPIKey    string  // MapsAPIKey is handed to the map widget.
	DefaultRadius float64 // DefaultRadius bounds full-list searches around an origin, 0 disables it.
	BasePath      string  // BasePath prefixes feed links, e.g. "/locators".
	ProviderName  string  // ProviderName labels geocoder metrics.
	AddressPrefix string  // AddressPrefix is prepended to search addresses (country, city, ...).
}

// FeedRequest describes one feed query.
type FeedRequest struct {
	LocatorID int64
	Category  string              // Category is a category name picked in the search form.
	Origin    *models.Coordinates // Origin takes precedence over Address.
	Address   string
	Radius    float64 // Radius in the view unit, 0 falls back to the configured default.
}

// LocatorService assembles feeds, search forms and widget settings for locator views.
type LocatorService struct {
	log       *slog.Logger
	repo      repository.Interface
	provider  geocoding.Provider
	metrics   *metrics.Metrics
	describer *search.Describer
	evaluator *locator.Evaluator
	opts      Options
}

// NewLocatorService creates a LocatorService.
func NewLocatorService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	metrics *metrics.Metrics,
	describer *search.Describer,
	evaluator *locator.Evaluator,
	opts Options,
) *LocatorService {
	return &LocatorService{
		log:       log,
		repo:      repo,
		provider:  provider,
		metrics:   metrics,
		describer: describer,
		evaluator: evaluator,
		opts:      opts,
	}
}

// Feed loads a consistent snapshot and returns the feed document of a locator view.
func (s *LocatorService) Feed(ctx context.Context, req FeedRequest) (feed.Document, error) {
	startTime := time.Now()
	doc, err := s.feed(ctx, req)
	s.metrics.FeedSeconds.Observe(time.Since(startTime).Seconds())

	if err != nil {
		s.metrics.FeedBuilds.WithLabelValues("failure").Inc()
		return feed.Document{}, err
	}

	s.metrics.FeedBuilds.WithLabelValues("success").Inc()
	s.metrics.FeedLocations.Observe(float64(len(doc.Locations)))

	return doc, nil
}

func (s *LocatorService) feed(ctx context.Context, req FeedRequest) (feed.Document, error) {
	view, snap, err := s.repo.Load(ctx, req.LocatorID)
	if err != nil {
		return feed.Document{}, fmt.Errorf("failed to load locator %d: %w", req.LocatorID, err)
	}

	eval, err := s.evaluator.Evaluate(*view, snap.Locations)
	if err != nil {
		return feed.Document{}, err
	}

	matchAny := search.ResolveSearchCategories(view.Categories)
	if strings.TrimSpace(req.Category) != "" {
		matchAny, err = search.ResolveSelection(req.Category, snap.Categories)
		if err != nil {
			return feed.Document{}, err
		}
	}

	locations, err := filter.Locations(snap.Locations, filter.Request{MatchAny: matchAny})
	if err != nil {
		return feed.Document{}, fmt.Errorf("failed to filter locations: %w", err)
	}

	origin := req.Origin
	if origin == nil && strings.TrimSpace(req.Address) != "" {
		origin, err = s.resolveOrigin(ctx, req.Address)
		if err != nil {
			return feed.Document{}, err
		}
	}

	radius := req.Radius
	if radius <= 0 && eval.MaxDistance {
		radius = s.opts.DefaultRadius
	}

	placements := locator.Arrange(locations, locator.Query{
		Origin: origin,
		Radius: radius,
		Unit:   eval.Unit,
		Limit:  eval.StoreLimit,
	})

	s.log.DebugContext(ctx, "Feed assembled",
		"locator", req.LocatorID,
		"mode", eval.Mode,
		"candidates", len(locations),
		"returned", len(placements),
	)

	return feed.Assemble(placements, snap.CategoryNames()), nil
}

func (s *LocatorService) resolveOrigin(ctx context.Context, address string) (*models.Coordinates, error) {
	startTime := time.Now()
	coords, err := s.provider.Geocode(ctx, s.opts.AddressPrefix+strings.TrimSpace(address))
	s.metrics.GeocoderSeconds.WithLabelValues(s.opts.ProviderName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		s.metrics.GeocoderErrors.Inc()
		s.log.WarnContext(ctx, "Failed to geocode search address", "address", address, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOriginNotResolved, err)
	}
	if coords == nil || !coords.IsSet() {
		s.metrics.GeocoderErrors.Inc()
		return nil, fmt.Errorf("%w: no coordinates for %q", ErrOriginNotResolved, address)
	}

	return coords, nil
}

// SearchForm describes the search inputs of a locator view.
func (s *LocatorService) SearchForm(ctx context.Context, locatorID int64) (search.FormDescriptor, error) {
	view, snap, err := s.repo.Load(ctx, locatorID)
	if err != nil {
		return search.FormDescriptor{}, fmt.Errorf("failed to load locator %d: %w", locatorID, err)
	}

	return s.describer.Describe(ctx, *view, snap.Categories), nil
}

// Settings returns the map widget options of a locator view.
func (s *LocatorService) Settings(ctx context.Context, locatorID int64) (Settings, error) {
	view, snap, err := s.repo.Load(ctx, locatorID)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load locator %d: %w", locatorID, err)
	}

	eval, err := s.evaluator.Evaluate(*view, snap.Locations)
	if err != nil {
		return Settings{}, err
	}

	visible, err := filter.Count(snap.Locations, filter.Request{})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to count visible locations: %w", err)
	}

	return newSettings(eval, s.feedLink(locatorID), s.opts.MapsAPIKey, visible > 0), nil
}

func (s *LocatorService) feedLink(locatorID int64) string {
	return strings.TrimRight(s.opts.BasePath, "/") + "/" + strconv.FormatInt(locatorID, 10) +
		"/feed." + string(feed.FormatXML)
}
