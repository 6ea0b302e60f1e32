package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FeedBuilds       *prometheus.CounterVec
	FeedSeconds      prometheus.Histogram
	FeedLocations    prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	GeocoderErrors   prometheus.Counter
	GeocoderSeconds  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPRequestsSecs *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FeedBuilds: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locator_feed_builds_total",
			Help: "Total number of feed builds by outcome.",
		}, []string{"status"}),
		FeedSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "locator_feed_build_duration_seconds",
			Help:    "Duration of feed builds, snapshot load included.",
			Buckets: prometheus.DefBuckets,
		}),
		FeedLocations: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "locator_feed_locations",
			Help:    "Number of locations returned per feed.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locator_cache_lookups_total",
			Help: "Cache lookups by cache (feed, origin) and result (hit, miss, error).",
		}, []string{"cache", "result"}),
		GeocoderErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "locator_geocoder_errors_total",
			Help: "Total number of errors received from the geocoding provider.",
		}),
		GeocoderSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locator_geocoder_request_duration_seconds",
			Help:    "Duration of search address lookups.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locator_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		HTTPRequestsSecs: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locator_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
