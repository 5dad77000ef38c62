package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of the psmap backend:
// the HTTP API surface, dataset loads and the payload cache. All
// methods are nil-safe so components can run without metrics wired.
type Collector struct {
	gatherer prometheus.Gatherer

	// HTTPRequests counts handled API requests by route, method and
	// status code.
	HTTPRequests *prometheus.CounterVec

	// HTTPDurations tracks API latency by route and method.
	HTTPDurations *prometheus.HistogramVec

	// DatasetRows reports the row count of the most recently loaded
	// snapshot per category.
	DatasetRows *prometheus.GaugeVec

	// FetchTotal counts origin fetches by category and outcome
	// ("ok", "unavailable", "parse_error").
	FetchTotal *prometheus.CounterVec

	// CacheRequests counts payload cache lookups by category and
	// result ("hit", "miss").
	CacheRequests *prometheus.CounterVec
}

// Fetch outcome label values.
const (
	FetchOutcomeOK          = "ok"
	FetchOutcomeUnavailable = "unavailable"
	FetchOutcomeParseError  = "parse_error"
)

// Cache result label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// NewCollector registers the psmap metrics against reg, defaulting to
// the global Prometheus registry when nil. Registration is idempotent:
// an already-registered compatible collector is reused.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "psmap_http_requests_total",
		Help: "Total number of handled API requests, labeled by route, method and status code.",
	}, []string{"route", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "psmap_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "psmap_http_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route", "method"})
	durations, err = registerHistogramVec(reg, durations, "psmap_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "psmap_dataset_rows",
		Help: "Row count of the most recently loaded snapshot per category.",
	}, []string{"category"})
	rows, err = registerGaugeVec(reg, rows, "psmap_dataset_rows")
	if err != nil {
		return nil, err
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "psmap_fetch_total",
		Help: "Origin fetches by category and outcome.",
	}, []string{"category", "outcome"})
	fetches, err = registerCounterVec(reg, fetches, "psmap_fetch_total")
	if err != nil {
		return nil, err
	}

	cacheRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "psmap_cache_requests_total",
		Help: "Payload cache lookups by category and result.",
	}, []string{"category", "result"})
	cacheRequests, err = registerCounterVec(reg, cacheRequests, "psmap_cache_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		HTTPRequests:  requests,
		HTTPDurations: durations,
		DatasetRows:   rows,
		FetchTotal:    fetches,
		CacheRequests: cacheRequests,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled API request.
func (c *Collector) ObserveRequest(route, method, code string, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.HTTPRequests != nil {
		c.HTTPRequests.WithLabelValues(route, method, code).Inc()
	}
	if c.HTTPDurations != nil {
		c.HTTPDurations.WithLabelValues(route, method).Observe(elapsed.Seconds())
	}
}

// SetDatasetRows records the row count of a loaded snapshot.
func (c *Collector) SetDatasetRows(category string, rows int) {
	if c == nil || c.DatasetRows == nil {
		return
	}
	c.DatasetRows.WithLabelValues(category).Set(float64(rows))
}

// ObserveFetch records one origin fetch outcome.
func (c *Collector) ObserveFetch(category, outcome string) {
	if c == nil || c.FetchTotal == nil {
		return
	}
	c.FetchTotal.WithLabelValues(category, outcome).Inc()
}

// ObserveCache records one payload cache lookup.
func (c *Collector) ObserveCache(category, result string) {
	if c == nil || c.CacheRequests == nil {
		return
	}
	c.CacheRequests.WithLabelValues(category, result).Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
