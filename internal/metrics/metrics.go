// Package metrics holds the Prometheus instruments for search, analytics,
// contact and site builds.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "evosystems"

// Metrics holds all site metrics.
type Metrics struct {
	// Search
	SearchQueries     *prometheus.CounterVec
	SearchResults     prometheus.Histogram
	SearchZeroResults *prometheus.CounterVec

	// Analytics
	EventsSent    *prometheus.CounterVec
	EventsDropped prometheus.Counter
	EventsFailed  prometheus.Counter

	// Contact
	ContactSubmissions *prometheus.CounterVec

	// Builds
	BuildsTotal     *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	PagesRendered   prometheus.Gauge
	ContentReloaded prometheus.Counter
}

// New creates and registers the metrics. A nil registerer uses the default
// Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	m := &Metrics{}
	m.initSearch(factory)
	m.initAnalytics(factory)
	m.initBuild(factory)
	return m
}

func (m *Metrics) initSearch(factory promauto.Factory) {
	m.SearchQueries = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "search",
		Name:      "queries_total",
		Help:      "Total search queries by locale",
	}, []string{"locale"})

	m.SearchResults = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "search",
		Name:      "results",
		Help:      "Number of results returned per query",
		Buckets:   []float64{0, 1, 2, 4, 6, 8},
	})

	m.SearchZeroResults = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "search",
		Name:      "zero_results_total",
		Help:      "Queries that matched nothing",
	}, []string{"locale"})
}

func (m *Metrics) initAnalytics(factory promauto.Factory) {
	m.EventsSent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "analytics",
		Name:      "events_sent_total",
		Help:      "Analytics events delivered to the collector",
	}, []string{"event"})

	m.EventsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "analytics",
		Name:      "events_dropped_total",
		Help:      "Analytics events dropped because the buffer was full",
	})

	m.EventsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "analytics",
		Name:      "events_failed_total",
		Help:      "Analytics events lost to a send error",
	})

	m.ContactSubmissions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "contact",
		Name:      "submissions_total",
		Help:      "Contact form submissions by outcome",
	}, []string{"outcome"})
}

func (m *Metrics) initBuild(factory promauto.Factory) {
	m.BuildsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "site",
		Name:      "builds_total",
		Help:      "Site builds by outcome",
	}, []string{"outcome"})

	m.BuildDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "site",
		Name:      "build_duration_seconds",
		Help:      "Wall time of a full site build",
		Buckets:   prometheus.DefBuckets,
	})

	m.PagesRendered = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "site",
		Name:      "pages_rendered",
		Help:      "Pages written by the last successful build",
	})

	m.ContentReloaded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "site",
		Name:      "content_reloads_total",
		Help:      "Content snapshots swapped in by the dev server",
	})
}

// ObserveSearch records one query and its result count.
func (m *Metrics) ObserveSearch(locale string, results int) {
	m.SearchQueries.WithLabelValues(locale).Inc()
	m.SearchResults.Observe(float64(results))
	if results == 0 {
		m.SearchZeroResults.WithLabelValues(locale).Inc()
	}
}

// ObserveBuild records a finished build.
func (m *Metrics) ObserveBuild(seconds float64, pages int, err error) {
	if err != nil {
		m.BuildsTotal.WithLabelValues("error").Inc()
		return
	}
	m.BuildsTotal.WithLabelValues("ok").Inc()
	m.BuildDuration.Observe(seconds)
	m.PagesRendered.Set(float64(pages))
}
