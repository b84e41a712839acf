// Package prom records observability hooks as Prometheus metrics.
//
// orgdeps is a one-shot CLI, so metrics are not scraped. Instead the
// collected values are written once to a text file in the node_exporter
// textfile-collector format:
//
//	m := prom.New()
//	observability.SetScanHooks(m)
//	observability.SetHTTPHooks(m)
//	observability.SetCacheHooks(m)
//	// ... run the scan ...
//	err := m.WriteTo("/var/lib/node_exporter/orgdeps.prom")
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/orgdeps/pkg/observability"
)

// Metrics implements every observability hook interface on top of a
// private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	pages        prometheus.Counter
	repositories prometheus.Gauge
	listDuration prometheus.Histogram
	fetches      *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	parseErrors  prometheus.Counter
	dependencies prometheus.Gauge
	scanDuration prometheus.Gauge
	lastSuccess  prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpErrors   prometheus.Counter
	httpLatency  prometheus.Histogram
	cacheEvents  *prometheus.CounterVec
}

// New creates a Metrics with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgdeps_listing_pages_total",
			Help: "Repository listing pages fetched.",
		}),
		repositories: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgdeps_repositories",
			Help: "Repositories found in the organization.",
		}),
		listDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orgdeps_listing_duration_seconds",
			Help:    "Time spent walking the repository listing.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdeps_manifest_fetches_total",
			Help: "Manifest fetches by outcome.",
		}, []string{"outcome"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orgdeps_manifest_fetch_duration_seconds",
			Help:    "Latency of a single manifest fetch.",
			Buckets: prometheus.DefBuckets,
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgdeps_manifest_parse_errors_total",
			Help: "Manifests that were not valid JSON.",
		}),
		dependencies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgdeps_dependencies",
			Help: "Distinct dependencies in the last report.",
		}),
		scanDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgdeps_scan_duration_seconds",
			Help: "Wall time of the last scan.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgdeps_last_success_timestamp_seconds",
			Help: "Unix time of the last successful scan.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdeps_http_responses_total",
			Help: "HTTP responses from GitHub by status code.",
		}, []string{"method", "code"}),
		httpErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgdeps_http_errors_total",
			Help: "HTTP requests that failed before a response arrived.",
		}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orgdeps_http_request_duration_seconds",
			Help:    "Latency of HTTP requests to GitHub.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdeps_cache_events_total",
			Help: "Cache lookups and writes by event.",
		}, []string{"type", "event"}),
	}
	m.registry.MustRegister(
		m.pages, m.repositories, m.listDuration,
		m.fetches, m.fetchLatency, m.parseErrors,
		m.dependencies, m.scanDuration, m.lastSuccess,
		m.httpRequests, m.httpErrors, m.httpLatency,
		m.cacheEvents,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTo writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTo(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnListStart(context.Context, string) {}

func (m *Metrics) OnPage(context.Context, string, int, int) { m.pages.Inc() }

func (m *Metrics) OnListComplete(_ context.Context, _ string, repos int, d time.Duration, err error) {
	m.listDuration.Observe(d.Seconds())
	if err == nil {
		m.repositories.Set(float64(repos))
	}
}

func (m *Metrics) OnFetch(_ context.Context, _, _ string, o observability.FetchOutcome, d time.Duration, _ error) {
	m.fetches.WithLabelValues(string(o)).Inc()
	m.fetchLatency.Observe(d.Seconds())
}

func (m *Metrics) OnExtract(_ context.Context, _ string, _ int, err error) {
	if err != nil {
		m.parseErrors.Inc()
	}
}

func (m *Metrics) OnScanComplete(_ context.Context, _ string, _, deps int, d time.Duration, err error) {
	m.scanDuration.Set(d.Seconds())
	if err == nil {
		m.dependencies.Set(float64(deps))
		m.lastSuccess.SetToCurrentTime()
	}
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, _, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpLatency.Observe(d.Seconds())
}

func (m *Metrics) OnError(context.Context, string, string, string, error) { m.httpErrors.Inc() }

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

var (
	_ observability.ScanHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks  = (*Metrics)(nil)
	_ observability.CacheHooks = (*Metrics)(nil)
)
