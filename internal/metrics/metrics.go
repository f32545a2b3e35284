package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "bangapda"

// Collector holds the Prometheus metrics for one server instance. Each
// collector owns its registry so tests can build as many as they like.
//
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Searches        *prometheus.CounterVec
	SearchDuration  prometheus.Histogram
	MatchesReturned prometheus.Counter
	Transitions     *prometheus.CounterVec
	MessagesSent    prometheus.Counter
}

// New creates a collector with a fresh registry.
func New() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "searches_total",
			Help:      "Total number of candidate searches by mode",
		}, []string{"mode"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent loading and scoring the directory",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		MatchesReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "matches_returned_total",
			Help:      "Total number of ranked matches returned",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "request_transitions_total",
			Help:      "Friend request actions by kind",
		}, []string{"action"}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of chat messages sent",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests, c.HTTPDuration,
		c.Searches, c.SearchDuration, c.MatchesReturned,
		c.Transitions, c.MessagesSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveSearch records one search and how many matches it produced.
func (c *Collector) ObserveSearch(mode string, matches int, took time.Duration) {
	if c == nil {
		return
	}
	c.Searches.WithLabelValues(mode).Inc()
	c.SearchDuration.Observe(took.Seconds())
	c.MatchesReturned.Add(float64(matches))
}

// ObserveTransition records a request action (send, accept, block, skip).
func (c *Collector) ObserveTransition(action string) {
	if c == nil {
		return
	}
	c.Transitions.WithLabelValues(action).Inc()
}

// ObserveMessage records a sent chat message.
func (c *Collector) ObserveMessage() {
	if c == nil {
		return
	}
	c.MessagesSent.Inc()
}

// ObserveHTTP records a finished HTTP request.
func (c *Collector) ObserveHTTP(method, route string, status int, took time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
