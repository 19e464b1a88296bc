// Package metrics collects and exposes Prometheus metrics for the feed and the compose box.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the feed cache, the compose unit and the HTTP layer report to.
type Recorder interface {
	RecordFeedFetch(key string, err error, duration time.Duration)
	RecordInvalidation(key string)
	RecordPostCreated()
	RecordPostFailed(reason string)
	RecordHTTPStatus(statusCode int)
}

type Collector struct {
	feedFetch     *prometheus.CounterVec
	feedLatency   prometheus.Histogram
	invalidations *prometheus.CounterVec
	postsCreated  prometheus.Counter
	postsFailed   *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		feedFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_feed_fetch_total",
			Help: "Feed query fetches, by query and result.",
		}, []string{"query", "result"}),
		feedLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chirp_feed_fetch_latency_seconds",
			Help:    "Latency of feed query fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_feed_invalidations_total",
			Help: "Feed query invalidations, by query.",
		}, []string{"query"}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chirp_posts_created_total",
			Help: "Posts created through the compose box.",
		}),
		postsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_posts_failed_total",
			Help: "Rejected or failed post submissions, by reason.",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.feedFetch,
		c.feedLatency,
		c.invalidations,
		c.postsCreated,
		c.postsFailed,
		c.httpStatus,
	)
	return c
}

func (c *Collector) RecordFeedFetch(key string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.feedFetch.WithLabelValues(key, result).Inc()
	c.feedLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordInvalidation(key string) {
	c.invalidations.WithLabelValues(key).Inc()
}

func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

func (c *Collector) RecordPostFailed(reason string) {
	c.postsFailed.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFeedFetch(string, error, time.Duration) {}
func (Nop) RecordInvalidation(string)                    {}
func (Nop) RecordPostCreated()                           {}
func (Nop) RecordPostFailed(string)                      {}
func (Nop) RecordHTTPStatus(int)                         {}
