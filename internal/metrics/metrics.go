package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	resolutions    *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	rerankDuration prometheus.Histogram
	transitions    *prometheus.CounterVec
	feedback       *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Resolved questions by final status",
		}, []string{"status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_cache_lookups_total",
			Help:      "Similarity cache lookups by outcome (hit, miss, error)",
		}, []string{"outcome"}),
		rerankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rerank_duration_seconds",
			Help:      "Time spent scoring the passage corpus",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogue_transitions_total",
			Help:      "Dialogue turns by emitted status",
		}, []string{"status"}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback submissions by verdict",
		}, []string{"is_good"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.resolutions,
		m.cacheLookups,
		m.rerankDuration,
		m.transitions,
		m.feedback,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveResolution(status string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRerank(d time.Duration) {
	if m == nil {
		return
	}
	m.rerankDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveFeedback(isGood bool) {
	if m == nil {
		return
	}
	m.feedback.WithLabelValues(strconv.FormatBool(isGood)).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
