package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bitscopic/roi-calculator/internal/pipeline"
)

// MetricsSnapshot holds a point-in-time view of generation health.
type MetricsSnapshot struct {
	Started     int       `json:"started"`
	Exported    int       `json:"exported"`
	Compiled    int       `json:"compiled"`
	Failed      int       `json:"failed"`
	FailRate    float64   `json:"fail_rate"`
	CollectedAt time.Time `json:"collected_at"`
}

// Collector records generation transitions as Prometheus metrics and
// keeps running totals for health checks. It implements
// pipeline.Observer.
type Collector struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	stageTime   *prometheus.HistogramVec
	exports     *prometheus.CounterVec
	requests    *prometheus.CounterVec

	mu   sync.Mutex
	snap MetricsSnapshot
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roi",
			Name:      "generation_transitions_total",
			Help:      "Report generation state transitions by target state.",
		}, []string{"to"}),
		stageTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roi",
			Name:      "generation_stage_seconds",
			Help:      "Time spent in each generation state.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"state"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roi",
			Name:      "exports_total",
			Help:      "Exports by format and outcome.",
		}, []string{"format", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	c.registry.MustRegister(
		c.transitions,
		c.stageTime,
		c.exports,
		c.requests,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// OnTransition implements pipeline.Observer.
func (c *Collector) OnTransition(t pipeline.Transition) {
	c.transitions.WithLabelValues(string(t.To)).Inc()
	c.stageTime.WithLabelValues(string(t.From)).Observe(t.Elapsed.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	switch t.To {
	case pipeline.StateComputing:
		c.snap.Started++
	case pipeline.StateCompiled:
		c.snap.Compiled++
	case pipeline.StateExported:
		c.snap.Exported++
	case pipeline.StateFailed:
		c.snap.Failed++
	}
}

// RecordExport counts an export attempt.
func (c *Collector) RecordExport(format string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.exports.WithLabelValues(format, outcome).Inc()
}

// RecordRequest counts an HTTP request.
func (c *Collector) RecordRequest(route, code string) {
	c.requests.WithLabelValues(route, code).Inc()
}

// Snapshot returns the running totals.
func (c *Collector) Snapshot() *MetricsSnapshot {
	c.mu.Lock()
	snap := c.snap
	c.mu.Unlock()

	if finished := snap.Compiled + snap.Failed; finished > 0 {
		snap.FailRate = float64(snap.Failed) / float64(finished)
	}
	snap.CollectedAt = time.Now().UTC()
	return &snap
}
