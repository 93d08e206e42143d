// Package metrics records build activity for the preview server.
package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultLabel classifies a rebuild outcome.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder exposes Prometheus metrics for the preview server.
type Recorder struct {
	once          sync.Once
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesRendered prom.Gauge
	fallbackPages prom.Gauge
	requests      *prom.CounterVec
}

// NewRecorder constructs and registers the preview metrics (idempotent).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{registry: reg}
	r.once.Do(func() {
		r.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "helpbuild",
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of preview rebuilds",
			Buckets:   prom.DefBuckets,
		})
		r.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "helpbuild",
			Name:      "rebuild_outcomes_total",
			Help:      "Rebuild outcomes by final status",
		}, []string{"outcome"})
		r.pagesRendered = prom.NewGauge(prom.GaugeOpts{
			Namespace: "helpbuild",
			Name:      "pages_rendered",
			Help:      "Pages rendered by the most recent build",
		})
		r.fallbackPages = prom.NewGauge(prom.GaugeOpts{
			Namespace: "helpbuild",
			Name:      "fallback_pages",
			Help:      "Pages served from the source locale in the most recent build",
		})
		r.requests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "helpbuild",
			Name:      "http_requests_total",
			Help:      "Preview HTTP requests by status class",
		}, []string{"status"})
		reg.MustRegister(r.buildDuration, r.buildOutcome, r.pagesRendered, r.fallbackPages, r.requests)
	})
	return r
}

func (r *Recorder) ObserveRebuild(d time.Duration, outcome ResultLabel) {
	if r == nil || r.buildDuration == nil {
		return
	}
	r.buildDuration.Observe(d.Seconds())
	r.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) SetPagesRendered(n, fallbacks int) {
	if r == nil || r.pagesRendered == nil {
		return
	}
	r.pagesRendered.Set(float64(n))
	r.fallbackPages.Set(float64(fallbacks))
}

func (r *Recorder) IncRequest(statusClass string) {
	if r == nil || r.requests == nil {
		return
	}
	r.requests.WithLabelValues(statusClass).Inc()
}

// Handler returns the /metrics HTTP handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
