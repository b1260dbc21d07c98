package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "avrouter"
	subsystem = "route"
)

// nameLabel carries the full dotted instrument name. Keeping the
// dotted name in a label value (label values are unrestricted)
// guarantees distinct instruments never collide, which a sanitized
// metric name could not.
const nameLabel = "name"

// Counter counts occurrences of an event, e.g. handler invocations.
type Counter interface {
	Inc()
}

// Timer records elapsed durations, e.g. handler latency.
type Timer interface {
	Observe(d time.Duration)
}

// Registry is the instrument registry. Counter and Timer are
// get-or-create by name: the same name always yields the same
// underlying instrument, concurrently safe, however many times it is
// requested.
type Registry struct {
	registry *prometheus.Registry
	counters *prometheus.CounterVec
	timers   *prometheus.HistogramVec
}

// NewRegistry creates a registry with its own Prometheus registry
// underneath.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.counters = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of invocations per instrument name",
		},
		[]string{nameLabel},
	)
	r.timers = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "latency_seconds",
			Help:      "Invocation latency per instrument name",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{nameLabel},
	)

	r.registry.MustRegister(r.counters, r.timers)
	return r
}

// Counter returns the counting instrument registered under name,
// creating it on first use.
func (r *Registry) Counter(name string) Counter {
	return r.counters.WithLabelValues(name)
}

// Timer returns the duration instrument registered under name,
// creating it on first use.
func (r *Registry) Timer(name string) Timer {
	return histogramTimer{r.timers.WithLabelValues(name)}
}

// Handler exposes the registry's instruments for Prometheus scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying Prometheus gatherer, mainly for
// tests and for embedding in a larger metrics surface.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// histogramTimer adapts a Prometheus observer to the Timer interface.
type histogramTimer struct {
	observer prometheus.Observer
}

// Observe records an elapsed duration in seconds.
func (t histogramTimer) Observe(d time.Duration) {
	t.observer.Observe(d.Seconds())
}

// Name joins instrument name parts with dots, skipping empty parts.
func Name(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}
