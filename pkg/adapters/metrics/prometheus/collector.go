package prometheus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records worker invocation metrics in its own registry
type Collector struct {
	registry *prometheus.Registry

	invocations       *prometheus.CounterVec
	computeDuration   *prometheus.HistogramVec
	eventsEmitted     *prometheus.CounterVec
	parameterOverride *prometheus.CounterVec
	inputFallbacks    *prometheus.CounterVec
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scenario_invocations_total",
				Help: "Total number of worker invocations",
			},
			[]string{"model", "status"},
		),
		computeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scenario_compute_duration_seconds",
				Help:    "Model computation duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"model"},
		),
		eventsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scenario_events_emitted_total",
				Help: "Total number of output records written",
			},
			[]string{"model", "kind"},
		),
		parameterOverride: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scenario_parameter_overrides_total",
				Help: "Total number of parameters taken from the input instead of defaults",
			},
			[]string{"model"},
		),
		inputFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scenario_input_fallbacks_total",
				Help: "Total number of empty or malformed inputs replaced by an empty mapping",
			},
			[]string{"model"},
		),
	}
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordInvocation records a finished invocation with status ok or failed
func (c *Collector) RecordInvocation(model, status string) {
	c.invocations.WithLabelValues(model, status).Inc()
}

// ObserveCompute records the duration of a model computation
func (c *Collector) ObserveCompute(model string, duration time.Duration) {
	c.computeDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// IncEventsEmitted increments the count of written records of a kind
func (c *Collector) IncEventsEmitted(model, kind string) {
	c.eventsEmitted.WithLabelValues(model, kind).Inc()
}

// AddParameterOverrides adds the number of overridden parameters
func (c *Collector) AddParameterOverrides(model string, count int) {
	c.parameterOverride.WithLabelValues(model).Add(float64(count))
}

// IncInputFallbacks increments the count of inputs treated as empty
func (c *Collector) IncInputFallbacks(model string) {
	c.inputFallbacks.WithLabelValues(model).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format
// used by the node_exporter textfile collector
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
