package hydrate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of a Metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vango").
	Namespace string

	// Subsystem is the metrics subsystem (default: "hydration").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for attempt duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vango",
		Subsystem: "hydration",
		// Reconciliation is in-memory; most attempts finish well under 10ms.
		Buckets:  []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics records reconciliation outcomes. A nil *Metrics records nothing.
//
// Metrics collected (with the default namespace and subsystem):
//   - vango_hydration_attempts_total: attempts by outcome (ok, boundary, tree, error)
//   - vango_hydration_mismatches_total: mismatches by kind
//   - vango_hydration_patches_total: patches produced
//   - vango_hydration_escalations_total: escalations by scope
//   - vango_hydration_attempt_duration_seconds: reconciliation duration
//   - vango_hydration_provider_failures_total: provider failures by side
type Metrics struct {
	attempts         *prometheus.CounterVec
	mismatches       *prometheus.CounterVec
	patches          prometheus.Counter
	escalations      *prometheus.CounterVec
	duration         prometheus.Histogram
	providerFailures *prometheus.CounterVec
}

// NewMetrics registers the hydration collectors. Registering twice with the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attempts_total",
			Help:        "Total number of hydration reconciliation attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mismatches_total",
			Help:        "Total number of hydration mismatches by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of in-place patches produced",
			ConstLabels: config.ConstLabels,
		}),

		escalations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "escalations_total",
			Help:        "Total number of escalations by scope",
			ConstLabels: config.ConstLabels,
		}, []string{"scope"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attempt_duration_seconds",
			Help:        "Hydration reconciliation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		providerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "provider_failures_total",
			Help:        "Total number of tree provider failures by side",
			ConstLabels: config.ConstLabels,
		}, []string{"side"}),
	}
}

// Observe records one finished reconciliation.
func (m *Metrics) Observe(r *Result, elapsed time.Duration) {
	if m == nil || r == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	for _, mm := range r.Repaired {
		m.mismatches.WithLabelValues(mm.Kind.String()).Inc()
	}
	m.patches.Add(float64(len(r.Patches)))

	outcome := "ok"
	for _, esc := range r.Escalations {
		m.mismatches.WithLabelValues(esc.Mismatch.Kind.String()).Inc()
		m.escalations.WithLabelValues(esc.Scope.String()).Inc()
	}
	if r.Escalation != nil {
		outcome = r.Escalation.Scope.String()
	}
	m.attempts.WithLabelValues(outcome).Inc()
}

// ProviderFailure records a tree that could not be produced. side is
// "server" or "client".
func (m *Metrics) ProviderFailure(side string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(side).Inc()
	m.attempts.WithLabelValues("error").Inc()
}
