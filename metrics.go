package bootdep

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records what the container did during bootstrap. A nil *Metrics records nothing.
type Metrics struct {
	componentsDiscovered  prometheus.Gauge
	componentsConstructed prometheus.Counter
	constructorDuration   prometheus.Histogram
	bootstrapFailures     *prometheus.CounterVec
}

// NewMetrics creates the container metrics and registers them with reg. Passing a nil reg
// creates unregistered collectors, which is mostly useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		componentsDiscovered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bootdep_components_discovered",
				Help: "Number of components discovered by the last bootstrap.",
			},
		),
		componentsConstructed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bootdep_components_constructed_total",
				Help: "Total number of component instances constructed.",
			},
		),
		constructorDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bootdep_constructor_duration_seconds",
				Help:    "Time spent inside component constructors.",
				Buckets: prometheus.DefBuckets,
			},
		),
		bootstrapFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bootdep_bootstrap_failures_total",
				Help: "Number of failed bootstraps by failure kind.",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.componentsDiscovered,
			m.componentsConstructed,
			m.constructorDuration,
			m.bootstrapFailures,
		)
	}
	return m
}

func (m *Metrics) observeDiscovered(n int) {
	if m == nil {
		return
	}
	m.componentsDiscovered.Set(float64(n))
}

func (m *Metrics) observeConstruction(d time.Duration) {
	if m == nil {
		return
	}
	m.componentsConstructed.Inc()
	m.constructorDuration.Observe(d.Seconds())
}

func (m *Metrics) observeFailure(err error) {
	if m == nil {
		return
	}
	kind := "unknown"
	if k := kindOf(err); k != nil {
		kind = strings.ReplaceAll(k.Error(), " ", "_")
	}
	m.bootstrapFailures.WithLabelValues(kind).Inc()
}
