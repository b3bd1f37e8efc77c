// Package metrics holds the Prometheus metrics of running nets.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rtnet"

// Metrics are the collectors updated by the runner. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	overruns      *prometheus.CounterVec
	running       prometheus.Gauge
	completed     *prometheus.CounterVec
	primitives    *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "net",
			Name:      "cycles_total",
			Help:      "Cycles executed per net.",
		}, []string{"net"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "net",
			Name:      "cycle_duration_seconds",
			Help:      "Time spent executing one cycle.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"net"}),
		overruns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "net",
			Name:      "overruns_total",
			Help:      "Cycles that took longer than the cycle time in real-time mode.",
		}, []string{"net"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "net",
			Name:      "running",
			Help:      "Nets currently running.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "net",
			Name:      "finished_total",
			Help:      "Finished runs by outcome (stopped, cycles, cancelled, error).",
		}, []string{"outcome"}),
		primitives: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "net",
			Name:      "primitives",
			Help:      "Primitives per net.",
		}, []string{"net"}),
	}
	for _, c := range []prometheus.Collector{m.cycles, m.cycleDuration, m.overruns, m.running, m.completed, m.primitives} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Started records a net of n primitives starting.
func (m *Metrics) Started(net string, n int) {
	if m == nil {
		return
	}
	m.running.Inc()
	m.primitives.WithLabelValues(net).Set(float64(n))
}

// Cycle records one cycle and whether it overran the cycle time.
func (m *Metrics) Cycle(net string, d time.Duration, overrun bool) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(net).Inc()
	m.cycleDuration.WithLabelValues(net).Observe(d.Seconds())
	if overrun {
		m.overruns.WithLabelValues(net).Inc()
	}
}

// Finished records a net ending with the given outcome.
func (m *Metrics) Finished(net, outcome string) {
	if m == nil {
		return
	}
	m.running.Dec()
	m.primitives.DeleteLabelValues(net)
	m.completed.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
