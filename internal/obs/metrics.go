package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation modes used as metric labels.
const (
	ModePrice       = "price"
	ModeMargin      = "margin"
	ModeCostToPrice = "cost_to_price"
	ModeCostCeiling = "cost_ceiling"
)

// Metrics groups the Prometheus collectors of the service on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	CalculationsTotal *prometheus.CounterVec
	InfeasibleTotal   *prometheus.CounterVec
	SolverIterations  prometheus.Histogram
}

// NewMetrics builds and registers every collector under namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Pricing calculations served, by mode.",
		}, []string{"mode"}),
		InfeasibleTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_infeasible_total",
			Help:      "Solver outcomes that could not reach the requested margin, by mode.",
		}, []string{"mode"}),
		SolverIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cost_to_price_iterations",
			Help:      "Rounds used by the cost-to-price solver.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.CalculationsTotal,
		m.InfeasibleTotal,
		m.SolverIterations,
	)
	return m
}

// ObserveCalculation counts one calculation and, when infeasible, its failure.
func (m *Metrics) ObserveCalculation(mode string, infeasible bool) {
	m.CalculationsTotal.WithLabelValues(mode).Inc()
	if infeasible {
		m.InfeasibleTotal.WithLabelValues(mode).Inc()
	}
}

// ObserveSolverIterations records the rounds of one cost-to-price solve.
func (m *Metrics) ObserveSolverIterations(n int) {
	m.SolverIterations.Observe(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
