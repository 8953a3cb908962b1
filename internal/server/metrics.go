package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry,
// so tests can construct servers without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal   *prometheus.CounterVec
	TasksTotal  *prometheus.CounterVec
	RunDuration prometheus.Histogram
	ActiveRuns  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backgrounder_runs_total",
		Help: "Background check runs, by consumption mode and outcome.",
	}, []string{"mode", "status"})

	m.TasksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backgrounder_tasks_total",
		Help: "Source fetch tasks, by task family and terminal state.",
	}, []string{"kind", "state"})

	m.RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "backgrounder_run_duration_seconds",
		Help:    "End-to-end duration of background check runs.",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	m.ActiveRuns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "backgrounder_active_runs",
		Help: "Runs currently in flight.",
	})

	m.registry.MustRegister(m.RunsTotal, m.TasksTotal, m.RunDuration, m.ActiveRuns)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// taskFamily folds a task ID into its metric label: the prefix before the
// first colon for parameterized IDs, the full ID otherwise.
func taskFamily(taskID string) string {
	if family, _, ok := strings.Cut(taskID, ":"); ok {
		return family
	}
	return taskID
}
