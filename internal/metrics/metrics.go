// Package metrics provides the centralized Prometheus metrics registry for the simulation engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "venture_sim",
		Name:      "startup_simulations_total",
		Help:      "Total number of per-startup simulations by status",
	}, []string{"status"})
	TrialsSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "venture_sim",
		Name:      "trials_simulated_total",
		Help:      "Total number of simulated trials across all startups",
	})
	WeightCandidatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "venture_sim",
		Name:      "weight_candidates_evaluated_total",
		Help:      "Total number of weight vectors scored by the optimizer",
	})
	AllocationRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "venture_sim",
		Name:      "allocation_rejections_total",
		Help:      "Total number of weight candidates rejected for violating the minimum ticket",
	})
)

// Gauge metrics
var (
	SelectedStartups = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "venture_sim",
		Name:      "selected_startups",
		Help:      "Number of startups selected by the latest portfolio run",
	})
	RunsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "venture_sim",
		Name:      "runs_in_flight",
		Help:      "Number of background portfolio runs currently executing",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "venture_sim",
		Name:      "startup_simulation_duration_seconds",
		Help:      "Duration of a single startup simulation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	OptimizationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "venture_sim",
		Name:      "weight_optimization_duration_seconds",
		Help:      "Duration of a weight search in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(TrialsSimulatedTotal)
		registry.MustRegister(WeightCandidatesTotal)
		registry.MustRegister(AllocationRejectionsTotal)

		// Register gauge metrics
		registry.MustRegister(SelectedStartups)
		registry.MustRegister(RunsInFlight)

		// Register histogram metrics
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(OptimizationDuration)

		// Register portfolio metrics
		registry.MustRegister(PortfolioRunsTotal)
		registry.MustRegister(PortfolioRunDuration)
		registry.MustRegister(PortfolioScore)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulation records one startup simulation.
// status should be one of: "success", "failure"
func RecordSimulation(status string, durationSeconds float64, trials int) {
	SimulationsTotal.WithLabelValues(status).Inc()
	SimulationDuration.Observe(durationSeconds)
	if trials > 0 {
		TrialsSimulatedTotal.Add(float64(trials))
	}
}

// RecordOptimization records a completed weight search.
func RecordOptimization(candidates int, durationSeconds float64) {
	WeightCandidatesTotal.Add(float64(candidates))
	OptimizationDuration.Observe(durationSeconds)
}

// RecordAllocationRejections records weight candidates rejected by the ticket check.
func RecordAllocationRejections(count int) {
	if count > 0 {
		AllocationRejectionsTotal.Add(float64(count))
	}
}

// UpdateSelectedStartups updates the selected startups gauge.
func UpdateSelectedStartups(count int) {
	SelectedStartups.Set(float64(count))
}

// IncRunsInFlight marks a background run as started.
func IncRunsInFlight() {
	RunsInFlight.Inc()
}

// DecRunsInFlight marks a background run as finished.
func DecRunsInFlight() {
	RunsInFlight.Dec()
}
