// Package metrics defines portfolio-run metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Portfolio counter vectors
var (
	PortfolioRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "venture_sim",
		Name:      "portfolio_runs_total",
		Help:      "Total number of portfolio runs by requested objective and status",
	}, []string{"objective", "status"})
)

// Portfolio histogram vectors
var (
	PortfolioRunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "venture_sim",
		Name:      "portfolio_run_duration_seconds",
		Help:      "Duration of full portfolio runs by requested objective",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"objective"})
)

// Portfolio gauge vectors
var (
	PortfolioScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "venture_sim",
		Name:      "portfolio_score",
		Help:      "Portfolio score of the latest run by objective actually used",
	}, []string{"objective"})
)

// RecordPortfolioRun records a portfolio run event.
// status should be one of: "success", "failure"
func RecordPortfolioRun(objective, status string, durationSeconds float64) {
	PortfolioRunsTotal.WithLabelValues(objective, status).Inc()
	PortfolioRunDuration.WithLabelValues(objective).Observe(durationSeconds)
}

// UpdatePortfolioScore updates the latest portfolio score for an objective.
func UpdatePortfolioScore(objective string, score float64) {
	PortfolioScore.WithLabelValues(objective).Set(score)
}
