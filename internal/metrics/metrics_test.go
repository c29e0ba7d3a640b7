package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordSimulation(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		status   string
		duration float64
		trials   int
	}{
		{name: "successful simulation", status: "success", duration: 0.25, trials: 1000},
		{name: "failed simulation", status: "failure", duration: 0.01, trials: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(SimulationsTotal.WithLabelValues(tt.status))
			assert.NotPanics(t, func() {
				RecordSimulation(tt.status, tt.duration, tt.trials)
			})
			assert.Equal(t, before+1, testutil.ToFloat64(SimulationsTotal.WithLabelValues(tt.status)))
		})
	}
}

func TestRecordSimulationCountsTrials(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(TrialsSimulatedTotal)
	RecordSimulation("success", 0.1, 250)
	assert.Equal(t, before+250, testutil.ToFloat64(TrialsSimulatedTotal))
}

func TestRecordOptimization(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(WeightCandidatesTotal)
	assert.NotPanics(t, func() {
		RecordOptimization(500, 0.3)
	})
	assert.Equal(t, before+500, testutil.ToFloat64(WeightCandidatesTotal))
}

func TestRecordAllocationRejectionsIgnoresZero(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(AllocationRejectionsTotal)
	RecordAllocationRejections(0)
	assert.Equal(t, before, testutil.ToFloat64(AllocationRejectionsTotal))
	RecordAllocationRejections(3)
	assert.Equal(t, before+3, testutil.ToFloat64(AllocationRejectionsTotal))
}

func TestRunsInFlight(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(RunsInFlight)
	IncRunsInFlight()
	assert.Equal(t, before+1, testutil.ToFloat64(RunsInFlight))
	DecRunsInFlight()
	assert.Equal(t, before, testutil.ToFloat64(RunsInFlight))
}

func TestPortfolioMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPortfolioRun("auto", "success", 1.5)
	})

	assert.NotPanics(t, func() {
		UpdatePortfolioScore("expected_roi", 2.75)
	})
	assert.Equal(t, 2.75, testutil.ToFloat64(PortfolioScore.WithLabelValues("expected_roi")))

	assert.NotPanics(t, func() {
		UpdateSelectedStartups(3)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkRecordSimulation(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordSimulation("success", 0.01, 100)
	}
}
