package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/simulator"
	"github.com/yourusername/venture-sim/internal/summary"
)

func TestParseObjective(t *testing.T) {
	tests := []struct {
		input   string
		want    Objective
		wantErr bool
	}{
		{"expected_roi", ObjectiveExpectedROI, false},
		{"Expected_Log", ObjectiveExpectedLog, false},
		{" prob_target ", ObjectiveProbTarget, false},
		{"prob_10x", ObjectiveProb10x, false},
		{"auto", ObjectiveAuto, false},
		{"sharpe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseObjective(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrInvalidConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreFormulas(t *testing.T) {
	m := summary.Moments{
		Mean:       2.0,
		Std:        1.0,
		LogMean:    0.5,
		LogStd:     0.8,
		ProbLoss:   0.25,
		ProbTarget: 0.4,
		Prob10x:    0.05,
	}
	p := Penalties{Risk: 0.15, Loss: 0.8}

	score, err := Score(ObjectiveExpectedROI, m, p)
	require.NoError(t, err)
	assert.InDelta(t, 2.0-0.15-0.2, score, 1e-12)

	score, err = Score(ObjectiveExpectedLog, m, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.5-0.12-0.2, score, 1e-12)

	score, err = Score(ObjectiveProbTarget, m, p)
	require.NoError(t, err)
	assert.Equal(t, 0.4, score)

	score, err = Score(ObjectiveProb10x, m, p)
	require.NoError(t, err)
	assert.Equal(t, 0.05, score)

	_, err = Score(Objective("nope"), m, p)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestAutoPicksMaximum(t *testing.T) {
	m := summary.Moments{Mean: 0.3, Std: 0.1, LogMean: -2, LogStd: 1, ProbLoss: 0.9, ProbTarget: 0.6, Prob10x: 0.01}
	p := Penalties{Risk: 0.15, Loss: 0.8}

	obj, best, table := Auto(m, p)
	assert.Equal(t, ObjectiveProbTarget, obj)
	assert.Equal(t, 0.6, best)
	require.Len(t, table, len(Objectives))
	for i, row := range table {
		assert.Equal(t, Objectives[i], row.Objective)
		assert.LessOrEqual(t, row.Score, best)
	}

	score, err := Score(ObjectiveAuto, m, p)
	require.NoError(t, err)
	assert.Equal(t, best, score)
}

func TestAutoTieBreaksByEnumerationOrder(t *testing.T) {
	// every objective scores zero
	m := summary.Moments{}
	obj, best, _ := Auto(m, Penalties{})
	assert.Equal(t, ObjectiveExpectedROI, obj)
	assert.Equal(t, 0.0, best)
}

func TestScoreNaNNeverWins(t *testing.T) {
	m := summary.Moments{Mean: math.NaN(), ProbTarget: 0.1}
	obj, best, _ := Auto(m, Penalties{})
	assert.Equal(t, ObjectiveProbTarget, obj)
	assert.Equal(t, 0.1, best)
}

func testResult(name string, roi []float64) *simulator.Result {
	return &simulator.Result{
		Name:           name,
		HorizonYears:   5,
		Months:         60,
		Trials:         len(roi),
		ROI:            roi,
		AliveByMonth:   []float64{1, 1},
		BreakEvenMonth: make([]int, len(roi)),
	}
}

func TestScoreAll(t *testing.T) {
	specs := []models.StartupSpec{
		models.NewStartupSpec("low", models.DefaultPriors()),
		models.NewStartupSpec("high", models.DefaultPriors()),
	}
	results := []*simulator.Result{
		testResult("low", []float64{0, 1, 1, 2}),
		testResult("high", []float64{2, 3, 3, 4}),
	}

	scored, err := ScoreAll(specs, results, ObjectiveExpectedROI, Penalties{Risk: 0.1, Loss: 0.5}, 2)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "low", scored[0].Name())
	assert.Greater(t, scored[1].Score, scored[0].Score)

	SortByScore(scored)
	assert.Equal(t, "high", scored[0].Name())

	reranked, err := Rerank(scored, ObjectiveProbTarget, Penalties{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, reranked[0].Score)
	assert.Equal(t, ObjectiveProbTarget, reranked[0].Objective)
	assert.Equal(t, ObjectiveExpectedROI, scored[0].Objective)
}

func TestScoreAllAutoRecordsChosenObjective(t *testing.T) {
	specs := []models.StartupSpec{models.NewStartupSpec("a", models.DefaultPriors())}
	results := []*simulator.Result{testResult("a", []float64{0.1, 0.2, 0.3, 5})}

	scored, err := ScoreAll(specs, results, ObjectiveAuto, Penalties{Risk: 0.15, Loss: 0.8}, 2)
	require.NoError(t, err)
	assert.NotEqual(t, ObjectiveAuto, scored[0].Objective)
	assert.True(t, scored[0].Objective.Valid())
}

func TestScoreAllRejectsMismatchedTrials(t *testing.T) {
	specs := []models.StartupSpec{
		models.NewStartupSpec("a", models.DefaultPriors()),
		models.NewStartupSpec("b", models.DefaultPriors()),
	}
	results := []*simulator.Result{
		testResult("a", []float64{1, 2}),
		testResult("b", []float64{1, 2, 3}),
	}
	_, err := ScoreAll(specs, results, ObjectiveExpectedROI, Penalties{}, 2)
	assert.ErrorIs(t, err, models.ErrMismatchedTrials)
}
