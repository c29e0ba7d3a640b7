package simulator

import (
	"context"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
)

func testConfig() Config {
	return Config{Trials: 2000, HorizonYears: 5, ValuationFloor: 0.01, Workers: 2}
}

func testSpec(name string, failure float64) models.StartupSpec {
	p := models.DefaultPriors()
	p.FailureMean = failure
	return models.NewStartupSpec(name, p)
}

func TestSimulateInvariants(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(context.Background(), testSpec("acme", 0.22), cfg, sampler.NewStream(1, 1000), nil)
	require.NoError(t, err)

	assert.Equal(t, 60, res.Months)
	assert.Len(t, res.ROI, cfg.Trials)
	assert.Len(t, res.IRR, cfg.Trials)
	require.Len(t, res.AliveByMonth, 61)
	assert.Equal(t, 1.0, res.AliveByMonth[0])

	for i, r := range res.ROI {
		require.GreaterOrEqual(t, r, 0.0)
		if r == 0 {
			assert.Equal(t, -1.0, res.IRR[i])
		}
	}
	for m := 1; m < len(res.AliveByMonth); m++ {
		require.LessOrEqual(t, res.AliveByMonth[m], res.AliveByMonth[m-1])
	}

	// survivors at the end are exactly the trials with positive ROI
	alive := 0
	for i := range res.ROI {
		if !res.Failed(i) {
			alive++
		}
	}
	assert.InDelta(t, float64(alive)/float64(cfg.Trials), res.AliveByMonth[60], 1e-12)
}

func TestSimulateCertainFailure(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(context.Background(), testSpec("doomed", 1.0), cfg, sampler.NewStream(2, 1000), nil)
	require.NoError(t, err)

	for _, r := range res.ROI {
		require.Equal(t, 0.0, r)
	}
	assert.Equal(t, 1.0, res.AliveByMonth[0])
	for m := 1; m < len(res.AliveByMonth); m++ {
		assert.Equal(t, 0.0, res.AliveByMonth[m])
	}
	for _, be := range res.BreakEvenMonth {
		assert.Equal(t, -1, be)
	}
}

func TestSimulateNoFailureNoUncertainty(t *testing.T) {
	p := models.Priors{
		GrowthMean:     0.12,
		VolatilityMean: 0,
		DilutionMean:   0.25,
		ExitSigmaMean:  0,
		MacroBeta:      1,
	}
	spec := models.NewStartupSpec("bond", p)
	spec.Bounds.Volatility = models.Bounds{Lo: 0, Hi: 2}
	cfg := Config{Trials: 10, HorizonYears: 2, ValuationFloor: 0.01}

	res, err := Simulate(context.Background(), spec, cfg, sampler.NewStream(3, 1000), nil)
	require.NoError(t, err)

	want := math.Exp(0.12*2) * 0.75
	for _, r := range res.ROI {
		assert.InDelta(t, want, r, 1e-9)
	}
	assert.Equal(t, 1.0, res.AliveByMonth[24])
	assert.InDelta(t, math.Pow(want, 0.5)-1, res.IRR[0], 1e-9)
}

func TestSimulateMonthlyDriftUsesAnnualVariance(t *testing.T) {
	// monthly log drift is growth/12 - 0.5*vol^2/12, so over one year the
	// mean log value is growth - 0.5*vol^2 and the mean value is exp(growth)
	const growth, vol = 0.3, 0.6
	p := models.Priors{GrowthMean: growth, VolatilityMean: vol, MacroBeta: 0}
	spec := models.NewStartupSpec("drift", p)
	spec.Bounds.Volatility = models.Bounds{Lo: 0, Hi: 2}
	cfg := Config{Trials: 20000, HorizonYears: 1, ValuationFloor: 1e-9}

	res, err := Simulate(context.Background(), spec, cfg, sampler.NewStream(21, 1000), nil)
	require.NoError(t, err)

	sumLog, sum := 0.0, 0.0
	for _, r := range res.ROI {
		require.Greater(t, r, 0.0)
		sumLog += math.Log(r)
		sum += r
	}
	n := float64(len(res.ROI))

	// (vol/12)^2 as the monthly variance would put the mean log near 0.285
	assert.InDelta(t, growth-0.5*vol*vol, sumLog/n, 0.02)
	assert.InDelta(t, math.Exp(growth), sum/n, 0.04)
}

func TestSimulateValuationFloor(t *testing.T) {
	p := models.Priors{GrowthMean: -0.3, VolatilityMean: 0, DilutionMean: 0, MacroBeta: 0}
	spec := models.NewStartupSpec("sinking", p)
	spec.Bounds.Volatility = models.Bounds{Lo: 0, Hi: 2}
	spec.Bounds.Dilution = models.Bounds{Lo: 0, Hi: 0.85}
	cfg := Config{Trials: 5, HorizonYears: 30, ValuationFloor: 0.05}

	res, err := Simulate(context.Background(), spec, cfg, sampler.NewStream(4, 1000), nil)
	require.NoError(t, err)
	for _, r := range res.ROI {
		assert.InDelta(t, 0.05, r, 1e-12)
	}
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	bad := testSpec("bad", 0.2)
	bad.Priors.VolatilityMean = -1
	_, err := Simulate(context.Background(), bad, testConfig(), sampler.NewStream(1, 1000), nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = Simulate(context.Background(), testSpec("ok", 0.2), Config{Trials: 0, HorizonYears: 5}, sampler.NewStream(1, 1000), nil)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	shocks, err := sampler.GenerateMacroShocks(sampler.NewStream(1, sampler.StreamMacro), 10, 60, 0.25)
	require.NoError(t, err)
	_, err = Simulate(context.Background(), testSpec("ok", 0.2), testConfig(), sampler.NewStream(1, 1000), shocks)
	assert.ErrorIs(t, err, models.ErrMismatchedTrials)
}

func TestSimulateAllDeterministic(t *testing.T) {
	cfg := testConfig()
	specs := []models.StartupSpec{testSpec("a", 0.2), testSpec("b", 0.3), testSpec("c", 0.1)}
	shocks, err := sampler.GenerateMacroShocks(sampler.NewStream(9, sampler.StreamMacro), cfg.Trials, cfg.Months(), 0.25)
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	first, err := SimulateAll(context.Background(), specs, cfg, 9, shocks, log)
	require.NoError(t, err)
	cfg.Workers = 1
	second, err := SimulateAll(context.Background(), specs, cfg, 9, shocks, nil)
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, specs[i].Name, first[i].Name)
		assert.Equal(t, first[i].ROI, second[i].ROI)
		assert.Equal(t, first[i].AliveByMonth, second[i].AliveByMonth)
	}
	assert.NotEqual(t, first[0].ROI, first[1].ROI)
}

func TestSimulateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SimulateAll(ctx, []models.StartupSpec{testSpec("a", 0.2)}, testConfig(), 1, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestROIToIRR(t *testing.T) {
	assert.Equal(t, -1.0, ROIToIRR(0, 5))
	assert.InDelta(t, 0.0, ROIToIRR(1, 5), 1e-12)
	assert.InDelta(t, 1.0, ROIToIRR(4, 2), 1e-12)
}

func TestConfigMonths(t *testing.T) {
	assert.Equal(t, 60, Config{HorizonYears: 5}.Months())
	assert.Equal(t, 18, Config{HorizonYears: 1.5}.Months())
	assert.ErrorIs(t, Config{Trials: 10, HorizonYears: 0.01}.Validate(), models.ErrInvalidConfiguration)
}
