package runway

import (
	"context"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/venture-sim/internal/config"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Trials = 4000
	return cfg
}

func simulate(t *testing.T, cfg Config, seed int64) *Result {
	t.Helper()
	res, err := Simulate(context.Background(), cfg, sampler.NewStream(seed, sampler.StreamRunway))
	require.NoError(t, err)
	return res
}

func TestSimulateProbabilityBounds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Config)
		check func(t *testing.T, res *Result)
	}{
		{
			name:  "defaults",
			setup: func(*Config) {},
			check: func(t *testing.T, res *Result) {
				assert.Greater(t, res.ProbSuccess, 0.0)
				assert.Less(t, res.ProbSuccess, 1.0)
			},
		},
		{
			name: "certain success",
			setup: func(c *Config) {
				c.GrowthMean, c.GrowthSD = 0.5, 0
				c.ChurnMean, c.ChurnSD = 0, 0
				c.Cash0 = 1_000_000
			},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 1.0, res.ProbSuccess)
				assert.Equal(t, 1.0, res.ProbSurvive)
				assert.Equal(t, 1.0, res.ProbHitTarget)
			},
		},
		{
			name: "broke from month one",
			setup: func(c *Config) {
				c.Cash0 = 0
				c.Burn0 = 1_000_000
			},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 0.0, res.ProbSuccess)
				assert.Equal(t, 0.0, res.ProbSurvive)
			},
		},
		{
			name: "unreachable target",
			setup: func(c *Config) {
				c.TargetMRR = 1e12
			},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 0.0, res.ProbSuccess)
				assert.Equal(t, 0.0, res.ProbHitTarget)
			},
		},
		{
			name: "target already met",
			setup: func(c *Config) {
				c.TargetMRR = c.MRR0
			},
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, 1.0, res.ProbHitTarget)
				assert.Equal(t, res.ProbSurvive, res.ProbSuccess)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.setup(&cfg)
			res := simulate(t, cfg, 5)

			for _, p := range []float64{res.ProbSuccess, res.ProbSurvive, res.ProbHitTarget} {
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
			assert.LessOrEqual(t, res.ProbSuccess, math.Min(res.ProbSurvive, res.ProbHitTarget))
			tt.check(t, res)
		})
	}
}

func TestSimulateFanChartsAreOrdered(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Config)
	}{
		{"defaults", func(*Config) {}},
		{"volatile", func(c *Config) { c.GrowthSD, c.ChurnSD, c.BurnMultSD = 0.3, 0.1, 0.6 }},
		{"long horizon", func(c *Config) { c.Months = 36 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.setup(&cfg)
			res := simulate(t, cfg, 8)

			for _, fc := range []FanChart{res.MRR, res.Cash} {
				require.Len(t, fc.P10, cfg.Months+1)
				require.Len(t, fc.P50, cfg.Months+1)
				require.Len(t, fc.P90, cfg.Months+1)
				for m := 0; m <= cfg.Months; m++ {
					assert.LessOrEqual(t, fc.P10[m], fc.P50[m], "month %d", m)
					assert.LessOrEqual(t, fc.P50[m], fc.P90[m], "month %d", m)
				}
			}
			assert.Equal(t, cfg.MRR0, res.MRR.P50[0])
			assert.Equal(t, cfg.Cash0, res.Cash.P10[0])
			for _, v := range res.MRR.P10 {
				assert.GreaterOrEqual(t, v, 0.0)
			}
		})
	}
}

func TestSimulateDeterministicMonthlyPath(t *testing.T) {
	cfg := Config{
		Trials: 3, Months: 2,
		MRR0: 1000, Cash0: 5000, Burn0: 2000, Margin0: 0.5, TargetMRR: 1200,
		GrowthMean: 0.2, ChurnMean: 0.05,
	}
	res := simulate(t, cfg, 1)

	// mrr: 1000 -> 1150 -> 1322.5; cash: 5000 -> 3500 -> 2075
	assert.InDeltaSlice(t, []float64{1000, 1150, 1322.5}, res.MRR.P50, 1e-9)
	assert.InDeltaSlice(t, []float64{5000, 3500, 2075}, res.Cash.P90, 1e-9)
	assert.Equal(t, 1.0, res.ProbSuccess)
	for _, s := range res.Sensitivity {
		assert.Equal(t, 0.0, s.Correlation, s.Parameter)
	}
}

func TestSimulateSensitivity(t *testing.T) {
	res := simulate(t, smallConfig(), 13)

	require.Len(t, res.Sensitivity, 4)
	byName := make(map[string]float64, 4)
	for i, s := range res.Sensitivity {
		byName[s.Parameter] = s.Correlation
		if i > 0 {
			assert.GreaterOrEqual(t, math.Abs(res.Sensitivity[i-1].Correlation), math.Abs(s.Correlation))
		}
	}
	assert.Greater(t, byName["growth"], 0.0)
	assert.Less(t, byName["churn"], 0.0)
	assert.Less(t, byName["burn_mult"], 0.0)
}

func TestSimulateDeterministicBySeed(t *testing.T) {
	cfg := smallConfig()
	first := simulate(t, cfg, 42)
	second := simulate(t, cfg, 42)
	assert.Equal(t, first, second)

	other := simulate(t, cfg, 43)
	assert.NotEqual(t, first.MRR.P90, other.MRR.P90)
}

func TestSimulateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Config)
	}{
		{"zero trials", func(c *Config) { c.Trials = 0 }},
		{"zero months", func(c *Config) { c.Months = 0 }},
		{"negative cash", func(c *Config) { c.Cash0 = -1 }},
		{"negative sd", func(c *Config) { c.GrowthSD = -0.1 }},
		{"nan target", func(c *Config) { c.TargetMRR = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.setup(&cfg)
			_, err := Simulate(context.Background(), cfg, sampler.NewStream(1, sampler.StreamRunway))
			assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
		})
	}
}

func TestSimulateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, smallConfig(), sampler.NewStream(1, sampler.StreamRunway))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReportsResolvedSeed(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	cfg := smallConfig()
	cfg.Seed = 0
	res, err := Run(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.NotZero(t, res.Seed)

	cfg.Seed = res.Seed
	again, err := Run(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.Equal(t, res.ProbSuccess, again.ProbSuccess)
}

func TestFromConfig(t *testing.T) {
	fc := config.DefaultRunwayConfig()
	cfg, err := FromConfig(&fc)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	fc.Months = 0
	_, err = FromConfig(&fc)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	_, err = FromConfig(nil)
	assert.Error(t, err)
}
