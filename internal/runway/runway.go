// Package runway simulates an early-stage operating company month by month:
// recurring revenue grows net of churn, gross profit offsets a noisy burn and
// a trial succeeds when it never runs out of cash and reaches a target MRR.
package runway

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/venture-sim/internal/config"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
	"github.com/yourusername/venture-sim/internal/summary"
)

const ctxCheckInterval = 1024

// Per-trial parameter clips
var (
	GrowthBounds = models.Bounds{Lo: 0, Hi: 0.6}
	ChurnBounds  = models.Bounds{Lo: 0, Hi: 0.3}
	MarginBounds = models.Bounds{Lo: 0.05, Hi: 0.95}
)

// FanLevels are the percentiles reported for every month
var FanLevels = []float64{0.10, 0.50, 0.90}

// Config holds the initial conditions and monthly priors. Growth, churn and
// margin are drawn once per trial from clipped normals; burn is scaled by a
// lognormal multiplier with median one.
type Config struct {
	Trials int   `json:"n_sims"`
	Months int   `json:"months"`
	Seed   int64 `json:"seed"`

	MRR0      float64 `json:"mrr0"`
	Cash0     float64 `json:"cash0"`
	Burn0     float64 `json:"burn0"`
	Margin0   float64 `json:"margin0"`
	TargetMRR float64 `json:"target_mrr"`

	GrowthMean float64 `json:"g_mean"`
	GrowthSD   float64 `json:"g_sd"`
	ChurnMean  float64 `json:"c_mean"`
	ChurnSD    float64 `json:"c_sd"`
	MarginSD   float64 `json:"margin_sd"`
	BurnMultSD float64 `json:"burn_mult_sd"`
}

// DefaultConfig returns a seed-stage SaaS company: 2k MRR, 50k cash, 8k burn
func DefaultConfig() Config {
	return Config{
		Trials:     20_000,
		Months:     12,
		MRR0:       2000,
		Cash0:      50_000,
		Burn0:      8000,
		Margin0:    0.70,
		TargetMRR:  10_000,
		GrowthMean: 0.12,
		GrowthSD:   0.06,
		ChurnMean:  0.04,
		ChurnSD:    0.02,
		MarginSD:   0.10,
		BurnMultSD: 0.15,
	}
}

// FromConfig converts the runway section of the file configuration
func FromConfig(cfg *config.RunwayConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("runway config is required")
	}
	c := Config{
		Trials:     cfg.NSims,
		Months:     cfg.Months,
		Seed:       cfg.Seed,
		MRR0:       cfg.MRR0,
		Cash0:      cfg.Cash0,
		Burn0:      cfg.Burn0,
		Margin0:    cfg.Margin0,
		TargetMRR:  cfg.TargetMRR,
		GrowthMean: cfg.GrowthMean,
		GrowthSD:   cfg.GrowthSD,
		ChurnMean:  cfg.ChurnMean,
		ChurnSD:    cfg.ChurnSD,
		MarginSD:   cfg.MarginSD,
		BurnMultSD: cfg.BurnMultSD,
	}
	return c, c.Validate()
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return models.NewConfigurationError("runway.n_sims", "must be positive, got %d", c.Trials)
	}
	if c.Months <= 0 {
		return models.NewConfigurationError("runway.months", "must be positive, got %d", c.Months)
	}
	values := []struct {
		name string
		v    float64
	}{
		{"mrr0", c.MRR0}, {"cash0", c.Cash0}, {"burn0", c.Burn0}, {"margin0", c.Margin0},
		{"target_mrr", c.TargetMRR}, {"g_mean", c.GrowthMean}, {"g_sd", c.GrowthSD},
		{"c_mean", c.ChurnMean}, {"c_sd", c.ChurnSD}, {"margin_sd", c.MarginSD},
		{"burn_mult_sd", c.BurnMultSD},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return models.NewConfigurationError("runway."+f.name, "must be finite, got %v", f.v)
		}
	}
	for _, f := range values {
		if f.name == "g_mean" || f.name == "c_mean" {
			continue
		}
		if f.v < 0 {
			return models.NewConfigurationError("runway."+f.name, "must not be negative, got %v", f.v)
		}
	}
	return nil
}

// FanChart holds per-month percentiles, each of length months+1
type FanChart struct {
	P10 []float64 `json:"p10"`
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`
}

// Result is the outcome of one runway simulation
type Result struct {
	Seed      int64   `json:"seed"`
	Trials    int     `json:"n_sims"`
	Months    int     `json:"months"`
	TargetMRR float64 `json:"target_mrr"`

	ProbSuccess   float64 `json:"p_success"`
	ProbSurvive   float64 `json:"p_survive"`
	ProbHitTarget float64 `json:"p_hit_target"`

	MRR  FanChart `json:"mrr"`
	Cash FanChart `json:"cash"`

	// Sensitivity correlates each sampled parameter with the 0/1 success flag
	Sensitivity []summary.Sensitivity `json:"sensitivity"`
}

// Run resolves the seed and simulates on the runway stream
func Run(ctx context.Context, cfg Config, logger *logrus.Logger) (*Result, error) {
	if logger == nil {
		logger = logrus.New()
	}
	seed := sampler.ResolveSeed(cfg.Seed)
	start := time.Now()
	res, err := Simulate(ctx, cfg, sampler.NewStream(seed, sampler.StreamRunway))
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"component":   "runway",
		"seed":        res.Seed,
		"trials":      res.Trials,
		"months":      res.Months,
		"p_success":   res.ProbSuccess,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Runway simulation completed")
	return res, nil
}

// Simulate runs cfg.Trials trials drawing from s. Cash is allowed to go
// negative and keep evolving; a trial only counts as alive if cash stays
// non-negative at every month end.
func Simulate(ctx context.Context, cfg Config, s *sampler.Sampler) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n, months := cfg.Trials, cfg.Months
	mrr := make([][]float64, months+1)
	cash := make([][]float64, months+1)
	for t := range mrr {
		mrr[t] = make([]float64, n)
		cash[t] = make([]float64, n)
	}
	growth := make([]float64, n)
	churn := make([]float64, n)
	margin := make([]float64, n)
	burnMult := make([]float64, n)
	success := make([]float64, n)

	survived, hit, won := 0, 0, 0
	for i := 0; i < n; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var err error
		if growth[i], err = s.ClippedNormal(cfg.GrowthMean, cfg.GrowthSD, GrowthBounds); err != nil {
			return nil, fmt.Errorf("runway trial %d: %w", i, err)
		}
		if churn[i], err = s.ClippedNormal(cfg.ChurnMean, cfg.ChurnSD, ChurnBounds); err != nil {
			return nil, fmt.Errorf("runway trial %d: %w", i, err)
		}
		if margin[i], err = s.ClippedNormal(cfg.Margin0, cfg.MarginSD, MarginBounds); err != nil {
			return nil, fmt.Errorf("runway trial %d: %w", i, err)
		}
		if burnMult[i], err = s.LogNormal(0, cfg.BurnMultSD); err != nil {
			return nil, fmt.Errorf("runway trial %d: %w", i, err)
		}

		alive := true
		peak := cfg.MRR0
		mrr[0][i], cash[0][i] = cfg.MRR0, cfg.Cash0
		burn := cfg.Burn0 * burnMult[i]
		for t := 0; t < months; t++ {
			m, c := mrr[t][i], cash[t][i]
			next := math.Max(0, m*(1+growth[i]-churn[i]))
			mrr[t+1][i] = next
			cash[t+1][i] = c + m*margin[i] - burn
			if cash[t+1][i] < 0 {
				alive = false
			}
			peak = math.Max(peak, next)
		}

		reached := peak >= cfg.TargetMRR
		if alive {
			survived++
		}
		if reached {
			hit++
		}
		if alive && reached {
			won++
			success[i] = 1
		}
	}

	res := &Result{
		Seed:          s.Seed(),
		Trials:        n,
		Months:        months,
		TargetMRR:     cfg.TargetMRR,
		ProbSuccess:   float64(won) / float64(n),
		ProbSurvive:   float64(survived) / float64(n),
		ProbHitTarget: float64(hit) / float64(n),
		MRR:           fanChart(mrr),
		Cash:          fanChart(cash),
		Sensitivity: summary.CorrelateWith(success, []summary.Series{
			{Name: "growth", Values: growth},
			{Name: "churn", Values: churn},
			{Name: "margin", Values: margin},
			{Name: "burn_mult", Values: burnMult},
		}),
	}
	return res, nil
}

// fanChart sorts each month's column in place and reads off FanLevels
func fanChart(paths [][]float64) FanChart {
	fc := FanChart{
		P10: make([]float64, len(paths)),
		P50: make([]float64, len(paths)),
		P90: make([]float64, len(paths)),
	}
	for t, col := range paths {
		sort.Float64s(col)
		fc.P10[t] = stat.Quantile(FanLevels[0], stat.LinInterp, col, nil)
		fc.P50[t] = stat.Quantile(FanLevels[1], stat.LinInterp, col, nil)
		fc.P90[t] = stat.Quantile(FanLevels[2], stat.LinInterp, col, nil)
	}
	return fc
}
