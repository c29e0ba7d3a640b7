// Package simulator evolves a startup's valuation month by month across many
// independent trials and records ROI, IRR, survival and break-even outcomes.
package simulator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/venture-sim/internal/metrics"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
)

const ctxCheckInterval = 1024

// Config is the run-level simulation setup shared by every startup
type Config struct {
	Trials         int
	HorizonYears   float64
	ValuationFloor float64
	Workers        int
}

// Months returns the number of monthly steps in the horizon
func (c Config) Months() int {
	return int(math.Round(c.HorizonYears * 12))
}

// Validate validates simulation parameters
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return models.NewConfigurationError("n_sims", "must be positive, got %d", c.Trials)
	}
	if c.HorizonYears <= 0 || c.Months() < 1 {
		return models.NewConfigurationError("horizon_years", "must cover at least one month, got %v", c.HorizonYears)
	}
	if c.ValuationFloor < 0 {
		return models.NewConfigurationError("valuation_floor", "must not be negative, got %v", c.ValuationFloor)
	}
	return nil
}

// Simulate runs cfg.Trials independent trials for one startup
func Simulate(ctx context.Context, spec models.StartupSpec, cfg Config, s *sampler.Sampler, shocks *sampler.MacroShocks) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	months := cfg.Months()
	if shocks != nil && (shocks.Trials() < cfg.Trials || shocks.Months() < months) {
		return nil, fmt.Errorf("macro shocks cover %dx%d, need %dx%d: %w",
			shocks.Trials(), shocks.Months(), cfg.Trials, months, models.ErrMismatchedTrials)
	}

	years := float64(months) / 12.0
	res := &Result{
		Name:           spec.Name,
		HorizonYears:   years,
		Months:         months,
		Trials:         cfg.Trials,
		Seed:           s.Seed(),
		ROI:            make([]float64, cfg.Trials),
		IRR:            make([]float64, cfg.Trials),
		AliveByMonth:   make([]float64, months+1),
		BreakEvenMonth: make([]int, cfg.Trials),
		Params:         newTrialParams(cfg.Trials),
	}
	aliveCount := make([]int, months+1)

	for i := 0; i < cfg.Trials; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tp, err := drawTrialParams(spec, s)
		if err != nil {
			return nil, fmt.Errorf("startup %s trial %d: %w", spec.Name, i, err)
		}
		res.Params.Growth[i] = tp.growth
		res.Params.Volatility[i] = tp.volatility
		res.Params.FailureProb[i] = tp.failure
		res.Params.Dilution[i] = tp.dilution
		res.Params.ExitSigma[i] = tp.exitSigma
		res.Params.ExitMu[i] = tp.exitMu

		roi, aliveMonths, breakEven, err := runTrial(i, tp, spec.Priors.MacroBeta, months, cfg.ValuationFloor, s, shocks)
		if err != nil {
			return nil, fmt.Errorf("startup %s trial %d: %w", spec.Name, i, err)
		}
		for t := 0; t <= aliveMonths; t++ {
			aliveCount[t]++
		}
		res.ROI[i] = roi
		res.IRR[i] = ROIToIRR(roi, years)
		res.BreakEvenMonth[i] = breakEven
	}

	for t, c := range aliveCount {
		res.AliveByMonth[t] = float64(c) / float64(cfg.Trials)
	}
	return res, nil
}

type trialParams struct {
	growth     float64
	volatility float64
	failure    float64
	hazard     float64
	dilution   float64
	exitSigma  float64
	exitMu     float64
}

func drawTrialParams(spec models.StartupSpec, s *sampler.Sampler) (trialParams, error) {
	p, b := spec.Priors, spec.Bounds
	var tp trialParams
	var err error
	if tp.dilution, err = s.ClippedNormal(p.DilutionMean, p.DilutionSD, b.Dilution); err != nil {
		return tp, err
	}
	if tp.growth, err = s.ClippedNormal(p.GrowthMean, p.GrowthSD, b.Growth); err != nil {
		return tp, err
	}
	if tp.volatility, err = s.ClippedNormal(p.VolatilityMean, p.VolatilitySD, b.Volatility); err != nil {
		return tp, err
	}
	if tp.failure, err = s.BetaProbability(p.FailureMean, p.FailureStrength, b.Failure); err != nil {
		return tp, err
	}
	if tp.exitSigma, err = s.ClippedNormal(p.ExitSigmaMean, p.ExitSigmaSD, b.ExitSigma); err != nil {
		return tp, err
	}
	if tp.exitMu, err = s.ClippedNormal(p.ExitMuMean, p.ExitMuSD, b.ExitMu); err != nil {
		return tp, err
	}
	// Fixed values bypass clipping, so guard the ranges the model needs.
	tp.dilution = math.Min(math.Max(tp.dilution, 0), 1)
	tp.volatility = math.Max(tp.volatility, 0)
	tp.exitSigma = math.Max(tp.exitSigma, 0)
	if tp.hazard, err = sampler.MonthlyHazard(tp.failure); err != nil {
		return tp, err
	}
	return tp, nil
}

// runTrial evolves one trial. It returns the ROI, the last month index at which
// the trial was alive and the break-even month (-1 if never reached).
func runTrial(trial int, tp trialParams, macroBeta float64, months int, floor float64, s *sampler.Sampler, shocks *sampler.MacroShocks) (float64, int, int, error) {
	sigmaM := tp.volatility / math.Sqrt(12)
	drift := tp.growth/12 - 0.5*sigmaM*sigmaM
	keep := 1 - tp.dilution

	value := 1.0
	breakEven := -1
	if value*keep >= 1 {
		breakEven = 0
	}
	for t := 0; t < months; t++ {
		if s.Fails(tp.hazard) {
			return 0, t, breakEven, nil
		}
		shock := macroBeta * shocks.At(trial, t)
		value *= math.Exp(drift + sigmaM*s.Normal() + shock)
		if value < floor {
			value = floor
		}
		if breakEven < 0 && value*keep >= 1 {
			breakEven = t + 1
		}
	}

	exitMult, err := s.LogNormal(tp.exitMu-0.5*tp.exitSigma*tp.exitSigma, tp.exitSigma)
	if err != nil {
		return 0, months, breakEven, err
	}
	roi := value * exitMult * keep
	if roi < 0 || math.IsNaN(roi) {
		roi = 0
	}
	return roi, months, breakEven, nil
}

// ROIToIRR converts a multiple into a compound annual rate. Total loss maps to -1.
func ROIToIRR(roi, years float64) float64 {
	if roi <= 0 || years <= 0 {
		return -1
	}
	return math.Pow(roi, 1.0/years) - 1
}

// SimulateAll simulates every startup in parallel. Startup i draws from stream
// StreamStartupsBase+i of seed and all startups share the macro shocks, so the
// output does not depend on worker scheduling.
func SimulateAll(ctx context.Context, specs []models.StartupSpec, cfg Config, seed int64, shocks *sampler.MacroShocks, logger *logrus.Logger) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := models.ValidateStartups(specs); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	results := make([]*Result, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i := range specs {
		i := i
		g.Go(func() error {
			start := time.Now()
			s := sampler.NewStream(seed, sampler.StreamStartupsBase+uint64(i))
			res, err := Simulate(gctx, specs[i], cfg, s, shocks)
			if err != nil {
				metrics.RecordSimulation("failure", time.Since(start).Seconds(), 0)
				return err
			}
			metrics.RecordSimulation("success", time.Since(start).Seconds(), res.Trials)
			logger.WithFields(logrus.Fields{
				"component":   "simulator",
				"startup":     res.Name,
				"trials":      res.Trials,
				"alive_end":   res.AliveByMonth[len(res.AliveByMonth)-1],
				"duration_ms": time.Since(start).Milliseconds(),
			}).Debug("Startup simulation completed")
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
