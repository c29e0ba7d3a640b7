// Package portfolio selects, weights and sizes a startup portfolio from
// simulated outcome distributions.
package portfolio

import (
	"fmt"

	"github.com/yourusername/venture-sim/internal/config"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/scoring"
	"github.com/yourusername/venture-sim/internal/simulator"
)

// WeightMethod selects how weight candidates are generated
type WeightMethod string

const (
	WeightMethodDirichlet WeightMethod = "dirichlet"
	WeightMethodEqual     WeightMethod = "equal"
	WeightMethodGrid      WeightMethod = "grid"
)

// maxGridAssets bounds the grid method, whose candidate count grows as step^-(k-1)
const maxGridAssets = 3

// Config is the immutable run configuration
type Config struct {
	Objective      scoring.Objective
	Budget         float64
	MinTicket      float64
	K              int
	RiskPenalty    float64
	LossPenalty    float64
	TargetROI      float64
	WeightMethod   WeightMethod
	DirichletAlpha float64
	DirichletDraws int
	GridStep       float64
	MacroShockSD   float64
	Trials         int
	HorizonYears   float64
	ValuationFloor float64
	// Seed 0 draws a fresh seed; the seed used is reported on the result.
	Seed    int64
	Workers int
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	defaults := config.DefaultPortfolioConfig()
	cfg, err := FromConfig(&defaults)
	if err != nil {
		panic(fmt.Sprintf("default portfolio config is invalid: %v", err))
	}
	return cfg
}

// FromConfig converts file configuration to an engine configuration
func FromConfig(cfg *config.PortfolioConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("portfolio config is required")
	}
	obj, err := scoring.ParseObjective(cfg.Objective)
	if err != nil {
		return Config{}, err
	}

	c := Config{
		Objective:      obj,
		Budget:         cfg.Budget,
		MinTicket:      cfg.MinTicket,
		K:              cfg.K,
		RiskPenalty:    cfg.RiskPenalty,
		LossPenalty:    cfg.LossPenalty,
		TargetROI:      cfg.TargetROI,
		WeightMethod:   WeightMethod(cfg.WeightMethod),
		DirichletAlpha: cfg.WeightDirichletAlpha,
		DirichletDraws: cfg.WeightDirichletDraws,
		GridStep:       cfg.WeightGridStep,
		MacroShockSD:   cfg.MacroShockSDAnnual,
		Trials:         cfg.NSims,
		HorizonYears:   cfg.HorizonYears,
		ValuationFloor: cfg.ValuationFloor,
		Seed:           cfg.Seed,
		Workers:        cfg.Workers,
	}
	return c, c.Validate()
}

// Validate validates the run configuration. Every failure is a
// *models.ConfigurationError.
func (c Config) Validate() error {
	if !c.Objective.Valid() {
		return models.NewConfigurationError("objective", "unknown objective %q", c.Objective)
	}
	if c.Budget <= 0 {
		return models.NewConfigurationError("budget", "must be positive, got %v", c.Budget)
	}
	if c.MinTicket < 0 {
		return models.NewConfigurationError("min_ticket", "must not be negative, got %v", c.MinTicket)
	}
	if c.Budget < c.MinTicket {
		return models.NewConfigurationError("budget", "budget %.2f is smaller than min_ticket %.2f", c.Budget, c.MinTicket)
	}
	if c.K <= 0 {
		return models.NewConfigurationError("k", "must be positive, got %d", c.K)
	}
	if c.RiskPenalty < 0 || c.LossPenalty < 0 {
		return models.NewConfigurationError("risk_penalty", "penalties must not be negative")
	}
	if c.TargetROI <= 0 {
		return models.NewConfigurationError("target_roi", "must be positive, got %v", c.TargetROI)
	}
	switch c.WeightMethod {
	case WeightMethodDirichlet:
		if c.DirichletAlpha <= 0 {
			return models.NewConfigurationError("weight_dirichlet_alpha", "must be positive, got %v", c.DirichletAlpha)
		}
		if c.DirichletDraws <= 0 {
			return models.NewConfigurationError("weight_dirichlet_draws", "must be positive, got %d", c.DirichletDraws)
		}
	case WeightMethodGrid:
		if c.GridStep <= 0 || c.GridStep > 1 {
			return models.NewConfigurationError("weight_grid_step", "must be within (0,1], got %v", c.GridStep)
		}
		if c.K > maxGridAssets {
			return models.NewConfigurationError("k", "grid search supports k <= %d, got %d", maxGridAssets, c.K)
		}
	case WeightMethodEqual:
	default:
		return models.NewConfigurationError("weight_method", "unknown weight method %q", c.WeightMethod)
	}
	if c.MacroShockSD < 0 {
		return models.NewConfigurationError("macro_shock_sd_annual", "must not be negative, got %v", c.MacroShockSD)
	}
	if c.Workers < 0 {
		return models.NewConfigurationError("workers", "must not be negative, got %d", c.Workers)
	}
	return c.Simulation().Validate()
}

// Simulation returns the simulator settings
func (c Config) Simulation() simulator.Config {
	return simulator.Config{
		Trials:         c.Trials,
		HorizonYears:   c.HorizonYears,
		ValuationFloor: c.ValuationFloor,
		Workers:        c.Workers,
	}
}

// Penalties returns the scoring penalties
func (c Config) Penalties() scoring.Penalties {
	return scoring.Penalties{Risk: c.RiskPenalty, Loss: c.LossPenalty}
}
