// Package config provides configuration management for the venture simulator.
package config

import (
	"time"

	"github.com/yourusername/venture-sim/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Portfolio PortfolioConfig `mapstructure:"portfolio" validate:"required"`
	Startups  []StartupConfig `mapstructure:"startups" validate:"required,min=1,dive"`
	Runway    RunwayConfig    `mapstructure:"runway"`
	Runner    RunnerConfig    `mapstructure:"runner" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
}

// PortfolioConfig is the run-level portfolio and simulation configuration
type PortfolioConfig struct {
	Objective            string  `mapstructure:"objective" validate:"required,objective"`
	Budget               float64 `mapstructure:"budget" validate:"required,gt=0"`
	MinTicket            float64 `mapstructure:"min_ticket" validate:"gte=0"`
	K                    int     `mapstructure:"k" validate:"required,gt=0"`
	RiskPenalty          float64 `mapstructure:"risk_penalty" validate:"gte=0"`
	LossPenalty          float64 `mapstructure:"loss_penalty" validate:"gte=0"`
	TargetROI            float64 `mapstructure:"target_roi" validate:"required,gt=0"`
	WeightMethod         string  `mapstructure:"weight_method" validate:"required,weightmethod"`
	WeightDirichletAlpha float64 `mapstructure:"weight_dirichlet_alpha" validate:"gte=0"`
	WeightDirichletDraws int     `mapstructure:"weight_dirichlet_draws" validate:"gte=0"`
	WeightGridStep       float64 `mapstructure:"weight_grid_step" validate:"gte=0,lte=1"`
	MacroShockSDAnnual   float64 `mapstructure:"macro_shock_sd_annual" validate:"gte=0"`
	NSims                int     `mapstructure:"n_sims" validate:"required,gt=0"`
	HorizonYears         float64 `mapstructure:"horizon_years" validate:"required,gt=0"`
	ValuationFloor       float64 `mapstructure:"valuation_floor" validate:"gte=0"`
	Seed                 int64   `mapstructure:"seed"`
	Workers              int     `mapstructure:"workers" validate:"gte=0"`
}

// StartupConfig describes one startup. Unset priors fall back to models.DefaultPriors.
type StartupConfig struct {
	Name            string   `mapstructure:"name" validate:"required"`
	MinTicket       float64  `mapstructure:"min_ticket" validate:"gte=0"`
	GrowthMean      *float64 `mapstructure:"growth_mean"`
	GrowthSD        *float64 `mapstructure:"growth_sd" validate:"omitempty,gte=0"`
	FailureMean     *float64 `mapstructure:"failure_mean" validate:"omitempty,gte=0,lte=1"`
	FailureStrength *float64 `mapstructure:"failure_strength" validate:"omitempty,gte=0"`
	VolatilityMean  *float64 `mapstructure:"volatility_mean" validate:"omitempty,gte=0"`
	VolatilitySD    *float64 `mapstructure:"volatility_sd" validate:"omitempty,gte=0"`
	DilutionMean    *float64 `mapstructure:"dilution_mean" validate:"omitempty,gte=0,lt=1"`
	DilutionSD      *float64 `mapstructure:"dilution_sd" validate:"omitempty,gte=0"`
	ExitSigmaMean   *float64 `mapstructure:"exit_sigma_mean" validate:"omitempty,gte=0"`
	ExitSigmaSD     *float64 `mapstructure:"exit_sigma_sd" validate:"omitempty,gte=0"`
	ExitMuMean      *float64 `mapstructure:"exit_mu_mean"`
	ExitMuSD        *float64 `mapstructure:"exit_mu_sd" validate:"omitempty,gte=0"`
	MacroBeta       *float64 `mapstructure:"macro_beta"`
}

// RunwayConfig is the operating runway model of a single early-stage company
type RunwayConfig struct {
	NSims      int     `mapstructure:"n_sims" validate:"gte=0"`
	Months     int     `mapstructure:"months" validate:"gte=0"`
	Seed       int64   `mapstructure:"seed"`
	MRR0       float64 `mapstructure:"mrr0" validate:"gte=0"`
	Cash0      float64 `mapstructure:"cash0" validate:"gte=0"`
	Burn0      float64 `mapstructure:"burn0" validate:"gte=0"`
	Margin0    float64 `mapstructure:"margin0" validate:"gte=0,lte=1"`
	TargetMRR  float64 `mapstructure:"target_mrr" validate:"gte=0"`
	GrowthMean float64 `mapstructure:"g_mean"`
	GrowthSD   float64 `mapstructure:"g_sd" validate:"gte=0"`
	ChurnMean  float64 `mapstructure:"c_mean"`
	ChurnSD    float64 `mapstructure:"c_sd" validate:"gte=0"`
	MarginSD   float64 `mapstructure:"margin_sd" validate:"gte=0"`
	BurnMultSD float64 `mapstructure:"burn_mult_sd" validate:"gte=0"`
}

// DefaultRunwayConfig returns a seed-stage SaaS company
func DefaultRunwayConfig() RunwayConfig {
	return RunwayConfig{
		NSims:      20_000,
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

// RunnerConfig configures background runs and scheduled re-evaluation
type RunnerConfig struct {
	ResultTTLSeconds  int    `mapstructure:"result_ttl_seconds" validate:"required,gt=0"`
	MaxRunsPerMinute  int    `mapstructure:"max_runs_per_minute" validate:"required,gt=0"`
	RunTimeoutSeconds int    `mapstructure:"run_timeout_seconds" validate:"required,gt=0"`
	Schedule          string `mapstructure:"schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// DefaultPortfolioConfig returns the documented defaults for every portfolio field
func DefaultPortfolioConfig() PortfolioConfig {
	return PortfolioConfig{
		Objective:            "auto",
		Budget:               500_000,
		MinTicket:            100_000,
		K:                    3,
		RiskPenalty:          0.15,
		LossPenalty:          0.80,
		TargetROI:            2.0,
		WeightMethod:         "dirichlet",
		WeightDirichletAlpha: 1.0,
		WeightDirichletDraws: 10_000,
		WeightGridStep:       0.1,
		MacroShockSDAnnual:   0.25,
		NSims:                20_000,
		HorizonYears:         5.0,
		ValuationFloor:       0.01,
		Seed:                 0,
		Workers:              0,
	}
}

// Spec overlays the configured priors onto the defaults
func (s StartupConfig) Spec() models.StartupSpec {
	p := models.DefaultPriors()
	overlay := []struct {
		src *float64
		dst *float64
	}{
		{s.GrowthMean, &p.GrowthMean},
		{s.GrowthSD, &p.GrowthSD},
		{s.FailureMean, &p.FailureMean},
		{s.FailureStrength, &p.FailureStrength},
		{s.VolatilityMean, &p.VolatilityMean},
		{s.VolatilitySD, &p.VolatilitySD},
		{s.DilutionMean, &p.DilutionMean},
		{s.DilutionSD, &p.DilutionSD},
		{s.ExitSigmaMean, &p.ExitSigmaMean},
		{s.ExitSigmaSD, &p.ExitSigmaSD},
		{s.ExitMuMean, &p.ExitMuMean},
		{s.ExitMuSD, &p.ExitMuSD},
		{s.MacroBeta, &p.MacroBeta},
	}
	for _, o := range overlay {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	spec := models.NewStartupSpec(s.Name, p)
	spec.MinTicket = s.MinTicket
	return spec
}

// StartupSpecs converts every configured startup, preserving order
func (c *Config) StartupSpecs() []models.StartupSpec {
	specs := make([]models.StartupSpec, 0, len(c.Startups))
	for _, s := range c.Startups {
		specs = append(specs, s.Spec())
	}
	return specs
}

// ResultTTL returns how long completed runs are retained
func (r RunnerConfig) ResultTTL() time.Duration {
	return time.Duration(r.ResultTTLSeconds) * time.Second
}

// RunTimeout returns the per-run deadline
func (r RunnerConfig) RunTimeout() time.Duration {
	return time.Duration(r.RunTimeoutSeconds) * time.Second
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
