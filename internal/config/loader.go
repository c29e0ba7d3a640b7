package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "VENTURE_SIM"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration, continuing with defaults and
// environment variables when the file does not exist
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// ReloadFromEnv reloads the configuration from VENTURE_SIM_CONFIG_PATH when set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "venture-sim")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	p := DefaultPortfolioConfig()
	v.SetDefault("portfolio.objective", p.Objective)
	v.SetDefault("portfolio.budget", p.Budget)
	v.SetDefault("portfolio.min_ticket", p.MinTicket)
	v.SetDefault("portfolio.k", p.K)
	v.SetDefault("portfolio.risk_penalty", p.RiskPenalty)
	v.SetDefault("portfolio.loss_penalty", p.LossPenalty)
	v.SetDefault("portfolio.target_roi", p.TargetROI)
	v.SetDefault("portfolio.weight_method", p.WeightMethod)
	v.SetDefault("portfolio.weight_dirichlet_alpha", p.WeightDirichletAlpha)
	v.SetDefault("portfolio.weight_dirichlet_draws", p.WeightDirichletDraws)
	v.SetDefault("portfolio.weight_grid_step", p.WeightGridStep)
	v.SetDefault("portfolio.macro_shock_sd_annual", p.MacroShockSDAnnual)
	v.SetDefault("portfolio.n_sims", p.NSims)
	v.SetDefault("portfolio.horizon_years", p.HorizonYears)
	v.SetDefault("portfolio.valuation_floor", p.ValuationFloor)
	v.SetDefault("portfolio.seed", p.Seed)
	v.SetDefault("portfolio.workers", p.Workers)

	r := DefaultRunwayConfig()
	v.SetDefault("runway.n_sims", r.NSims)
	v.SetDefault("runway.months", r.Months)
	v.SetDefault("runway.seed", r.Seed)
	v.SetDefault("runway.mrr0", r.MRR0)
	v.SetDefault("runway.cash0", r.Cash0)
	v.SetDefault("runway.burn0", r.Burn0)
	v.SetDefault("runway.margin0", r.Margin0)
	v.SetDefault("runway.target_mrr", r.TargetMRR)
	v.SetDefault("runway.g_mean", r.GrowthMean)
	v.SetDefault("runway.g_sd", r.GrowthSD)
	v.SetDefault("runway.c_mean", r.ChurnMean)
	v.SetDefault("runway.c_sd", r.ChurnSD)
	v.SetDefault("runway.margin_sd", r.MarginSD)
	v.SetDefault("runway.burn_mult_sd", r.BurnMultSD)

	v.SetDefault("runner.result_ttl_seconds", 3600)
	v.SetDefault("runner.max_runs_per_minute", 30)
	v.SetDefault("runner.run_timeout_seconds", 600)
	v.SetDefault("runner.schedule", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
