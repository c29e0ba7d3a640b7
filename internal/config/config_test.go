package config

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/yourusername/venture-sim/internal/models"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	ventureSimName               = "venture-sim"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	testAppName                  = "test-app"
	testAppNameVar               = "TEST_APP_NAME"
	testObjectiveVar             = "TEST_OBJECTIVE"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != ventureSimName {
		t.Errorf("expected app name '%s', got '%s'", ventureSimName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Portfolio.K != 2 {
		t.Errorf("expected k 2, got %d", cfg.Portfolio.K)
	}

	if cfg.Portfolio.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Portfolio.Seed)
	}

	if len(cfg.Startups) != 2 {
		t.Fatalf("expected 2 startups, got %d", len(cfg.Startups))
	}
}

// TestLoadConfigAppliesDefaults tests that omitted fields receive documented defaults
func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	defaults := DefaultPortfolioConfig()
	if cfg.Portfolio.WeightGridStep != defaults.WeightGridStep {
		t.Errorf("expected default grid step %v, got %v", defaults.WeightGridStep, cfg.Portfolio.WeightGridStep)
	}
	if cfg.Portfolio.ValuationFloor != defaults.ValuationFloor {
		t.Errorf("expected default valuation floor %v, got %v", defaults.ValuationFloor, cfg.Portfolio.ValuationFloor)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsMissingFile tests that a missing file falls back to defaults
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Portfolio != DefaultPortfolioConfig() {
		t.Errorf("expected default portfolio config, got %+v", cfg.Portfolio)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("VENTURE_SIM_APP_NAME", testAppName)
	defer os.Unsetenv("VENTURE_SIM_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testAppNameVar, testAppName)
	os.Setenv(testObjectiveVar, "prob_10x")
	defer os.Unsetenv(testAppNameVar)
	defer os.Unsetenv(testObjectiveVar)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from expansion, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Portfolio.Objective != "prob_10x" {
		t.Errorf("expected objective 'prob_10x' from expansion, got '%s'", cfg.Portfolio.Objective)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected expanded config to validate, got %v", err)
	}
}

// TestValidateSuccess tests validation of the fixture
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
	if !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

// TestValidateInvalidObjective tests rejection of unknown objective names
func TestValidateInvalidObjective(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Portfolio.Objective = "sharpe"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unknown objective")
	}
	if !strings.Contains(err.Error(), "Objective") {
		t.Errorf("expected objective validation error, got: %v", err)
	}
}

// TestValidateCrossField tests rules spanning several fields
func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{
			name:   "budget below min ticket",
			mutate: func(cfg *Config) { cfg.Portfolio.Budget = 50_000 },
			field:  "portfolio.budget",
		},
		{
			name:   "dirichlet without draws",
			mutate: func(cfg *Config) { cfg.Portfolio.WeightDirichletDraws = 0 },
			field:  "portfolio.weight_dirichlet_draws",
		},
		{
			name: "grid with k above three",
			mutate: func(cfg *Config) {
				cfg.Portfolio.WeightMethod = "grid"
				cfg.Portfolio.K = 4
			},
			field: "portfolio.k",
		},
		{
			name:   "duplicate startup names",
			mutate: func(cfg *Config) { cfg.Startups[1].Name = cfg.Startups[0].Name },
			field:  "startups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			if err != nil {
				t.Fatalf(expectedNoErrorLoadingConfig, err)
			}
			tt.mutate(cfg)

			err = Validate(cfg)
			var cfgErr *models.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field '%s', got '%s'", tt.field, cfgErr.Field)
			}
		})
	}
}

// TestValidateStartupPriorRange tests tag validation inside the startup list
func TestValidateStartupPriorRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	bad := 1.5
	cfg.Startups[0].FailureMean = &bad
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for failure_mean above 1")
	}
}

// TestStartupSpecOverlay tests that configured priors override defaults and the rest stay default
func TestStartupSpecOverlay(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	specs := cfg.StartupSpecs()
	defaults := models.DefaultPriors()

	stable := specs[0]
	if stable.Name != "Stable" {
		t.Fatalf("expected first startup 'Stable', got '%s'", stable.Name)
	}
	if stable.Priors.GrowthMean != 0.45 || stable.Priors.VolatilityMean != 0.70 || stable.Priors.FailureMean != 0.15 {
		t.Errorf("expected overridden priors, got %+v", stable.Priors)
	}
	if stable.Priors.DilutionMean != defaults.DilutionMean {
		t.Errorf("expected default dilution %v, got %v", defaults.DilutionMean, stable.Priors.DilutionMean)
	}

	longShot := specs[1]
	if longShot.MinTicket != 120000 {
		t.Errorf("expected min ticket override 120000, got %v", longShot.MinTicket)
	}
	if longShot.Priors.MacroBeta != 1.5 {
		t.Errorf("expected macro beta 1.5, got %v", longShot.Priors.MacroBeta)
	}
}

// TestValidateEnvironmentProduction tests production-only requirements
func TestValidateEnvironmentProduction(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for text log format in production")
	}

	cfg.App.LogFormat = "json"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if !cfg.IsProduction() || cfg.IsDevelopment() || cfg.IsStaging() {
		t.Error("expected production environment flags")
	}
}

// TestRunnerDurations tests duration helpers
func TestRunnerDurations(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if cfg.Runner.ResultTTL().Minutes() != 15 {
		t.Errorf("expected 15 minute TTL, got %v", cfg.Runner.ResultTTL())
	}
	if cfg.Runner.RunTimeout().Seconds() != 120 {
		t.Errorf("expected 120s timeout, got %v", cfg.Runner.RunTimeout())
	}
}

// TestLoadConfigRunwayDefaults tests that an omitted runway section receives defaults
func TestLoadConfigRunwayDefaults(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if cfg.Runway != DefaultRunwayConfig() {
		t.Errorf("expected default runway config, got %+v", cfg.Runway)
	}

	cfg.Runway.Margin0 = 1.5
	if err := Validate(cfg); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration for margin0 > 1, got %v", err)
	}
}
