package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/scoring"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("objective", validateObjective)
	v.RegisterValidation("weightmethod", validateWeightMethod)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateObjective(fl validator.FieldLevel) bool {
	_, err := scoring.ParseObjective(fl.Field().String())
	return err == nil
}

func validateWeightMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "dirichlet", "equal", "grid":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	p := cfg.Portfolio
	if p.Budget < p.MinTicket {
		return models.NewConfigurationError("portfolio.budget",
			"budget %.2f is smaller than min_ticket %.2f", p.Budget, p.MinTicket)
	}

	switch p.WeightMethod {
	case "dirichlet":
		if p.WeightDirichletAlpha <= 0 {
			return models.NewConfigurationError("portfolio.weight_dirichlet_alpha", "must be positive for the dirichlet method")
		}
		if p.WeightDirichletDraws <= 0 {
			return models.NewConfigurationError("portfolio.weight_dirichlet_draws", "must be positive for the dirichlet method")
		}
	case "grid":
		if p.WeightGridStep <= 0 {
			return models.NewConfigurationError("portfolio.weight_grid_step", "must be positive for the grid method")
		}
		if p.K > 3 {
			return models.NewConfigurationError("portfolio.k", "grid search supports k <= 3, got %d", p.K)
		}
	}

	return models.ValidateStartups(cfg.StartupSpecs())
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated, got '%v'\n", field, tag, value)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "objective":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: auto, expected_roi, expected_log, prob_target, prob_10x, got '%v'\n", field, value)
		case "weightmethod":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: dirichlet, equal, grid, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("%w:\n%s", models.ErrInvalidConfiguration, errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.App.LogFormat != "json" {
			return fmt.Errorf("production environment requires log_format 'json'")
		}
		if cfg.App.LogLevel == "debug" {
			return fmt.Errorf("production environment should not log at debug level")
		}
	}
	return nil
}
