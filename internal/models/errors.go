package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNoCandidates         = errors.New("no startup fits the budget")
	ErrMismatchedTrials     = errors.New("simulation trial counts differ")
	ErrRunNotFound          = errors.New("run not found")
	ErrRunThrottled         = errors.New("run submission rate exceeded")
)

// ConfigurationError reports a rejected input field before any simulation work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

// NewConfigurationError builds a ConfigurationError with a formatted reason
func NewConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}
