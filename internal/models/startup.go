package models

import (
	"fmt"
	"math"
	"sort"
)

// Bounds is a closed interval used to clip sampled parameters
type Bounds struct {
	Lo float64 `json:"lo" mapstructure:"lo"`
	Hi float64 `json:"hi" mapstructure:"hi"`
}

// Clip clamps v into the interval
func (b Bounds) Clip(v float64) float64 {
	return math.Min(math.Max(v, b.Lo), b.Hi)
}

// Priors describes the parameter uncertainty of one startup. Every field is a
// per-trial prior: means and standard deviations of annualized quantities.
type Priors struct {
	GrowthMean      float64 `json:"growth_mean"`
	GrowthSD        float64 `json:"growth_sd"`
	FailureMean     float64 `json:"failure_mean"`
	FailureStrength float64 `json:"failure_strength"`
	VolatilityMean  float64 `json:"volatility_mean"`
	VolatilitySD    float64 `json:"volatility_sd"`
	DilutionMean    float64 `json:"dilution_mean"`
	DilutionSD      float64 `json:"dilution_sd"`
	ExitSigmaMean   float64 `json:"exit_sigma_mean"`
	ExitSigmaSD     float64 `json:"exit_sigma_sd"`
	ExitMuMean      float64 `json:"exit_mu_mean"`
	ExitMuSD        float64 `json:"exit_mu_sd"`
	// MacroBeta scales the shared macro shock for this startup.
	MacroBeta float64 `json:"macro_beta"`
}

// PriorBounds holds the clipping interval of each sampled parameter
type PriorBounds struct {
	Growth     Bounds `json:"growth"`
	Volatility Bounds `json:"volatility"`
	Failure    Bounds `json:"failure"`
	Dilution   Bounds `json:"dilution"`
	ExitSigma  Bounds `json:"exit_sigma"`
	ExitMu     Bounds `json:"exit_mu"`
}

// DefaultPriors returns the priors used when a startup leaves a field unset
func DefaultPriors() Priors {
	return Priors{
		GrowthMean:      0.55,
		GrowthSD:        0.25,
		FailureMean:     0.22,
		FailureStrength: 25,
		VolatilityMean:  0.95,
		VolatilitySD:    0.25,
		DilutionMean:    0.40,
		DilutionSD:      0.15,
		ExitSigmaMean:   0.70,
		ExitSigmaSD:     0.20,
		ExitMuMean:      0,
		ExitMuSD:        0,
		MacroBeta:       1,
	}
}

// DefaultPriorBounds returns the clipping intervals for per-trial draws
func DefaultPriorBounds() PriorBounds {
	return PriorBounds{
		Growth:     Bounds{Lo: -0.30, Hi: 2.00},
		Volatility: Bounds{Lo: 0.20, Hi: 2.00},
		Failure:    Bounds{Lo: 0, Hi: 1},
		Dilution:   Bounds{Lo: 0.05, Hi: 0.85},
		ExitSigma:  Bounds{Lo: 0.05, Hi: 1.50},
		ExitMu:     Bounds{Lo: -1, Hi: 1},
	}
}

// StartupSpec is the immutable description of one candidate asset
type StartupSpec struct {
	Name   string      `json:"name"`
	Priors Priors      `json:"priors"`
	Bounds PriorBounds `json:"bounds"`
	// MinTicket overrides the run-level minimum ticket when larger. Zero means unset.
	MinTicket float64 `json:"min_ticket,omitempty"`
}

// NewStartupSpec creates a spec with default bounds
func NewStartupSpec(name string, priors Priors) StartupSpec {
	return StartupSpec{Name: name, Priors: priors, Bounds: DefaultPriorBounds()}
}

// EffectiveMinTicket returns the minimum ticket that applies to this startup
func (s StartupSpec) EffectiveMinTicket(runMinTicket float64) float64 {
	return math.Max(runMinTicket, s.MinTicket)
}

// Validate checks the parameter bundle
func (s StartupSpec) Validate() error {
	if s.Name == "" {
		return NewConfigurationError("name", "startup name is required")
	}
	p := s.Priors
	field := func(name string) string { return fmt.Sprintf("startups[%s].%s", s.Name, name) }

	values := map[string]float64{
		"growth_mean": p.GrowthMean, "growth_sd": p.GrowthSD,
		"failure_mean": p.FailureMean, "failure_strength": p.FailureStrength,
		"volatility_mean": p.VolatilityMean, "volatility_sd": p.VolatilitySD,
		"dilution_mean": p.DilutionMean, "dilution_sd": p.DilutionSD,
		"exit_sigma_mean": p.ExitSigmaMean, "exit_sigma_sd": p.ExitSigmaSD,
		"exit_mu_mean": p.ExitMuMean, "exit_mu_sd": p.ExitMuSD,
		"macro_beta": p.MacroBeta, "min_ticket": s.MinTicket,
	}
	for _, name := range sortedKeys(values) {
		v := values[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewConfigurationError(field(name), "must be finite, got %v", v)
		}
	}

	nonNegative := []string{
		"growth_sd", "failure_strength", "volatility_mean", "volatility_sd",
		"dilution_sd", "exit_sigma_mean", "exit_sigma_sd", "exit_mu_sd", "min_ticket",
	}
	for _, name := range nonNegative {
		if values[name] < 0 {
			return NewConfigurationError(field(name), "must not be negative, got %v", values[name])
		}
	}
	if p.FailureMean < 0 || p.FailureMean > 1 {
		return NewConfigurationError(field("failure_mean"), "probability must be within [0,1], got %v", p.FailureMean)
	}
	if p.DilutionMean < 0 || p.DilutionMean >= 1 {
		return NewConfigurationError(field("dilution_mean"), "must be within [0,1), got %v", p.DilutionMean)
	}

	b := s.Bounds
	named := []struct {
		name  string
		bound Bounds
	}{
		{"growth", b.Growth}, {"volatility", b.Volatility}, {"failure", b.Failure},
		{"dilution", b.Dilution}, {"exit_sigma", b.ExitSigma}, {"exit_mu", b.ExitMu},
	}
	for _, nb := range named {
		if nb.bound.Lo > nb.bound.Hi {
			return NewConfigurationError(field("bounds."+nb.name), "lower bound %v exceeds upper bound %v", nb.bound.Lo, nb.bound.Hi)
		}
	}
	if b.Failure.Lo < 0 || b.Failure.Hi > 1 {
		return NewConfigurationError(field("bounds.failure"), "must stay within [0,1]")
	}
	if b.Volatility.Lo < 0 || b.ExitSigma.Lo < 0 {
		return NewConfigurationError(field("bounds"), "volatility bounds must not be negative")
	}
	if b.Dilution.Lo < 0 || b.Dilution.Hi >= 1 {
		return NewConfigurationError(field("bounds.dilution"), "must stay within [0,1)")
	}
	return nil
}

// ValidateStartups validates every spec and rejects duplicate names
func ValidateStartups(specs []StartupSpec) error {
	if len(specs) == 0 {
		return NewConfigurationError("startups", "at least one startup is required")
	}
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return err
		}
		if seen[spec.Name] {
			return NewConfigurationError("startups", "duplicate startup name %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
