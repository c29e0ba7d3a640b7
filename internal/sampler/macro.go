package sampler

import (
	"math"

	"github.com/yourusername/venture-sim/internal/models"
)

// MacroShocks is a pre-generated trial x month table of shared market shocks.
// Every startup reads the same value for the same (trial, month), which keeps
// parallel simulations reproducible regardless of scheduling.
type MacroShocks struct {
	trials int
	months int
	values []float64
}

// GenerateMacroShocks draws N(0, sdAnnual/sqrt(12)) shocks for every trial and
// month. A zero sdAnnual returns nil, which reads as zero everywhere.
func GenerateMacroShocks(s *Sampler, trials, months int, sdAnnual float64) (*MacroShocks, error) {
	if sdAnnual < 0 || math.IsNaN(sdAnnual) {
		return nil, models.NewConfigurationError("macro_shock_sd_annual", "must not be negative, got %v", sdAnnual)
	}
	if trials <= 0 || months <= 0 {
		return nil, models.NewConfigurationError("n_sims", "trials and months must be positive")
	}
	if sdAnnual == 0 {
		return nil, nil
	}
	sdMonthly := sdAnnual / math.Sqrt(12)
	values := make([]float64, trials*months)
	for i := range values {
		values[i] = s.Normal() * sdMonthly
	}
	return &MacroShocks{trials: trials, months: months, values: values}, nil
}

// At returns the shock for a trial and month
func (m *MacroShocks) At(trial, month int) float64 {
	if m == nil {
		return 0
	}
	return m.values[trial*m.months+month]
}

// Trials returns the number of trials covered
func (m *MacroShocks) Trials() int {
	if m == nil {
		return 0
	}
	return m.trials
}

// Months returns the number of months covered
func (m *MacroShocks) Months() int {
	if m == nil {
		return 0
	}
	return m.months
}
