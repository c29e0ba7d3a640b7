package ranking

import (
	"fmt"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
)

// syntheticPrior describes how one prior field is drawn for a synthetic company
type syntheticPrior struct {
	mean, sd float64
	bounds   models.Bounds
	set      func(p *models.Priors, v float64)
}

var syntheticPriors = []syntheticPrior{
	{0.60, 0.20, models.Bounds{Lo: -0.20, Hi: 1.50}, func(p *models.Priors, v float64) { p.GrowthMean = v }},
	{0.25, 0.07, models.Bounds{Lo: 0.10, Hi: 0.60}, func(p *models.Priors, v float64) { p.GrowthSD = v }},
	{0.22, 0.07, models.Bounds{Lo: 0.03, Hi: 0.60}, func(p *models.Priors, v float64) { p.FailureMean = v }},
	{25, 8, models.Bounds{Lo: 8, Hi: 60}, func(p *models.Priors, v float64) { p.FailureStrength = v }},
	{0.95, 0.20, models.Bounds{Lo: 0.30, Hi: 1.80}, func(p *models.Priors, v float64) { p.VolatilityMean = v }},
	{0.25, 0.07, models.Bounds{Lo: 0.10, Hi: 0.60}, func(p *models.Priors, v float64) { p.VolatilitySD = v }},
	{0.40, 0.12, models.Bounds{Lo: 0.05, Hi: 0.80}, func(p *models.Priors, v float64) { p.DilutionMean = v }},
	{0.15, 0.06, models.Bounds{Lo: 0.05, Hi: 0.35}, func(p *models.Priors, v float64) { p.DilutionSD = v }},
	{0.80, 0.18, models.Bounds{Lo: 0.10, Hi: 1.50}, func(p *models.Priors, v float64) { p.ExitSigmaMean = v }},
	{0.20, 0.06, models.Bounds{Lo: 0.05, Hi: 0.50}, func(p *models.Priors, v float64) { p.ExitSigmaSD = v }},
}

// Synthetic generates n companies with randomized priors. The same seed always
// yields the same companies.
func Synthetic(n int, seed int64) ([]models.StartupSpec, error) {
	if n <= 0 {
		return nil, models.NewConfigurationError("count", "must be positive, got %d", n)
	}
	s := sampler.NewStream(sampler.ResolveSeed(seed), sampler.StreamSynthetic)

	specs := make([]models.StartupSpec, 0, n)
	for i := 0; i < n; i++ {
		p := models.DefaultPriors()
		for _, sp := range syntheticPriors {
			v, err := s.ClippedNormal(sp.mean, sp.sd, sp.bounds)
			if err != nil {
				return nil, err
			}
			sp.set(&p, v)
		}
		specs = append(specs, models.NewStartupSpec(fmt.Sprintf("Company_%02d", i+1), p))
	}
	return specs, nil
}
