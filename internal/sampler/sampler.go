// Package sampler draws the random variates behind every simulation: normal
// shocks, clipped parameter priors, Beta hazard priors, Bernoulli failures,
// lognormal exit multiples and Dirichlet weight vectors.
//
// A Sampler owns its generator state and is not safe for concurrent use; parallel
// workers derive their own stream with Stream.
package sampler

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/yourusername/venture-sim/internal/models"
)

// Well-known stream identifiers derived from a run seed
const (
	StreamMacro        uint64 = 1
	StreamWeights      uint64 = 2
	StreamSynthetic    uint64 = 3
	StreamRunway       uint64 = 4
	StreamStartupsBase uint64 = 1000
)

// Sampler is a seedable source of variates
type Sampler struct {
	seed   int64
	stream uint64
	src    *rand.PCG
	rng    *rand.Rand
}

// New creates a sampler on the default stream. A zero seed draws a random seed.
func New(seed int64) *Sampler {
	return NewStream(ResolveSeed(seed), 0)
}

// NewStream creates a sampler for one stream of a seed. Equal (seed, stream)
// pairs always produce identical sequences.
func NewStream(seed int64, stream uint64) *Sampler {
	src := rand.NewPCG(uint64(seed), stream)
	return &Sampler{seed: seed, stream: stream, src: src, rng: rand.New(src)}
}

// ResolveSeed returns seed, or a fresh non-zero random seed when seed is 0
func ResolveSeed(seed int64) int64 {
	for seed == 0 {
		seed = rand.Int64()
	}
	return seed
}

// Stream derives an independent sampler sharing this sampler's seed
func (s *Sampler) Stream(stream uint64) *Sampler {
	return NewStream(s.seed, stream)
}

// Seed returns the seed this sampler was built from
func (s *Sampler) Seed() int64 {
	return s.seed
}

// Normal draws a standard normal variate
func (s *Sampler) Normal() float64 {
	return s.rng.NormFloat64()
}

// Uniform draws from [0,1)
func (s *Sampler) Uniform() float64 {
	return s.rng.Float64()
}

// Gaussian draws from N(mean, sd). A zero sd returns mean.
func (s *Sampler) Gaussian(mean, sd float64) (float64, error) {
	if sd < 0 || math.IsNaN(sd) {
		return 0, models.NewConfigurationError("sd", "standard deviation must not be negative, got %v", sd)
	}
	if sd == 0 {
		return mean, nil
	}
	return distuv.Normal{Mu: mean, Sigma: sd, Src: s.src}.Rand(), nil
}

// ClippedNormal draws from N(mean, sd) clipped to bounds. A zero sd returns
// mean unclipped, treating it as a fixed value.
func (s *Sampler) ClippedNormal(mean, sd float64, b models.Bounds) (float64, error) {
	v, err := s.Gaussian(mean, sd)
	if err != nil {
		return 0, err
	}
	if sd == 0 {
		return v, nil
	}
	return b.Clip(v), nil
}

// BetaProbability draws an annual probability from Beta(m*strength, (1-m)*strength),
// clamped to bounds. Degenerate means (0 or 1) or zero strength return m.
func (s *Sampler) BetaProbability(mean, strength float64, b models.Bounds) (float64, error) {
	if mean < 0 || mean > 1 || math.IsNaN(mean) {
		return 0, models.NewConfigurationError("failure_mean", "probability must be within [0,1], got %v", mean)
	}
	if strength < 0 {
		return 0, models.NewConfigurationError("failure_strength", "must not be negative, got %v", strength)
	}
	if mean == 0 || mean == 1 || strength == 0 {
		return clamp01(mean), nil
	}
	draw := distuv.Beta{Alpha: mean * strength, Beta: (1 - mean) * strength, Src: s.src}.Rand()
	return clamp01(b.Clip(draw)), nil
}

// LogNormal draws exp(N(mu, sigma))
func (s *Sampler) LogNormal(mu, sigma float64) (float64, error) {
	if sigma < 0 || math.IsNaN(sigma) {
		return 0, models.NewConfigurationError("sigma", "log-volatility must not be negative, got %v", sigma)
	}
	if sigma == 0 {
		return math.Exp(mu), nil
	}
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: s.src}.Rand(), nil
}

// Bernoulli reports whether an event with probability p happened
func (s *Sampler) Bernoulli(p float64) (bool, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return false, models.NewConfigurationError("probability", "must be within [0,1], got %v", p)
	}
	return s.bernoulli(p), nil
}

// bernoulli skips validation for the monthly hot loop; callers pass hazards
// produced by MonthlyHazard.
func (s *Sampler) bernoulli(p float64) bool {
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Fails draws a monthly failure check for a hazard returned by MonthlyHazard
func (s *Sampler) Fails(monthlyHazard float64) bool {
	return s.bernoulli(monthlyHazard)
}

// Dirichlet draws n weight vectors from a symmetric Dirichlet(alpha) over k assets
func (s *Sampler) Dirichlet(alpha float64, k, n int) ([][]float64, error) {
	if alpha <= 0 || math.IsNaN(alpha) {
		return nil, models.NewConfigurationError("weight_dirichlet_alpha", "must be positive, got %v", alpha)
	}
	if k <= 0 {
		return nil, models.NewConfigurationError("k", "must be positive, got %d", k)
	}
	draws := make([][]float64, 0, n)
	if k == 1 {
		for i := 0; i < n; i++ {
			draws = append(draws, []float64{1})
		}
		return draws, nil
	}
	concentration := make([]float64, k)
	for i := range concentration {
		concentration[i] = alpha
	}
	dist := distmv.NewDirichlet(concentration, s.src)
	for i := 0; i < n; i++ {
		draws = append(draws, dist.Rand(nil))
	}
	return draws, nil
}

// MonthlyHazard converts an annual failure probability to a monthly one:
// 1 - (1 - p)^(1/12).
func MonthlyHazard(annual float64) (float64, error) {
	if annual < 0 || annual > 1 || math.IsNaN(annual) {
		return 0, models.NewConfigurationError("failure_probability", "must be within [0,1], got %v", annual)
	}
	return 1 - math.Pow(1-annual, 1.0/12.0), nil
}

func clamp01(p float64) float64 {
	return math.Min(math.Max(p, 0), 1)
}

// String describes the sampler stream
func (s *Sampler) String() string {
	return fmt.Sprintf("sampler(seed=%d, stream=%d)", s.seed, s.stream)
}
