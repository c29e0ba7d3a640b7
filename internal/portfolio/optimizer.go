package portfolio

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/venture-sim/internal/metrics"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
	"github.com/yourusername/venture-sim/internal/scoring"
	"github.com/yourusername/venture-sim/internal/summary"
)

const gridTolerance = 1e-9

// Candidate is one scored weight vector
type Candidate struct {
	Weights []float64 `json:"weights"`
	Score   float64   `json:"score"`
	// Order is the position in generation order.
	Order int `json:"order"`
}

// Optimizer searches the weight simplex of a fixed subset for the best
// portfolio score under one objective
type Optimizer struct {
	method    WeightMethod
	alpha     float64
	draws     int
	gridStep  float64
	objective scoring.Objective
	penalties scoring.Penalties
	target    float64
	workers   int
}

// NewOptimizer creates an optimizer for a concrete objective
func NewOptimizer(cfg Config, objective scoring.Objective) (*Optimizer, error) {
	if objective.IsAuto() || !objective.Valid() {
		return nil, models.NewConfigurationError("objective", "weight search needs a concrete objective, got %q", objective)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Optimizer{
		method:    cfg.WeightMethod,
		alpha:     cfg.DirichletAlpha,
		draws:     cfg.DirichletDraws,
		gridStep:  cfg.GridStep,
		objective: objective,
		penalties: cfg.Penalties(),
		target:    cfg.TargetROI,
		workers:   workers,
	}, nil
}

// Candidates generates weight vectors over k assets in a fixed order. Only the
// dirichlet method consumes randomness from s.
func (o *Optimizer) Candidates(k int, s *sampler.Sampler) ([][]float64, error) {
	if k <= 0 {
		return nil, models.NewConfigurationError("k", "must be positive, got %d", k)
	}
	switch o.method {
	case WeightMethodEqual:
		return [][]float64{equalWeights(k)}, nil
	case WeightMethodGrid:
		return gridWeights(k, o.gridStep)
	case WeightMethodDirichlet:
		draws, err := s.Dirichlet(o.alpha, k, o.draws)
		if err != nil {
			return nil, err
		}
		for _, w := range draws {
			normalize(w)
		}
		return append([][]float64{equalWeights(k)}, draws...), nil
	default:
		return nil, models.NewConfigurationError("weight_method", "unknown weight method %q", o.method)
	}
}

// Search scores every candidate against the per-startup ROI samples and
// returns them best first. Equal scores keep generation order.
func (o *Optimizer) Search(ctx context.Context, samples [][]float64, s *sampler.Sampler) ([]Candidate, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no sample sets to weight: %w", models.ErrNoCandidates)
	}
	trials := len(samples[0])
	for _, col := range samples[1:] {
		if len(col) != trials {
			return nil, fmt.Errorf("sample sets have %d and %d trials: %w", trials, len(col), models.ErrMismatchedTrials)
		}
	}

	start := time.Now()
	weights, err := o.Candidates(len(samples), s)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(weights))
	chunk := (len(weights) + o.workers - 1) / o.workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(weights); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(weights))
		g.Go(func() error {
			port := make([]float64, trials)
			scratch := make([]float64, trials)
			for i := lo; i < hi; i++ {
				if (i-lo)%64 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				port = Combine(samples, weights[i], port)
				m := summary.ComputeMomentsInto(port, o.target, scratch)
				score, err := scoring.Score(o.objective, m, o.penalties)
				if err != nil {
					return err
				}
				scores[i] = score
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(weights))
	for i := range weights {
		candidates[i] = Candidate{Weights: weights[i], Score: scores[i], Order: i}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	metrics.RecordOptimization(len(candidates), time.Since(start).Seconds())
	return candidates, nil
}

func equalWeights(k int) []float64 {
	w := make([]float64, k)
	for i := range w {
		w[i] = 1 / float64(k)
	}
	return w
}

func gridWeights(k int, step float64) ([][]float64, error) {
	if k > maxGridAssets {
		return nil, models.NewConfigurationError("k", "grid search supports k <= %d, got %d", maxGridAssets, k)
	}
	if step <= 0 || step > 1 {
		return nil, models.NewConfigurationError("weight_grid_step", "must be within (0,1], got %v", step)
	}

	var grid []float64
	for i := 0; float64(i)*step <= 1+gridTolerance; i++ {
		grid = append(grid, math.Min(float64(i)*step, 1))
	}

	var out [][]float64
	switch k {
	case 1:
		out = append(out, []float64{1})
	case 2:
		for _, w0 := range grid {
			out = append(out, []float64{w0, 1 - w0})
		}
	case 3:
		for _, w0 := range grid {
			for _, w1 := range grid {
				if w0+w1 > 1+gridTolerance {
					continue
				}
				out = append(out, []float64{w0, w1, math.Max(0, 1-w0-w1)})
			}
		}
	}
	return out, nil
}

// normalize rescales w in place to sum to one
func normalize(w []float64) {
	for i, v := range w {
		if v < 0 || math.IsNaN(v) {
			w[i] = 0
		}
	}
	total := floats.Sum(w)
	if total <= 0 {
		copy(w, equalWeights(len(w)))
		return
	}
	floats.Scale(1/total, w)
}
