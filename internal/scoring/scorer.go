package scoring

import (
	"fmt"
	"sort"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/simulator"
	"github.com/yourusername/venture-sim/internal/summary"
)

// ScoredStartup binds a startup to its outcome distribution and score
type ScoredStartup struct {
	Spec      models.StartupSpec `json:"spec"`
	Result    *simulator.Result  `json:"-"`
	Summary   summary.Summary    `json:"summary"`
	Objective Objective          `json:"objective"`
	Score     float64            `json:"score"`
}

// Name returns the startup name
func (s ScoredStartup) Name() string {
	return s.Spec.Name
}

// ScoreAll summarizes and scores each result under obj. specs and results are
// matched by index and must agree on trial count.
func ScoreAll(specs []models.StartupSpec, results []*simulator.Result, obj Objective, p Penalties, target float64) ([]ScoredStartup, error) {
	if len(specs) != len(results) {
		return nil, fmt.Errorf("%d specs but %d results: %w", len(specs), len(results), models.ErrMismatchedTrials)
	}
	if !obj.Valid() {
		return nil, models.NewConfigurationError("objective", "unknown objective %q", obj)
	}

	scored := make([]ScoredStartup, len(specs))
	trials := -1
	for i, res := range results {
		if res == nil {
			return nil, fmt.Errorf("missing result for %s", specs[i].Name)
		}
		if trials >= 0 && res.Trials != trials {
			return nil, fmt.Errorf("%s has %d trials, expected %d: %w", res.Name, res.Trials, trials, models.ErrMismatchedTrials)
		}
		trials = res.Trials

		sum := summary.Summarize(res, target)
		used := obj
		var score float64
		if obj.IsAuto() {
			used, score, _ = Auto(sum.Moments(), p)
		} else {
			score, _ = Score(obj, sum.Moments(), p)
		}
		scored[i] = ScoredStartup{
			Spec:      specs[i],
			Result:    res,
			Summary:   sum,
			Objective: used,
			Score:     score,
		}
	}
	return scored, nil
}

// Rerank rescores already summarized startups under obj without re-summarizing
func Rerank(scored []ScoredStartup, obj Objective, p Penalties) ([]ScoredStartup, error) {
	if obj.IsAuto() || !obj.Valid() {
		return nil, models.NewConfigurationError("objective", "cannot rank under %q", obj)
	}
	out := make([]ScoredStartup, len(scored))
	for i, s := range scored {
		score, err := Score(obj, s.Summary.Moments(), p)
		if err != nil {
			return nil, err
		}
		s.Objective = obj
		s.Score = score
		out[i] = s
	}
	return out, nil
}

// SortByScore orders startups by descending score, keeping input order on ties
func SortByScore(scored []ScoredStartup) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
