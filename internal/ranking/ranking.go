// Package ranking orders evaluated startups by a chosen metric and generates
// synthetic company sets for demos.
package ranking

import (
	"sort"
	"strings"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/scoring"
)

// SortKey names the metric a ranking is ordered by
type SortKey string

const (
	SortExpectedROI SortKey = "expected_roi"
	SortMedianROI   SortKey = "median_roi"
	SortProbLoss    SortKey = "prob_roi_lt_1"
	SortProb3x      SortKey = "prob_3x"
	SortProb10x     SortKey = "prob_10x"
	SortScore       SortKey = "score"
	SortObjective   SortKey = "objective"
)

// LossWeight is the penalty on P(ROI<1) in the default ranking score
const LossWeight = 2.0

var sortKeys = []SortKey{SortExpectedROI, SortMedianROI, SortProbLoss, SortProb3x, SortProb10x, SortScore, SortObjective}

// ParseSortKey resolves a sort key name
func ParseSortKey(name string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range sortKeys {
		if k == key {
			return key, nil
		}
	}
	return "", models.NewConfigurationError("sort_by", "unknown sort key %q", name)
}

// Ascending reports whether smaller values rank first
func (k SortKey) Ascending() bool {
	return k == SortProbLoss
}

// Row is one ranked company
type Row struct {
	Rank           int           `json:"rank"`
	Name           string        `json:"name"`
	ExpectedROI    float64       `json:"expected_roi"`
	MedianROI      float64       `json:"median_roi"`
	ProbROILt1     float64       `json:"prob_roi_lt_1"`
	ProbTotalLoss  float64       `json:"prob_total_loss"`
	Prob3x         float64       `json:"prob_3x"`
	Prob10x        float64       `json:"prob_10x"`
	P10            float64       `json:"roi_p10"`
	P50            float64       `json:"roi_p50"`
	P90            float64       `json:"roi_p90"`
	P95            float64       `json:"roi_p95"`
	ProbAliveEnd   float64       `json:"prob_alive_end"`
	Score          float64       `json:"score"`
	Objective      string        `json:"objective"`
	ObjectiveScore float64       `json:"objective_score"`
	Priors         models.Priors `json:"priors"`
}

// Value returns the metric a key sorts on
func (r Row) Value(key SortKey) float64 {
	switch key {
	case SortMedianROI:
		return r.MedianROI
	case SortProbLoss:
		return r.ProbROILt1
	case SortProb3x:
		return r.Prob3x
	case SortProb10x:
		return r.Prob10x
	case SortScore:
		return r.Score
	case SortObjective:
		return r.ObjectiveScore
	default:
		return r.ExpectedROI
	}
}

// Rank builds rows for scored startups and orders them by key. Equal values
// keep input order. Ranks start at 1.
func Rank(scored []scoring.ScoredStartup, key SortKey) []Row {
	rows := make([]Row, len(scored))
	for i, s := range scored {
		sum := s.Summary
		rows[i] = Row{
			Name:           s.Name(),
			ExpectedROI:    sum.ExpectedROI,
			MedianROI:      sum.MedianROI,
			ProbROILt1:     sum.ProbROILt1,
			ProbTotalLoss:  sum.ProbTotalLoss,
			Prob3x:         sum.Prob3x,
			Prob10x:        sum.Prob10x,
			P10:            sum.ROIPercentiles["p10"],
			P50:            sum.ROIPercentiles["p50"],
			P90:            sum.ROIPercentiles["p90"],
			P95:            sum.ROIPercentiles["p95"],
			ProbAliveEnd:   sum.ProbAliveEnd,
			Score:          sum.ExpectedROI - LossWeight*sum.ProbROILt1,
			Objective:      s.Objective.String(),
			ObjectiveScore: s.Score,
			Priors:         s.Spec.Priors,
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if key.Ascending() {
			return rows[i].Value(key) < rows[j].Value(key)
		}
		return rows[i].Value(key) > rows[j].Value(key)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Top returns at most n leading rows
func Top(rows []Row, n int) []Row {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
