// Package scoring maps ROI distributions to scalar scores under a closed set
// of investor objectives.
package scoring

import (
	"math"
	"strings"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/summary"
)

// Objective names one scoring rule
type Objective string

const (
	ObjectiveExpectedROI Objective = "expected_roi"
	ObjectiveExpectedLog Objective = "expected_log"
	ObjectiveProbTarget  Objective = "prob_target"
	ObjectiveProb10x     Objective = "prob_10x"
	// ObjectiveAuto evaluates every concrete objective and keeps the best.
	ObjectiveAuto Objective = "auto"
)

// Objectives lists the concrete objectives in tie-break order
var Objectives = []Objective{
	ObjectiveExpectedROI,
	ObjectiveExpectedLog,
	ObjectiveProbTarget,
	ObjectiveProb10x,
}

// Penalties are the risk and loss coefficients shared by the ROI objectives
type Penalties struct {
	Risk float64 `json:"risk_penalty"`
	Loss float64 `json:"loss_penalty"`
}

// ScoreFunc scores one set of moments
type ScoreFunc func(m summary.Moments, p Penalties) float64

var scoreFuncs = map[Objective]ScoreFunc{
	ObjectiveExpectedROI: func(m summary.Moments, p Penalties) float64 {
		return m.Mean - p.Risk*m.Std - p.Loss*m.ProbLoss
	},
	ObjectiveExpectedLog: func(m summary.Moments, p Penalties) float64 {
		return m.LogMean - p.Risk*m.LogStd - p.Loss*m.ProbLoss
	},
	ObjectiveProbTarget: func(m summary.Moments, _ Penalties) float64 {
		return m.ProbTarget
	},
	ObjectiveProb10x: func(m summary.Moments, _ Penalties) float64 {
		return m.Prob10x
	},
}

// ParseObjective resolves an objective name, case-insensitively
func ParseObjective(name string) (Objective, error) {
	obj := Objective(strings.ToLower(strings.TrimSpace(name)))
	if obj.Valid() {
		return obj, nil
	}
	return "", models.NewConfigurationError("objective", "unknown objective %q", name)
}

// Valid reports whether o is a concrete objective or auto
func (o Objective) Valid() bool {
	if o == ObjectiveAuto {
		return true
	}
	_, ok := scoreFuncs[o]
	return ok
}

// IsAuto reports whether o asks for objective search
func (o Objective) IsAuto() bool {
	return o == ObjectiveAuto
}

func (o Objective) String() string {
	return string(o)
}

// ObjectiveScore pairs an objective with the score it produced
type ObjectiveScore struct {
	Objective Objective `json:"objective"`
	Score     float64   `json:"score"`
}

// Score evaluates m under obj. Auto returns the best concrete score.
func Score(obj Objective, m summary.Moments, p Penalties) (float64, error) {
	if obj.IsAuto() {
		_, best, _ := Auto(m, p)
		return best, nil
	}
	fn, ok := scoreFuncs[obj]
	if !ok {
		return 0, models.NewConfigurationError("objective", "unknown objective %q", obj)
	}
	return sanitize(fn(m, p)), nil
}

// Auto scores m under every concrete objective and returns the winner. Ties
// keep the earlier objective in Objectives order.
func Auto(m summary.Moments, p Penalties) (Objective, float64, []ObjectiveScore) {
	table := make([]ObjectiveScore, 0, len(Objectives))
	best := Objectives[0]
	bestScore := math.Inf(-1)
	for _, obj := range Objectives {
		score := sanitize(scoreFuncs[obj](m, p))
		table = append(table, ObjectiveScore{Objective: obj, Score: score})
		if score > bestScore {
			best, bestScore = obj, score
		}
	}
	return best, bestScore, table
}

// sanitize maps NaN to -Inf so it never wins a comparison
func sanitize(score float64) float64 {
	if math.IsNaN(score) {
		return math.Inf(-1)
	}
	return score
}
