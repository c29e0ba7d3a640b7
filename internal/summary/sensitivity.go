package summary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/venture-sim/internal/simulator"
)

// Sensitivity is the correlation of one sampled parameter with log-ROI
type Sensitivity struct {
	Parameter   string  `json:"parameter"`
	Correlation float64 `json:"correlation"`
}

// Sensitivities correlates each per-trial parameter with log-ROI, strongest first.
// Parameters held fixed across trials report zero.
func Sensitivities(res *simulator.Result) []Sensitivity {
	if res == nil || res.Trials < 2 || len(res.Params.Growth) != len(res.ROI) {
		return nil
	}
	logROI := make([]float64, len(res.ROI))
	for i, r := range res.ROI {
		logROI[i] = math.Log(math.Max(r, LogFloor))
	}

	return CorrelateWith(logROI, []Series{
		{"growth", res.Params.Growth},
		{"volatility", res.Params.Volatility},
		{"failure_prob", res.Params.FailureProb},
		{"dilution", res.Params.Dilution},
		{"exit_sigma", res.Params.ExitSigma},
		{"exit_mu", res.Params.ExitMu},
	})
}

// Series is one named per-trial parameter draw
type Series struct {
	Name   string
	Values []float64
}

// CorrelateWith returns the Pearson correlation of each series with target,
// strongest first. A constant series or target reports zero.
func CorrelateWith(target []float64, series []Series) []Sensitivity {
	out := make([]Sensitivity, 0, len(series))
	for _, p := range series {
		corr := 0.0
		if len(p.Values) == len(target) && len(target) > 1 {
			corr = stat.Correlation(p.Values, target, nil)
		}
		if math.IsNaN(corr) || math.IsInf(corr, 0) {
			corr = 0
		}
		out = append(out, Sensitivity{Parameter: p.Name, Correlation: corr})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	return out
}
