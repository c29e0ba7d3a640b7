// Package summary reduces raw ROI sample sets to distribution summaries:
// moments, tail probabilities, percentiles, survival and investor metrics.
package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// LogFloor replaces zero ROI before taking logs so total loss stays finite.
	LogFloor = 1e-12
	// TotalLossEpsilon is the ROI below which a trial counts as a total loss.
	TotalLossEpsilon = 1e-9
)

// Moments is the one-pass view of a sample set that scoring needs. It avoids
// sorting, so the optimizer can compute it for every weight candidate.
type Moments struct {
	Trials     int     `json:"trials"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	LogMean    float64 `json:"log_mean"`
	LogStd     float64 `json:"log_std"`
	ProbLoss   float64 `json:"prob_loss"`
	ProbTarget float64 `json:"prob_target"`
	Prob10x    float64 `json:"prob_10x"`
	TargetROI  float64 `json:"target_roi"`
}

// ComputeMoments computes moments of roi against a target multiple
func ComputeMoments(roi []float64, target float64) Moments {
	return ComputeMomentsInto(roi, target, nil)
}

// ComputeMomentsInto is ComputeMoments with a caller-owned scratch buffer for
// the log samples. scratch is grown when too small.
func ComputeMomentsInto(roi []float64, target float64, scratch []float64) Moments {
	m := Moments{Trials: len(roi), TargetROI: target}
	if len(roi) == 0 {
		return m
	}
	if cap(scratch) < len(roi) {
		scratch = make([]float64, len(roi))
	}
	logs := scratch[:len(roi)]

	var loss, hitTarget, hit10x int
	for i, r := range roi {
		if r < 1 {
			loss++
		}
		if r >= target {
			hitTarget++
		}
		if r >= 10 {
			hit10x++
		}
		logs[i] = math.Log(math.Max(r, LogFloor))
	}

	n := float64(len(roi))
	m.Mean, m.Std = stat.PopMeanStdDev(roi, nil)
	m.LogMean, m.LogStd = stat.PopMeanStdDev(logs, nil)
	m.ProbLoss = float64(loss) / n
	m.ProbTarget = float64(hitTarget) / n
	m.Prob10x = float64(hit10x) / n
	return m
}
