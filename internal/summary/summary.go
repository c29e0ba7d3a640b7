package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/venture-sim/internal/simulator"
)

// Summary is the reduction of an ROI sample set
type Summary struct {
	Trials       int     `json:"trials"`
	HorizonYears float64 `json:"horizon_years"`
	TargetROI    float64 `json:"target_roi"`

	ExpectedROI float64 `json:"expected_roi"`
	MedianROI   float64 `json:"median_roi"`
	StdROI      float64 `json:"std_roi"`
	ExpectedLog float64 `json:"expected_log"`
	StdLog      float64 `json:"std_log"`

	ProbTotalLoss float64 `json:"prob_total_loss"`
	ProbROILt1    float64 `json:"prob_roi_lt_1"`
	Prob3x        float64 `json:"prob_3x"`
	Prob10x       float64 `json:"prob_10x"`
	ProbTarget    float64 `json:"prob_target"`

	ROIPercentiles map[string]float64 `json:"roi_percentiles"`
	VaR            float64            `json:"var_5"`
	CVaR           float64            `json:"cvar_5"`

	ExpectedIRR    float64            `json:"expected_irr"`
	MedianIRR      float64            `json:"median_irr"`
	IRRPercentiles map[string]float64 `json:"irr_percentiles"`

	Survival     []float64 `json:"survival,omitempty"`
	ProbAliveEnd float64   `json:"prob_alive_end"`

	ProbBreakEven          float64  `json:"prob_break_even"`
	ExpectedYearsBreakEven *float64 `json:"expected_years_break_even,omitempty"`
	MedianYearsBreakEven   *float64 `json:"median_years_break_even,omitempty"`

	Sensitivity []Sensitivity `json:"sensitivity,omitempty"`
	AllFailed   bool          `json:"all_failed"`
}

// Moments returns the scoring view of the summary
func (s Summary) Moments() Moments {
	return Moments{
		Trials:     s.Trials,
		Mean:       s.ExpectedROI,
		Std:        s.StdROI,
		LogMean:    s.ExpectedLog,
		LogStd:     s.StdLog,
		ProbLoss:   s.ProbROILt1,
		ProbTarget: s.ProbTarget,
		Prob10x:    s.Prob10x,
		TargetROI:  s.TargetROI,
	}
}

// Summarize reduces a single-startup simulation result
func Summarize(res *simulator.Result, target float64) Summary {
	s := SummarizeSamples(res.ROI, res.HorizonYears, target)

	s.Survival = append([]float64{}, res.AliveByMonth...)
	if len(s.Survival) > 0 {
		s.ProbAliveEnd = s.Survival[len(s.Survival)-1]
	}

	var yearsToBreakEven []float64
	for _, month := range res.BreakEvenMonth {
		if month >= 0 {
			yearsToBreakEven = append(yearsToBreakEven, float64(month)/12)
		}
	}
	if res.Trials > 0 {
		s.ProbBreakEven = float64(len(yearsToBreakEven)) / float64(res.Trials)
	}
	if len(yearsToBreakEven) > 0 {
		mean := stat.Mean(yearsToBreakEven, nil)
		median := quantile(sortedCopy(yearsToBreakEven), 0.5)
		s.ExpectedYearsBreakEven = &mean
		s.MedianYearsBreakEven = &median
	}

	s.Sensitivity = Sensitivities(res)
	return s
}

// SummarizeSamples reduces a bare ROI sample set such as a portfolio outcome.
// Without per-month paths, a sample counts as alive at the end unless it is a
// total loss.
func SummarizeSamples(roi []float64, horizonYears, target float64) Summary {
	s := Summary{
		Trials:       len(roi),
		HorizonYears: horizonYears,
		TargetROI:    target,
	}
	if len(roi) == 0 {
		s.ROIPercentiles = map[string]float64{}
		s.IRRPercentiles = map[string]float64{}
		return s
	}

	m := ComputeMoments(roi, target)
	s.ExpectedROI, s.StdROI = m.Mean, m.Std
	s.ExpectedLog, s.StdLog = m.LogMean, m.LogStd
	s.ProbROILt1 = m.ProbLoss
	s.ProbTarget = m.ProbTarget
	s.Prob10x = m.Prob10x
	s.Prob3x = fractionAtLeast(roi, 3)
	s.ProbTotalLoss = fractionBelow(roi, TotalLossEpsilon)
	s.ProbAliveEnd = 1 - s.ProbTotalLoss
	s.AllFailed = s.ProbTotalLoss == 1

	sorted := sortedCopy(roi)
	s.MedianROI = quantile(sorted, 0.5)
	s.ROIPercentiles = percentiles(sorted)
	s.VaR, s.CVaR = conditionalTail(sorted, VaRLevel)

	irr := make([]float64, len(roi))
	for i, r := range roi {
		irr[i] = simulator.ROIToIRR(r, horizonYears)
	}
	sortedIRR := sortedCopy(irr)
	s.ExpectedIRR = stat.Mean(irr, nil)
	s.MedianIRR = quantile(sortedIRR, 0.5)
	s.IRRPercentiles = percentiles(sortedIRR)

	if math.IsNaN(s.ExpectedLog) {
		s.ExpectedLog = math.Log(LogFloor)
	}
	return s
}
