package summary

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// PercentileLevels are the breakpoints reported in every summary
var PercentileLevels = []int{5, 10, 25, 50, 75, 90, 95}

// VaRLevel is the tail quantile used for VaR and CVaR
const VaRLevel = 0.05

func sortedCopy(values []float64) []float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	return sorted
}

// quantile returns the linearly interpolated q-quantile of sorted values
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(q, stat.LinInterp, sorted, nil)
}

// percentiles maps "pNN" to the NN-th percentile of sorted values
func percentiles(sorted []float64) map[string]float64 {
	results := make(map[string]float64, len(PercentileLevels))
	for _, level := range PercentileLevels {
		results[percentileKey(level)] = quantile(sorted, float64(level)/100)
	}
	return results
}

func percentileKey(level int) string {
	return fmt.Sprintf("p%d", level)
}

// conditionalTail returns the mean of sorted values at or below the q-quantile
func conditionalTail(sorted []float64, q float64) (float64, float64) {
	if len(sorted) == 0 {
		return 0, 0
	}
	threshold := quantile(sorted, q)
	sum := 0.0
	count := 0
	for _, v := range sorted {
		if v > threshold {
			break
		}
		sum += v
		count++
	}
	if count == 0 {
		return threshold, threshold
	}
	return threshold, sum / float64(count)
}

func fractionAtLeast(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func fractionBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v < threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
