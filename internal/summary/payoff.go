package summary

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Payoff expresses an ROI sample set in currency for a given investment.
// Profit VaR and CVaR are lower-tail profits: a loss is a negative number.
type Payoff struct {
	Investment        float64            `json:"investment"`
	ExpectedPayout    float64            `json:"expected_payout"`
	MedianPayout      float64            `json:"median_payout"`
	ExpectedProfit    float64            `json:"expected_profit"`
	MedianProfit      float64            `json:"median_profit"`
	PayoutPercentiles map[string]float64 `json:"payout_percentiles"`
	ProfitPercentiles map[string]float64 `json:"profit_percentiles"`
	VaRProfit         float64            `json:"var_profit_5"`
	CVaRProfit        float64            `json:"cvar_profit_5"`
	// RiskAdjustedProfit is expected profit over the magnitude of the profit
	// VaR. A non-negative VaR leaves only a 1e-12 floor in the denominator.
	RiskAdjustedProfit float64 `json:"risk_adjusted_profit_over_var"`
}

// ComputePayoff converts ROI multiples into payouts (roi·investment) and
// profits (payout − investment)
func ComputePayoff(roi []float64, investment float64) Payoff {
	p := Payoff{
		Investment:        investment,
		PayoutPercentiles: map[string]float64{},
		ProfitPercentiles: map[string]float64{},
	}
	if len(roi) == 0 {
		return p
	}

	payout := make([]float64, len(roi))
	profit := make([]float64, len(roi))
	for i, r := range roi {
		payout[i] = r * investment
		profit[i] = payout[i] - investment
	}
	p.ExpectedPayout = stat.Mean(payout, nil)
	p.ExpectedProfit = p.ExpectedPayout - investment

	sortedPayout := sortedCopy(payout)
	sortedProfit := sortedCopy(profit)
	p.MedianPayout = quantile(sortedPayout, 0.5)
	p.MedianProfit = quantile(sortedProfit, 0.5)
	p.PayoutPercentiles = percentiles(sortedPayout)
	p.ProfitPercentiles = percentiles(sortedProfit)
	p.VaRProfit, p.CVaRProfit = conditionalTail(sortedProfit, VaRLevel)

	downside := math.Abs(math.Min(0, p.VaRProfit)) + 1e-12
	p.RiskAdjustedProfit = p.ExpectedProfit / downside
	return p
}
