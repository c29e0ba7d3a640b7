package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/yourusername/venture-sim/internal/portfolio"
	"github.com/yourusername/venture-sim/internal/ranking"
	"github.com/yourusername/venture-sim/internal/runway"
)

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteSummariesCSV writes one row per startup
func WriteSummariesCSV(w io.Writer, reports []StartupReport) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "seed", "trials", "expected_roi", "median_roi", "std_roi",
		"prob_roi_lt_1", "prob_total_loss", "prob_3x", "prob_10x", "prob_target",
		"var_5", "cvar_5", "expected_irr", "median_irr", "prob_alive_end", "prob_break_even"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range reports {
		s := r.Summary
		row := []string{r.Name, strconv.FormatInt(r.Seed, 10), strconv.Itoa(s.Trials),
			ff(s.ExpectedROI), ff(s.MedianROI), ff(s.StdROI),
			ff(s.ProbROILt1), ff(s.ProbTotalLoss), ff(s.Prob3x), ff(s.Prob10x), ff(s.ProbTarget),
			ff(s.VaR), ff(s.CVaR), ff(s.ExpectedIRR), ff(s.MedianIRR), ff(s.ProbAliveEnd), ff(s.ProbBreakEven)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRankingCSV writes one row per ranked company
func WriteRankingCSV(w io.Writer, rows []ranking.Row) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "name", "expected_roi", "median_roi", "prob_roi_lt_1",
		"prob_total_loss", "prob_3x", "prob_10x", "roi_p10", "roi_p50", "roi_p90", "roi_p95",
		"score", "objective", "objective_score"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{strconv.Itoa(r.Rank), r.Name, ff(r.ExpectedROI), ff(r.MedianROI),
			ff(r.ProbROILt1), ff(r.ProbTotalLoss), ff(r.Prob3x), ff(r.Prob10x),
			ff(r.P10), ff(r.P50), ff(r.P90), ff(r.P95), ff(r.Score), r.Objective, ff(r.ObjectiveScore)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePortfolioCSV writes one row per selected member
func WritePortfolioCSV(w io.Writer, res *portfolio.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "weight", "ticket", "min_ticket", "single_score",
		"expected_roi", "prob_roi_lt_1", "objective", "portfolio_score",
		"expected_payout", "median_payout", "expected_profit", "median_profit",
		"var_profit_5", "cvar_profit_5", "risk_adjusted_profit_over_var"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range res.Selected {
		row := []string{m.Name, ff(m.Weight), strconv.FormatFloat(m.Ticket, 'f', 2, 64),
			strconv.FormatFloat(m.MinTicket, 'f', 2, 64), ff(m.SingleScore),
			ff(m.SingleMetrics.ExpectedROI), ff(m.SingleMetrics.ProbROILt1),
			res.ObjectiveUsed.String(), ff(res.PortfolioScore),
			ff(m.Payoff.ExpectedPayout), ff(m.Payoff.MedianPayout),
			ff(m.Payoff.ExpectedProfit), ff(m.Payoff.MedianProfit),
			ff(m.Payoff.VaRProfit), ff(m.Payoff.CVaRProfit), ff(m.Payoff.RiskAdjustedProfit)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRunwayCSV writes the fan chart, one row per month
func WriteRunwayCSV(w io.Writer, res *runway.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"month", "mrr_p10", "mrr_p50", "mrr_p90", "cash_p10", "cash_p50", "cash_p90"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for t := range res.MRR.P50 {
		row := []string{strconv.Itoa(t), ff(res.MRR.P10[t]), ff(res.MRR.P50[t]), ff(res.MRR.P90[t]),
			ff(res.Cash.P10[t]), ff(res.Cash.P50[t]), ff(res.Cash.P90[t])}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
