package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/yourusername/venture-sim/internal/portfolio"
	"github.com/yourusername/venture-sim/internal/ranking"
	"github.com/yourusername/venture-sim/internal/runway"
	"github.com/yourusername/venture-sim/internal/summary"
)

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func years(v *float64) string {
	if v == nil {
		return "never"
	}
	return fmt.Sprintf("%.2fy", *v)
}

// ConsoleSummaries formats per-startup summaries for terminal output
func ConsoleSummaries(reports []StartupReport) string {
	var builder strings.Builder
	for i, r := range reports {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(consoleSummary(r.Name, r.Seed, r.Summary))
	}
	return builder.String()
}

func consoleSummary(name string, seed int64, s summary.Summary) string {
	var builder strings.Builder
	title := fmt.Sprintf("%s (%d trials, %.1f years, seed %d)", name, s.Trials, s.HorizonYears, seed)
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", len(title)) + "\n")
	builder.WriteString(fmt.Sprintf("Expected ROI:      %.2fx\n", s.ExpectedROI))
	builder.WriteString(fmt.Sprintf("Median ROI:        %.2fx\n", s.MedianROI))
	builder.WriteString(fmt.Sprintf("P(ROI < 1x):       %s\n", pct(s.ProbROILt1)))
	builder.WriteString(fmt.Sprintf("P(total loss):     %s\n", pct(s.ProbTotalLoss)))
	builder.WriteString(fmt.Sprintf("P(ROI >= 3x):      %s\n", pct(s.Prob3x)))
	builder.WriteString(fmt.Sprintf("P(ROI >= 10x):     %s\n", pct(s.Prob10x)))
	builder.WriteString(fmt.Sprintf("P(ROI >= %.1fx):    %s\n", s.TargetROI, pct(s.ProbTarget)))
	builder.WriteString(fmt.Sprintf("VaR 5%% / CVaR 5%%:  %.2fx / %.2fx\n", s.VaR, s.CVaR))
	builder.WriteString(fmt.Sprintf("Expected IRR:      %s\n", pct(s.ExpectedIRR)))
	builder.WriteString(fmt.Sprintf("Median IRR:        %s\n", pct(s.MedianIRR)))
	builder.WriteString(fmt.Sprintf("P(alive at end):   %s\n", pct(s.ProbAliveEnd)))
	builder.WriteString(fmt.Sprintf("P(break-even):     %s (median %s)\n", pct(s.ProbBreakEven), years(s.MedianYearsBreakEven)))
	if s.AllFailed {
		builder.WriteString("Every trial ended in total loss\n")
	}

	if len(s.ROIPercentiles) > 0 {
		keys := make([]string, 0, len(s.ROIPercentiles))
		for k := range s.ROIPercentiles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%.2f", k, s.ROIPercentiles[k])
		}
		builder.WriteString("ROI percentiles:   " + strings.Join(parts, " ") + "\n")
	}

	if len(s.Sensitivity) > 0 {
		builder.WriteString("Sensitivity (corr with log ROI):\n")
		for _, sens := range s.Sensitivity {
			builder.WriteString(fmt.Sprintf("  %-13s %+.3f\n", sens.Parameter, sens.Correlation))
		}
	}
	return builder.String()
}

// ConsoleRanking formats a ranking as an aligned table
func ConsoleRanking(rows []ranking.Row) string {
	var builder strings.Builder
	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rank\tname\texp_roi\tmedian\tp_lt_1x\tp_loss\tp_3x\tp_10x\tp90\tscore\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%s\t%s\t%s\t%s\t%.2f\t%.3f\t\n",
			r.Rank, r.Name, r.ExpectedROI, r.MedianROI,
			pct(r.ProbROILt1), pct(r.ProbTotalLoss), pct(r.Prob3x), pct(r.Prob10x),
			r.P90, r.Score)
	}
	tw.Flush()
	return builder.String()
}

// ConsolePortfolio formats a portfolio result for terminal output
func ConsolePortfolio(res *portfolio.Result) string {
	var builder strings.Builder
	m := res.PortfolioMetrics
	builder.WriteString("Portfolio Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Objective:         %s\n", res.ObjectiveUsed))
	builder.WriteString(fmt.Sprintf("Portfolio Score:   %.4f\n", res.PortfolioScore))
	builder.WriteString(fmt.Sprintf("Seed:              %d\n", res.Seed))
	builder.WriteString(fmt.Sprintf("Invested:          %.2f of %.2f\n", res.Invested, res.Budget))
	if res.Insufficient {
		builder.WriteString(fmt.Sprintf("Selected %d of %d requested startups\n", len(res.Selected), res.RequestedK))
	}
	if res.Debug.Fallback {
		builder.WriteString("No weight candidate met minimum tickets; projected the best one\n")
	}
	builder.WriteString("\n")

	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "name\tweight\tticket\tmin_ticket\tsingle_score\texp_roi\tp_lt_1x\texp_profit\tvar_profit\t")
	for _, mem := range res.Selected {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.4f\t%.2f\t%s\t%.2f\t%.2f\t\n",
			mem.Name, pct(mem.Weight), mem.Ticket, mem.MinTicket, mem.SingleScore,
			mem.SingleMetrics.ExpectedROI, pct(mem.SingleMetrics.ProbROILt1),
			mem.Payoff.ExpectedProfit, mem.Payoff.VaRProfit)
	}
	tw.Flush()

	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Expected ROI:      %.2fx\n", m.ExpectedROI))
	builder.WriteString(fmt.Sprintf("Median ROI:        %.2fx\n", m.MedianROI))
	builder.WriteString(fmt.Sprintf("P(ROI < 1x):       %s\n", pct(m.ProbROILt1)))
	builder.WriteString(fmt.Sprintf("P(total loss):     %s\n", pct(m.ProbTotalLoss)))
	builder.WriteString(fmt.Sprintf("P(ROI >= 10x):     %s\n", pct(m.Prob10x)))
	builder.WriteString(fmt.Sprintf("VaR 5%% / CVaR 5%%:  %.2fx / %.2fx\n", m.VaR, m.CVaR))
	builder.WriteString(fmt.Sprintf("Expected IRR:      %s\n", pct(m.ExpectedIRR)))
	builder.WriteString(consolePayoff(res.PortfolioPayoff))

	if len(res.Debug.ObjectiveSearch) > 0 {
		builder.WriteString("\nObjective search:\n")
		for _, row := range res.Debug.ObjectiveSearch {
			builder.WriteString(fmt.Sprintf("  %-13s %.4f  %s\n", row.Objective, row.PortfolioScore, strings.Join(row.Selected, ", ")))
		}
	}
	return builder.String()
}

func consolePayoff(p summary.Payoff) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Expected payout:   %.2f (median %.2f)\n", p.ExpectedPayout, p.MedianPayout))
	builder.WriteString(fmt.Sprintf("Expected profit:   %.2f (median %.2f)\n", p.ExpectedProfit, p.MedianProfit))
	builder.WriteString(fmt.Sprintf("Profit VaR / CVaR: %.2f / %.2f\n", p.VaRProfit, p.CVaRProfit))
	builder.WriteString(fmt.Sprintf("Profit / |VaR|:    %.4f\n", p.RiskAdjustedProfit))
	return builder.String()
}

// ConsoleRunway formats a runway simulation with its monthly fan chart
func ConsoleRunway(res *runway.Result) string {
	var builder strings.Builder
	title := fmt.Sprintf("Runway (%d trials, %d months, seed %d)", res.Trials, res.Months, res.Seed)
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", len(title)) + "\n")
	builder.WriteString(fmt.Sprintf("Target MRR:        %.2f\n", res.TargetMRR))
	builder.WriteString(fmt.Sprintf("P(success):        %s\n", pct(res.ProbSuccess)))
	builder.WriteString(fmt.Sprintf("P(never broke):    %s\n", pct(res.ProbSurvive)))
	builder.WriteString(fmt.Sprintf("P(hit target):     %s\n", pct(res.ProbHitTarget)))

	if len(res.Sensitivity) > 0 {
		builder.WriteString("Sensitivity (corr with success):\n")
		for _, sens := range res.Sensitivity {
			builder.WriteString(fmt.Sprintf("  %-13s %+.3f\n", sens.Parameter, sens.Correlation))
		}
	}
	builder.WriteString("\n")

	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "month\tmrr_p10\tmrr_p50\tmrr_p90\tcash_p10\tcash_p50\tcash_p90\t")
	for t := range res.MRR.P50 {
		fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t\n", t,
			res.MRR.P10[t], res.MRR.P50[t], res.MRR.P90[t],
			res.Cash.P10[t], res.Cash.P50[t], res.Cash.P90[t])
	}
	tw.Flush()
	return builder.String()
}
