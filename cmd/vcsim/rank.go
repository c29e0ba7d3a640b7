package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/portfolio"
	"github.com/yourusername/venture-sim/internal/ranking"
	"github.com/yourusername/venture-sim/internal/report"
)

var (
	sortBy    string
	topN      int
	synthetic int
)

func init() {
	flags := rankCmd.Flags()
	flags.StringVar(&sortBy, "sort-by", string(ranking.SortExpectedROI), "Ranking metric: expected_roi, median_roi, prob_roi_lt_1, prob_3x, prob_10x, score, objective")
	flags.IntVar(&topN, "top", 0, "Show only the first N companies")
	flags.IntVar(&synthetic, "synthetic", 0, "Rank N synthetic companies instead of the configured startups")
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank startups by a risk or return metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := ranking.ParseSortKey(sortBy)
		if err != nil {
			return err
		}

		var specs []models.StartupSpec
		var engine *portfolio.Engine
		if synthetic > 0 {
			pc, err := portfolio.FromConfig(&cfg.Portfolio)
			if err != nil {
				return err
			}
			if specs, err = ranking.Synthetic(synthetic, pc.Seed); err != nil {
				return err
			}
			if engine, err = portfolio.NewEngine(pc, log); err != nil {
				return err
			}
		} else {
			if engine, err = newEngine(); err != nil {
				return err
			}
			specs = cfg.StartupSpecs()
		}

		ev, err := engine.Evaluate(cmd.Context(), specs)
		if err != nil {
			return err
		}
		rows := ranking.Top(ranking.Rank(ev.Scored, key), topN)
		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			return report.WriteRanking(w, f, rows)
		})
	},
}
