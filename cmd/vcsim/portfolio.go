package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/venture-sim/internal/report"
)

var (
	objectiveFlag string
	kFlag         int
	budgetFlag    float64
	methodFlag    string
)

func init() {
	flags := portfolioCmd.Flags()
	flags.StringVar(&objectiveFlag, "objective", "", "Objective: expected_roi, expected_log, prob_target, prob_10x, auto")
	flags.IntVar(&kFlag, "k", 0, "Number of startups to select")
	flags.Float64Var(&budgetFlag, "budget", 0, "Total budget to allocate")
	flags.StringVar(&methodFlag, "method", "", "Weight method: dirichlet, equal, grid")
	flags.BoolVar(&includeSamples, "samples", false, "Include portfolio ROI samples in json/msgpack output")
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Select, weight and allocate a portfolio of the configured startups",
	RunE: func(cmd *cobra.Command, args []string) error {
		if objectiveFlag != "" {
			cfg.Portfolio.Objective = objectiveFlag
		}
		if kFlag > 0 {
			cfg.Portfolio.K = kFlag
		}
		if budgetFlag > 0 {
			cfg.Portfolio.Budget = budgetFlag
		}
		if methodFlag != "" {
			cfg.Portfolio.WeightMethod = methodFlag
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}
		res, err := engine.Run(cmd.Context(), cfg.StartupSpecs())
		if err != nil {
			return err
		}
		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			return report.WritePortfolio(w, f, res, includeSamples)
		})
	},
}
