package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/venture-sim/internal/report"
	"github.com/yourusername/venture-sim/internal/runway"
)

var (
	runwayMonths    int
	runwayTargetMRR float64
	runwayCash      float64
	runwayBurn      float64
)

func init() {
	flags := runwayCmd.Flags()
	flags.IntVar(&runwayMonths, "months", 0, "Months to simulate")
	flags.Float64Var(&runwayTargetMRR, "target-mrr", 0, "MRR that counts as success")
	flags.Float64Var(&runwayCash, "cash", 0, "Starting cash")
	flags.Float64Var(&runwayBurn, "burn", 0, "Baseline monthly burn")
}

var runwayCmd = &cobra.Command{
	Use:   "runway",
	Short: "Simulate cash runway and MRR growth of a single operating company",
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := cfg.Runway
		flags := cmd.Flags()
		if flags.Changed("seed") {
			rc.Seed = seedFlag
		}
		if trialsFlag > 0 {
			rc.NSims = trialsFlag
		}
		if runwayMonths > 0 {
			rc.Months = runwayMonths
		}
		if flags.Changed("target-mrr") {
			rc.TargetMRR = runwayTargetMRR
		}
		if flags.Changed("cash") {
			rc.Cash0 = runwayCash
		}
		if flags.Changed("burn") {
			rc.Burn0 = runwayBurn
		}

		params, err := runway.FromConfig(&rc)
		if err != nil {
			return err
		}
		res, err := runway.Run(cmd.Context(), params, log)
		if err != nil {
			return err
		}
		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			return report.WriteRunway(w, f, res)
		})
	},
}
