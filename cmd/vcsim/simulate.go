package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/venture-sim/internal/report"
)

var includeSamples bool

func init() {
	simulateCmd.Flags().BoolVar(&includeSamples, "samples", false, "Include per-trial ROI samples in json/msgpack output")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate every configured startup and summarize its outcome distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		ev, err := engine.Evaluate(cmd.Context(), cfg.StartupSpecs())
		if err != nil {
			return err
		}

		reports := make([]report.StartupReport, len(ev.Scored))
		for i, s := range ev.Scored {
			reports[i] = report.StartupReport{Name: s.Name(), Seed: ev.Seed, Summary: s.Summary}
			if includeSamples {
				reports[i].ROI = ev.Results[i].ROI
			}
		}
		return writeOutput(cmd, func(w io.Writer, f report.Format) error {
			return report.WriteSummaries(w, f, reports)
		})
	},
}
