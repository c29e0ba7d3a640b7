// Package main provides the vcsim CLI: startup simulation, company ranking,
// portfolio construction and a scheduled re-evaluation server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/venture-sim/internal/config"
	"github.com/yourusername/venture-sim/internal/logger"
	"github.com/yourusername/venture-sim/internal/portfolio"
	"github.com/yourusername/venture-sim/internal/report"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	logLevel     string
	outputFormat string
	outputFile   string
	seedFlag     int64
	trialsFlag   int
	horizonFlag  float64

	log *logrus.Logger
	cfg *config.Config
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	flags.StringVar(&logLevel, "log-level", "", "Override the configured log level")
	flags.StringVarP(&outputFormat, "output", "o", "console", "Output format: console, json, csv, msgpack")
	flags.StringVarP(&outputFile, "out-file", "f", "", "Write output to a file instead of stdout")
	flags.Int64Var(&seedFlag, "seed", 0, "Random seed (0 draws a fresh seed)")
	flags.IntVarP(&trialsFlag, "trials", "n", 0, "Monte Carlo trials per startup")
	flags.Float64Var(&horizonFlag, "horizon", 0, "Holding horizon in years")

	rootCmd.AddCommand(simulateCmd, rankCmd, portfolioCmd, runwayCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:           "vcsim",
	Short:         "Simulate startup outcomes and build venture portfolios",
	Long:          `Runs Monte Carlo simulations of startup outcomes, ranks companies by risk and return, and allocates a budget across the best candidates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vcsim %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if flags.Changed("seed") {
		cfg.Portfolio.Seed = seedFlag
	}
	if trialsFlag > 0 {
		cfg.Portfolio.NSims = trialsFlag
	}
	if horizonFlag > 0 {
		cfg.Portfolio.HorizonYears = horizonFlag
	}

	// Logs go to stderr so reports on stdout stay machine-readable.
	log = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)
	return nil
}

// newEngine validates the full configuration and builds an engine
func newEngine() (*portfolio.Engine, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	pc, err := portfolio.FromConfig(&cfg.Portfolio)
	if err != nil {
		return nil, err
	}
	return portfolio.NewEngine(pc, log)
}

// writeOutput renders to the output file when set, stdout otherwise
func writeOutput(cmd *cobra.Command, render func(io.Writer, report.Format) error) error {
	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if outputFile != "" {
		if err := report.SaveFile(outputFile, func(w io.Writer) error { return render(w, format) }); err != nil {
			return err
		}
		log.WithField("path", outputFile).Info("Report written")
		return nil
	}
	if format == report.FormatMsgpack {
		return fmt.Errorf("msgpack output requires --out-file")
	}
	return render(cmd.OutOrStdout(), format)
}
