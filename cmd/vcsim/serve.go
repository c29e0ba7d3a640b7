package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/venture-sim/internal/config"
	"github.com/yourusername/venture-sim/internal/health"
	"github.com/yourusername/venture-sim/internal/metrics"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/scheduler"
	"github.com/yourusername/venture-sim/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Re-evaluate the configured portfolio on a schedule and serve health, metrics and runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateEnvironment(cfg); err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}
		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
		}

		runner, err := service.NewRunner(engine, cfg.Runner, log)
		if err != nil {
			return err
		}
		defer runner.Close()

		// Re-read the config file on every tick so edited startups are picked up.
		specs := func() ([]models.StartupSpec, error) {
			fresh, err := config.LoadWithDefaults(configFile)
			if err != nil {
				return nil, err
			}
			list := fresh.StartupSpecs()
			return list, models.ValidateStartups(list)
		}

		sched := scheduler.NewScheduler(runner, log)
		if cfg.Runner.Schedule != "" {
			if _, err := sched.ScheduleReevaluation(cfg.Runner.Schedule, specs); err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		}

		metricsPath := ""
		if cfg.Metrics.Enabled {
			metricsPath = cfg.Metrics.Path
		}
		srv := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
			MetricsPath: metricsPath,
			Logger:      log,
			Runs:        runner,
			Checks: map[string]health.Checker{
				"portfolio": health.CheckerFunc(func(ctx context.Context) error {
					run, ok := runner.Latest()
					if !ok {
						return errors.New("no finished run yet")
					}
					if run.Status == service.StatusFailed {
						return fmt.Errorf("last run failed: %s", run.Error)
					}
					return nil
				}),
			},
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Start(ctx); err != nil {
			return err
		}
		srv.SetReady(true)

		if _, err := sched.Trigger(specs); err != nil {
			log.WithError(err).Warn("Initial evaluation not submitted")
		}

		log.WithFields(logrus.Fields{
			"schedule": cfg.Runner.Schedule,
			"port":     cfg.Metrics.Port,
		}).Info("Serving")
		<-ctx.Done()
		log.Info("Shutting down")
		return nil
	},
}
