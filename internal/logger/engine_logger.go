package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for portfolio engine runs.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger. A nil base logger gets a default one.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogSimulation logs completion of the per-startup simulations.
func (el *EngineLogger) LogSimulation(startups, trials int, seed int64, durationMs int64) {
	el.WithFields(logrus.Fields{
		"startups":    startups,
		"trials":      trials,
		"seed":        seed,
		"duration_ms": durationMs,
	}).Info("Startup simulations completed")
}

// LogSelection logs the subset chosen under an objective.
func (el *EngineLogger) LogSelection(objective string, requestedK int, selected []string, skipped []string) {
	fields := logrus.Fields{
		"objective":   objective,
		"requested_k": requestedK,
		"selected":    selected,
		"skipped":     skipped,
	}
	if len(selected) < requestedK {
		el.WithFields(fields).Warn("Fewer startups fit the budget than requested")
		return
	}
	el.WithFields(fields).Debug("Startups selected")
}

// LogOptimization logs the outcome of a weight search.
func (el *EngineLogger) LogOptimization(objective, method string, candidates int, bestScore float64, durationMs int64) {
	el.WithFields(logrus.Fields{
		"objective":   objective,
		"method":      method,
		"candidates":  candidates,
		"best_score":  bestScore,
		"duration_ms": durationMs,
	}).Debug("Weight search completed")
}

// LogObjectiveSearch logs the auto-mode comparison table.
func (el *EngineLogger) LogObjectiveSearch(chosen string, scores map[string]float64) {
	el.WithFields(logrus.Fields{
		"chosen": chosen,
		"scores": scores,
	}).Info("Objective search completed")
}

// LogAllocationRejected logs weight candidates dropped for violating ticket constraints.
func (el *EngineLogger) LogAllocationRejected(objective string, rejected int, fallback bool) {
	entry := el.WithFields(logrus.Fields{
		"objective": objective,
		"rejected":  rejected,
		"fallback":  fallback,
	})
	if fallback {
		entry.Warn("No weight candidate met minimum tickets, projected best candidate")
		return
	}
	entry.Debug("Weight candidates rejected by ticket constraints")
}

// LogPortfolio logs the final allocation.
func (el *EngineLogger) LogPortfolio(objective string, score float64, weights map[string]float64, expectedROI, probLoss float64) {
	el.WithFields(logrus.Fields{
		"objective":     objective,
		"score":         score,
		"weights":       weights,
		"expected_roi":  expectedROI,
		"prob_roi_lt_1": probLoss,
	}).Info("Portfolio built")
}
