package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger records the lifecycle of background runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "runner"),
	}
}

// LogRunSubmitted logs a run accepted for background execution.
func (rl *RunLogger) LogRunSubmitted(runID, source string, startups int) {
	rl.WithFields(logrus.Fields{
		"run_id":   runID,
		"source":   source,
		"startups": startups,
	}).Info("Run submitted")
}

// LogRunCompleted logs a successful run.
func (rl *RunLogger) LogRunCompleted(runID, objective string, score float64, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"run_id":      runID,
		"objective":   objective,
		"score":       score,
		"duration_ms": duration.Milliseconds(),
	}).Info("Run completed")
}

// LogRunFailed logs a failed run.
func (rl *RunLogger) LogRunFailed(runID string, err error, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"run_id":      runID,
		"duration_ms": duration.Milliseconds(),
	}).WithError(err).Error("Run failed")
}

// LogRunThrottled logs a submission rejected by the rate limiter.
func (rl *RunLogger) LogRunThrottled(source string) {
	rl.WithField("source", source).Warn("Run submission throttled")
}
