package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerWithOutputInvalidLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput("verbose", "json", buf)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNewLoggerWithOutputText(t *testing.T) {
	log := NewLoggerWithOutput("debug", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestEngineLoggerSimulation(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogSimulation(3, 5000, 42, 120)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "engine", logEntry["component"])
	assert.Equal(t, float64(5000), logEntry["trials"])
	assert.Equal(t, float64(42), logEntry["seed"])
}

func TestEngineLoggerSelectionWarnsWhenShort(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogSelection("expected_roi", 2, []string{"Stable"}, []string{"LongShot"})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, float64(2), logEntry["requested_k"])
}

func TestEngineLoggerAllocationFallback(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogAllocationRejected("prob_10x", 17, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, true, logEntry["fallback"])
}

func TestEngineLoggerNilBase(t *testing.T) {
	engineLogger := NewEngineLogger(nil)
	require.NotNil(t, engineLogger.Entry)
	assert.Equal(t, "engine", engineLogger.Data["component"])
}

func TestRunLoggerLifecycle(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRunFailed("run-1", errors.New("boom"), 2*time.Second)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "runner", logEntry["component"])
	assert.Equal(t, "run-1", logEntry["run_id"])
	assert.Equal(t, "boom", logEntry["error"])
	assert.Equal(t, float64(2000), logEntry["duration_ms"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	engineLogger := NewEngineLogger(log)

	engineLogger.LogPortfolio("expected_roi", 1.25, map[string]float64{"a": 0.6, "b": 0.4}, 2.1, 0.4)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkEngineLoggerOptimization(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.SetLevel(logrus.DebugLevel)
	engineLogger := NewEngineLogger(log)

	for i := 0; i < b.N; i++ {
		engineLogger.LogOptimization("expected_roi", "dirichlet", 10000, 1.5, 40)
	}
}
