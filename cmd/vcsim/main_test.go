package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/venture-sim/internal/portfolio"
	"github.com/yourusername/venture-sim/internal/ranking"
	"github.com/yourusername/venture-sim/internal/runway"
)

const testConfig = `
app:
  name: vcsim-test
  environment: development
  log_level: error
portfolio:
  objective: expected_roi
  budget: 500000
  min_ticket: 100000
  k: 2
  n_sims: 800
  horizon_years: 3
  weight_dirichlet_draws: 100
  seed: 3
  workers: 2
runway:
  seed: 5
  n_sims: 2000
startups:
  - name: Stable
    growth_mean: 0.45
    volatility_mean: 0.70
    failure_mean: 0.15
  - name: LongShot
    growth_mean: 0.90
    volatility_mean: 1.10
    failure_mean: 0.35
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	outputFormat, outputFile, logLevel = "console", "", ""
	seedFlag, trialsFlag, horizonFlag = 0, 0, 0

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestPortfolioCommandJSON(t *testing.T) {
	out := execute(t, "portfolio", "-o", "json")

	var res portfolio.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int64(3), res.Seed)
	assert.Len(t, res.Selected, 2)
	assert.LessOrEqual(t, res.Invested, res.Budget)
}

func TestRankSyntheticCommand(t *testing.T) {
	out := execute(t, "rank", "--synthetic", "5", "--top", "3", "--sort-by", "prob_10x", "-o", "json")

	var rows []ranking.Row
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Rank)
	assert.GreaterOrEqual(t, rows[0].Prob10x, rows[1].Prob10x)
}

func TestSimulateCommandConsole(t *testing.T) {
	out := execute(t, "simulate")
	assert.Contains(t, out, "Stable (800 trials, 3.0 years, seed 3)")
	assert.Contains(t, out, "LongShot")
}

func TestRunwayCommandJSON(t *testing.T) {
	out := execute(t, "runway", "--months", "6", "-n", "500", "-o", "json")

	var res runway.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int64(5), res.Seed)
	assert.Equal(t, 500, res.Trials)
	assert.Equal(t, 6, res.Months)
	assert.Len(t, res.MRR.P50, 7)
	assert.GreaterOrEqual(t, res.ProbSuccess, 0.0)
	assert.LessOrEqual(t, res.ProbSuccess, 1.0)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "vcsim dev")
}
