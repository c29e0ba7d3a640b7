package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/venture-sim/internal/logger"
	"github.com/yourusername/venture-sim/internal/metrics"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/sampler"
	"github.com/yourusername/venture-sim/internal/scoring"
	"github.com/yourusername/venture-sim/internal/simulator"
	"github.com/yourusername/venture-sim/internal/summary"
)

// Engine runs the full pipeline: simulate, score, select, weight, allocate
type Engine struct {
	cfg    Config
	base   *logrus.Logger
	logger *logger.EngineLogger
}

// NewEngine validates cfg and creates an engine. A nil logger gets a default one.
func NewEngine(cfg Config, log *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		cfg:    cfg,
		base:   log,
		logger: logger.NewEngineLogger(log),
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluation is the simulated and scored candidate set of one run
type Evaluation struct {
	Seed    int64
	Specs   []models.StartupSpec
	Results []*simulator.Result
	Scored  []scoring.ScoredStartup
}

// Evaluate simulates every startup and scores it under the configured
// objective. Startup specs are validated before any simulation starts.
func (e *Engine) Evaluate(ctx context.Context, specs []models.StartupSpec) (*Evaluation, error) {
	if err := models.ValidateStartups(specs); err != nil {
		return nil, err
	}

	start := time.Now()
	seed := sampler.ResolveSeed(e.cfg.Seed)
	simCfg := e.cfg.Simulation()
	shocks, err := sampler.GenerateMacroShocks(
		sampler.NewStream(seed, sampler.StreamMacro), simCfg.Trials, simCfg.Months(), e.cfg.MacroShockSD)
	if err != nil {
		return nil, fmt.Errorf("failed to generate macro shocks: %w", err)
	}

	results, err := simulator.SimulateAll(ctx, specs, simCfg, seed, shocks, e.base)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	e.logger.LogSimulation(len(specs), simCfg.Trials, seed, time.Since(start).Milliseconds())

	scored, err := scoring.ScoreAll(specs, results, e.cfg.Objective, e.cfg.Penalties(), e.cfg.TargetROI)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Seed: seed, Specs: specs, Results: results, Scored: scored}, nil
}

// Run builds a portfolio from specs. Under the auto objective a portfolio is
// built for every concrete objective and the highest score wins, earlier
// objectives winning ties.
func (e *Engine) Run(ctx context.Context, specs []models.StartupSpec) (*Result, error) {
	start := time.Now()
	metrics.IncRunsInFlight()
	defer metrics.DecRunsInFlight()

	fail := func(err error) (*Result, error) {
		metrics.RecordPortfolioRun(e.cfg.Objective.String(), "failure", time.Since(start).Seconds())
		return nil, err
	}

	ev, err := e.Evaluate(ctx, specs)
	if err != nil {
		return fail(err)
	}

	objectives := []scoring.Objective{e.cfg.Objective}
	if e.cfg.Objective.IsAuto() {
		objectives = scoring.Objectives
	}

	var best *Result
	search := make([]ObjectiveRun, 0, len(objectives))
	for _, obj := range objectives {
		res, err := e.Build(ctx, ev, obj)
		if err != nil {
			return fail(fmt.Errorf("objective %s: %w", obj, err))
		}
		search = append(search, ObjectiveRun{
			Objective:      obj,
			PortfolioScore: res.PortfolioScore,
			Selected:       memberNames(res.Selected),
			Fallback:       res.Debug.Fallback,
		})
		if best == nil || res.PortfolioScore > best.PortfolioScore {
			best = res
		}
	}

	if e.cfg.Objective.IsAuto() {
		best.Debug.ObjectiveSearch = search
		scores := make(map[string]float64, len(search))
		for _, row := range search {
			scores[row.Objective.String()] = row.PortfolioScore
		}
		e.logger.LogObjectiveSearch(best.ObjectiveUsed.String(), scores)
	}

	metrics.RecordPortfolioRun(e.cfg.Objective.String(), "success", time.Since(start).Seconds())
	metrics.UpdatePortfolioScore(best.ObjectiveUsed.String(), best.PortfolioScore)
	metrics.UpdateSelectedStartups(len(best.Selected))
	e.logger.LogPortfolio(best.ObjectiveUsed.String(), best.PortfolioScore, best.Weights(),
		best.PortfolioMetrics.ExpectedROI, best.PortfolioMetrics.ProbROILt1)
	return best, nil
}

// Build selects, weights and allocates a portfolio from an evaluation under one
// concrete objective
func (e *Engine) Build(ctx context.Context, ev *Evaluation, obj scoring.Objective) (*Result, error) {
	pen := e.cfg.Penalties()
	scored, err := scoring.Rerank(ev.Scored, obj, pen)
	if err != nil {
		return nil, err
	}

	sel, err := Select(scored, e.cfg.Budget, e.cfg.MinTicket, e.cfg.K)
	if err != nil {
		return nil, err
	}
	e.logger.LogSelection(obj.String(), e.cfg.K, sel.Names(), sel.Skipped)

	samples := make([][]float64, len(sel.Members))
	mins := make([]float64, len(sel.Members))
	for i, m := range sel.Members {
		samples[i] = m.Result.ROI
		mins[i] = m.Spec.EffectiveMinTicket(e.cfg.MinTicket)
	}

	opt, err := NewOptimizer(e.cfg, obj)
	if err != nil {
		return nil, err
	}
	searchStart := time.Now()
	candidates, err := opt.Search(ctx, samples, sampler.NewStream(ev.Seed, sampler.StreamWeights))
	if err != nil {
		return nil, err
	}
	e.logger.LogOptimization(obj.String(), string(e.cfg.WeightMethod), len(candidates),
		candidates[0].Score, time.Since(searchStart).Milliseconds())

	alloc, err := Allocate(candidates, e.cfg.Budget, mins)
	if err != nil {
		return nil, err
	}
	if alloc.Rejected > 0 {
		metrics.RecordAllocationRejections(alloc.Rejected)
		e.logger.LogAllocationRejected(obj.String(), alloc.Rejected, alloc.Fallback)
	}

	// IRR uses the simulated month count so it matches the per-startup series.
	years := float64(e.cfg.Simulation().Months()) / 12
	port := Combine(samples, alloc.Weights, nil)
	pm := summary.SummarizeSamples(port, years, e.cfg.TargetROI)
	score, err := scoring.Score(obj, pm.Moments(), pen)
	if err != nil {
		return nil, err
	}

	tickets := alloc.TicketsFloat()
	invested := decimal.Zero
	members := make([]Member, len(sel.Members))
	singleScores := make(map[string]float64, len(scored))
	for i, m := range sel.Members {
		members[i] = Member{
			Name:          m.Name(),
			Weight:        alloc.Weights[i],
			Ticket:        tickets[i],
			MinTicket:     mins[i],
			SingleScore:   m.Score,
			SingleMetrics: m.Summary,
			Payoff:        summary.ComputePayoff(m.Result.ROI, tickets[i]),
			Priors:        m.Spec.Priors,
		}
		invested = invested.Add(alloc.Tickets[i])
	}
	for _, s := range scored {
		singleScores[s.Name()] = s.Score
	}

	candidateScores := make([]float64, len(candidates))
	for _, c := range candidates {
		candidateScores[c.Order] = c.Score
	}

	return &Result{
		ObjectiveUsed:    obj,
		PortfolioScore:   score,
		Selected:         members,
		RequestedK:       e.cfg.K,
		Insufficient:     sel.Insufficient(),
		Budget:           e.cfg.Budget,
		Invested:         invested.InexactFloat64(),
		PortfolioMetrics: pm,
		PortfolioPayoff:  summary.ComputePayoff(port, invested.InexactFloat64()),
		PortfolioSamples: port,
		Seed:             ev.Seed,
		Debug: Debug{
			KEffective:         len(members),
			Trials:             e.cfg.Trials,
			WeightMethod:       e.cfg.WeightMethod,
			CandidateScores:    candidateScores,
			BestCandidateScore: candidates[0].Score,
			RawWeights:         append([]float64{}, alloc.Candidate.Weights...),
			FinalWeights:       append([]float64{}, alloc.Weights...),
			RejectedCandidates: alloc.Rejected,
			Fallback:           alloc.Fallback,
			Skipped:            sel.Skipped,
			SingleScores:       singleScores,
		},
	}, nil
}

func memberNames(members []Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}
