// Package service runs portfolio builds in the background and keeps their
// outcomes for a limited time.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/venture-sim/internal/config"
	"github.com/yourusername/venture-sim/internal/logger"
	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/portfolio"
)

// Status is the lifecycle state of a run
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Done reports whether the run has finished
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is a snapshot of one background run
type Run struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Status      Status            `json:"status"`
	Startups    int               `json:"startups"`
	SubmittedAt time.Time         `json:"submitted_at"`
	StartedAt   time.Time         `json:"started_at,omitempty"`
	FinishedAt  time.Time         `json:"finished_at,omitempty"`
	Result      *portfolio.Result `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	Err         error             `json:"-"`
}

// Duration returns how long the run took, zero while it is unfinished
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

type job struct {
	mu   sync.RWMutex
	run  Run
	done chan struct{}
}

func (j *job) snapshot() Run {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.run
}

// Runner executes engine runs on background goroutines
type Runner struct {
	engine  *portfolio.Engine
	runs    *cache.Cache
	limiter *rate.Limiter
	ttl     time.Duration
	timeout time.Duration
	logger  *logger.RunLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner around an engine. Finished runs expire after the
// configured TTL; pending runs never expire.
func NewRunner(engine *portfolio.Engine, cfg config.RunnerConfig, log *logrus.Logger) (*Runner, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.ResultTTLSeconds <= 0 {
		return nil, models.NewConfigurationError("runner.result_ttl_seconds", "must be positive")
	}
	if cfg.RunTimeoutSeconds <= 0 {
		return nil, models.NewConfigurationError("runner.run_timeout_seconds", "must be positive")
	}
	if log == nil {
		log = logrus.New()
	}

	limit := rate.Inf
	burst := 1
	if cfg.MaxRunsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.MaxRunsPerMinute))
		burst = cfg.MaxRunsPerMinute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		engine:  engine,
		runs:    cache.New(cfg.ResultTTL(), 2*cfg.ResultTTL()),
		limiter: rate.NewLimiter(limit, burst),
		ttl:     cfg.ResultTTL(),
		timeout: cfg.RunTimeout(),
		logger:  logger.NewRunLogger(log),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Submit validates specs and starts a run in the background, returning its ID
func (r *Runner) Submit(source string, specs []models.StartupSpec) (string, error) {
	if err := r.ctx.Err(); err != nil {
		return "", fmt.Errorf("runner closed: %w", err)
	}
	if err := models.ValidateStartups(specs); err != nil {
		return "", err
	}
	if !r.limiter.Allow() {
		r.logger.LogRunThrottled(source)
		return "", models.ErrRunThrottled
	}

	id := uuid.NewString()
	j := &job{
		run: Run{
			ID:          id,
			Source:      source,
			Status:      StatusPending,
			Startups:    len(specs),
			SubmittedAt: time.Now().UTC(),
		},
		done: make(chan struct{}),
	}
	r.runs.Set(id, j, cache.NoExpiration)
	r.logger.LogRunSubmitted(id, source, len(specs))

	owned := make([]models.StartupSpec, len(specs))
	copy(owned, specs)

	r.wg.Add(1)
	go r.execute(j, owned)
	return id, nil
}

func (r *Runner) execute(j *job, specs []models.StartupSpec) {
	defer r.wg.Done()
	defer close(j.done)

	j.mu.Lock()
	j.run.Status = StatusRunning
	j.run.StartedAt = time.Now().UTC()
	id := j.run.ID
	j.mu.Unlock()

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	res, err := r.engine.Run(ctx, specs)

	j.mu.Lock()
	j.run.FinishedAt = time.Now().UTC()
	if err != nil {
		j.run.Status = StatusFailed
		j.run.Err = err
		j.run.Error = err.Error()
	} else {
		j.run.Status = StatusCompleted
		j.run.Result = res
	}
	run := j.run
	j.mu.Unlock()

	r.runs.Set(id, j, r.ttl)
	if err != nil {
		r.logger.LogRunFailed(id, err, run.Duration())
		return
	}
	r.logger.LogRunCompleted(id, res.ObjectiveUsed.String(), res.PortfolioScore, run.Duration())
}

func (r *Runner) lookup(id string) (*job, error) {
	v, ok := r.runs.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrRunNotFound, id)
	}
	return v.(*job), nil
}

// Get returns the current snapshot of a run
func (r *Runner) Get(id string) (Run, error) {
	j, err := r.lookup(id)
	if err != nil {
		return Run{}, err
	}
	return j.snapshot(), nil
}

// Wait blocks until the run finishes or ctx is done
func (r *Runner) Wait(ctx context.Context, id string) (Run, error) {
	j, err := r.lookup(id)
	if err != nil {
		return Run{}, err
	}
	select {
	case <-j.done:
		return j.snapshot(), nil
	case <-ctx.Done():
		return j.snapshot(), ctx.Err()
	}
}

// List returns snapshots of every retained run, oldest first
func (r *Runner) List() []Run {
	items := r.runs.Items()
	runs := make([]Run, 0, len(items))
	for _, item := range items {
		runs = append(runs, item.Object.(*job).snapshot())
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].SubmittedAt.Equal(runs[j].SubmittedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].SubmittedAt.Before(runs[j].SubmittedAt)
	})
	return runs
}

// Latest returns the most recently finished run, if any
func (r *Runner) Latest() (Run, bool) {
	var latest Run
	found := false
	for _, run := range r.List() {
		if !run.Status.Done() {
			continue
		}
		if !found || run.FinishedAt.After(latest.FinishedAt) {
			latest = run
			found = true
		}
	}
	return latest, found
}

// Close cancels in-flight runs and waits for their goroutines to exit
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}
