// Package scheduler re-evaluates the configured portfolio on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/venture-sim/internal/models"
)

// Source is the run source recorded for scheduled submissions
const Source = "schedule"

// Submitter accepts portfolio runs
type Submitter interface {
	Submit(source string, specs []models.StartupSpec) (string, error)
}

// SpecsFunc supplies the startups to evaluate on each tick
type SpecsFunc func() ([]models.StartupSpec, error)

// Scheduler manages scheduled re-evaluation jobs
type Scheduler struct {
	cron            *cron.Cron
	submitter       Submitter
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(submitter Submitter, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		submitter:       submitter,
		logger:          log.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleReevaluation submits a run of the startups returned by specs on
// every tick of the cron expression
func (s *Scheduler) ScheduleReevaluation(cronExpression string, specs SpecsFunc) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if specs == nil {
		return 0, errors.New("specs function is required")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		s.submit(specs)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled portfolio re-evaluation")
	return entryID, nil
}

// Trigger submits a run immediately, outside the schedule
func (s *Scheduler) Trigger(specs SpecsFunc) (string, error) {
	return s.submit(specs)
}

func (s *Scheduler) submit(specs SpecsFunc) (string, error) {
	list, err := specs()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load startups for re-evaluation")
		return "", err
	}
	id, err := s.submitter.Submit(Source, list)
	if err != nil {
		s.logger.WithError(err).Warn("Scheduled re-evaluation not submitted")
		return "", err
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":   id,
		"startups": len(list),
	}).Info("Scheduled re-evaluation submitted")
	return id, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs up to the graceful timeout and stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", jobID).Info("Removed job")

	return nil
}
