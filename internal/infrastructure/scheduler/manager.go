// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/goroutine"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

const reconcileTimeout = 30 * time.Minute

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items changed.
type BatchJob interface {
	Name() string
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the single gocron scheduler of the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// Cron expressions are evaluated in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterReconcileJob schedules job on the cron expression. Runs never overlap;
// a run that is still busy when the next one is due pushes it back.
func (m *SchedulerManager) RegisterReconcileJob(cron string, job BatchJob, runOnStart bool) error {
	options := []gocron.JobOption{
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("availability", "reconcile"),
		gocron.WithName(job.Name()),
	}
	if runOnStart {
		options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
			defer cancel()
			m.runBatch(ctx, job)
		}),
		options...,
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reconcile job", "job", job.Name(), "cron", cron, "run_on_start", runOnStart)
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, job BatchJob) {
	defer goroutine.Recover(m.logger, job.Name())

	m.logger.Debugw("batch job started", "job", job.Name())

	startTime := biztime.NowUTC()

	changed, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("batch job failed",
			"job", job.Name(),
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if changed > 0 {
		m.logger.Infow("batch job finished",
			"job", job.Name(),
			"changed", changed,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("batch job finished without changes",
			"job", job.Name(),
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler. Calling it twice is a no-op.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
