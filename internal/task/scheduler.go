// Package task runs the site's housekeeping jobs on an interval.
package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultSchedulerInterval = time.Minute

	logEventTaskStarted   = "task_started"
	logEventTaskFailed    = "task_failed"
	logEventTaskRecovered = "task_recovered"
	logEventTaskRun       = "task_run"
)

// Schedule names a job and how often it runs.
type Schedule struct {
	Name     string
	Interval time.Duration
	// RunOnStart runs the job once as soon as the scheduler starts.
	RunOnStart bool
}

// Scheduler runs one job on a fixed interval until stopped. Runs never
// overlap; a failing job is retried at the next tick.
type Scheduler struct {
	schedule Schedule
	job      Job
	logger   *zap.Logger

	controlMutex sync.Mutex
	cancel       context.CancelFunc
	done         chan struct{}

	consecutiveFailures int
}

func NewScheduler(schedule Schedule, job Job, logger *zap.Logger) *Scheduler {
	if schedule.Interval <= 0 {
		schedule.Interval = defaultSchedulerInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   logger.With(zap.String("task", schedule.Name)),
	}
}

// Name returns the scheduled job's name.
func (scheduler *Scheduler) Name() string {
	if scheduler == nil {
		return ""
	}
	return scheduler.schedule.Name
}

func (scheduler *Scheduler) Start(ctx context.Context) {
	if scheduler == nil || scheduler.job == nil {
		return
	}
	scheduler.controlMutex.Lock()
	if scheduler.cancel != nil {
		scheduler.controlMutex.Unlock()
		return
	}
	runtimeCtx, cancel := context.WithCancel(ctx)
	scheduler.cancel = cancel
	done := make(chan struct{})
	scheduler.done = done
	scheduler.controlMutex.Unlock()

	scheduler.logger.Info(logEventTaskStarted, zap.Duration("interval", scheduler.schedule.Interval), zap.Bool("run_on_start", scheduler.schedule.RunOnStart))
	go scheduler.loop(runtimeCtx, done)
}

func (scheduler *Scheduler) Stop() {
	if scheduler == nil {
		return
	}
	scheduler.controlMutex.Lock()
	cancel := scheduler.cancel
	done := scheduler.done
	scheduler.cancel = nil
	scheduler.done = nil
	scheduler.controlMutex.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (scheduler *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(scheduler.schedule.Interval)
	defer ticker.Stop()

	if scheduler.schedule.RunOnStart {
		scheduler.run(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scheduler.run(ctx)
		}
	}
}

func (scheduler *Scheduler) run(ctx context.Context) {
	if scheduler.job == nil || ctx.Err() != nil {
		return
	}
	startedAt := time.Now()
	runErr := scheduler.job.Run(ctx)
	elapsed := time.Since(startedAt)

	if runErr != nil {
		scheduler.consecutiveFailures++
		scheduler.logger.Warn(logEventTaskFailed, zap.Int("consecutive_failures", scheduler.consecutiveFailures), zap.Duration("elapsed", elapsed), zap.Error(runErr))
		return
	}
	if scheduler.consecutiveFailures > 0 {
		scheduler.logger.Info(logEventTaskRecovered, zap.Int("failed_runs", scheduler.consecutiveFailures))
		scheduler.consecutiveFailures = 0
	}
	scheduler.logger.Debug(logEventTaskRun, zap.Duration("elapsed", elapsed))
}
