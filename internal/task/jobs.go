package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/storage"
)

// Job is one unit of background work.
type Job interface {
	Run(ctx context.Context) error
}

// ContentRefresher reloads the site content.
type ContentRefresher interface {
	Refresh(ctx context.Context) error
}

// ContentRefreshJob reloads content documents so edits appear without a restart.
type ContentRefreshJob struct {
	refresher ContentRefresher
}

// NewContentRefreshJob builds a ContentRefreshJob.
func NewContentRefreshJob(refresher ContentRefresher) *ContentRefreshJob {
	return &ContentRefreshJob{refresher: refresher}
}

func (job *ContentRefreshJob) Run(ctx context.Context) error {
	return job.refresher.Refresh(ctx)
}

// SessionSweeper drops visitor sessions idle since the cutoff.
type SessionSweeper interface {
	ExpireIdle(cutoff time.Time) int
}

// SessionSweepJob expires idle visitor sessions.
type SessionSweepJob struct {
	sweeper     SessionSweeper
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewSessionSweepJob builds a SessionSweepJob.
func NewSessionSweepJob(sweeper SessionSweeper, idleTimeout time.Duration, logger *zap.Logger) *SessionSweepJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionSweepJob{sweeper: sweeper, idleTimeout: idleTimeout, now: time.Now, logger: logger}
}

func (job *SessionSweepJob) Run(context.Context) error {
	expired := job.sweeper.ExpireIdle(job.now().Add(-job.idleTimeout))
	if expired > 0 {
		job.logger.Info("visitor_sessions_expired", zap.Int("count", expired))
	}
	return nil
}

// SubmissionRetentionConfig defines how long relay attempts are kept.
type SubmissionRetentionConfig struct {
	RetentionDays int
}

// SubmissionRetentionJob prunes old rows from the submission log.
type SubmissionRetentionJob struct {
	submissionLog *storage.SubmissionLog
	config        SubmissionRetentionConfig
	now           func() time.Time
	logger        *zap.Logger
}

// NewSubmissionRetentionJob builds a SubmissionRetentionJob.
func NewSubmissionRetentionJob(submissionLog *storage.SubmissionLog, config SubmissionRetentionConfig, logger *zap.Logger) *SubmissionRetentionJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionRetentionJob{submissionLog: submissionLog, config: config, now: time.Now, logger: logger}
}

func (job *SubmissionRetentionJob) Run(ctx context.Context) error {
	if job.config.RetentionDays <= 0 {
		return nil
	}
	cutoff := job.now().UTC().Add(-time.Duration(job.config.RetentionDays) * 24 * time.Hour)
	pruned, pruneErr := job.submissionLog.Prune(ctx, cutoff)
	if pruneErr != nil {
		return pruneErr
	}
	if pruned > 0 {
		job.logger.Info("submissions_pruned", zap.Int64("count", pruned))
	}
	return nil
}
