package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/model"
)

const defaultRecentSubmissionLimit = 50

// ErrMissingDatabase indicates the submission log was built without a database.
var ErrMissingDatabase = errors.New("storage: missing database")

// SubmissionLog stores relay attempts.
type SubmissionLog struct {
	database *gorm.DB
}

// NewSubmissionLog constructs a SubmissionLog over a migrated database.
func NewSubmissionLog(database *gorm.DB) (*SubmissionLog, error) {
	if database == nil {
		return nil, ErrMissingDatabase
	}
	return &SubmissionLog{database: database}, nil
}

// Append stores one submission.
func (log *SubmissionLog) Append(ctx context.Context, submission model.Submission) error {
	return log.database.WithContext(ctx).Create(&submission).Error
}

// Recent returns the latest submissions, newest first.
func (log *SubmissionLog) Recent(ctx context.Context, limit int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = defaultRecentSubmissionLimit
	}
	var submissions []model.Submission
	queryErr := log.database.WithContext(ctx).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, queryErr
}

// Prune deletes submissions older than the cutoff and reports how many were removed.
func (log *SubmissionLog) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result := log.database.WithContext(ctx).
		Where("submitted_at < ?", cutoff).
		Delete(&model.Submission{})
	return result.RowsAffected, result.Error
}
