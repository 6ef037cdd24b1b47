package site

import (
	"context"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/forms"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/model"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/storage"
)

// SubmissionRecorder writes relay attempts to the submission log.
type SubmissionRecorder struct {
	log *storage.SubmissionLog
}

// NewSubmissionRecorder constructs a SubmissionRecorder.
func NewSubmissionRecorder(submissionLog *storage.SubmissionLog) *SubmissionRecorder {
	return &SubmissionRecorder{log: submissionLog}
}

// Record converts the attempt into a submission row.
func (recorder *SubmissionRecorder) Record(ctx context.Context, attempt forms.Attempt) error {
	outcome := model.SubmissionOutcomeFailure
	if attempt.Outcome == forms.PhaseSuccess {
		outcome = model.SubmissionOutcomeSuccess
	}
	submission, submissionErr := model.NewSubmission(model.SubmissionInput{
		VisitorID:   attempt.VisitorID,
		FormID:      attempt.FormID,
		PackageName: attempt.PackageName,
		Outcome:     outcome,
		Message:     attempt.Message,
		StatusCode:  attempt.StatusCode,
		SubmittedAt: attempt.At,
	})
	if submissionErr != nil {
		return submissionErr
	}
	return recorder.log.Append(ctx, submission)
}
