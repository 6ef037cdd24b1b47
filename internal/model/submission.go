package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionOutcomeSuccess = "success"
	SubmissionOutcomeFailure = "failure"

	submissionFormIDMaxLength  = 64
	submissionPackageMaxLength = 200
	submissionMessageMaxLength = 1000
	submissionVisitorMaxLength = 36
)

var (
	ErrInvalidSubmissionFormID  = errors.New("invalid_submission_form_id")
	ErrInvalidSubmissionOutcome = errors.New("invalid_submission_outcome")
	ErrInvalidSubmissionField   = errors.New("invalid_submission_field")
)

// Submission records one form post relayed to the mail relay.
type Submission struct {
	ID          string    `gorm:"primaryKey;size:36"`
	VisitorID   string    `gorm:"size:36;index"`
	FormID      string    `gorm:"not null;size:64;index"`
	PackageName string    `gorm:"size:200"`
	Outcome     string    `gorm:"not null;size:16;index"`
	Message     string    `gorm:"size:1000"`
	StatusCode  int       `gorm:"not null;default:0"`
	SubmittedAt time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// SubmissionInput holds the raw values used to construct a Submission.
type SubmissionInput struct {
	VisitorID   string
	FormID      string
	PackageName string
	Outcome     string
	Message     string
	StatusCode  int
	SubmittedAt time.Time
}

// NewSubmission constructs a Submission with validated, normalized fields.
func NewSubmission(input SubmissionInput) (Submission, error) {
	formID := strings.TrimSpace(input.FormID)
	if formID == "" || len(formID) > submissionFormIDMaxLength {
		return Submission{}, ErrInvalidSubmissionFormID
	}

	outcome := strings.TrimSpace(input.Outcome)
	if outcome != SubmissionOutcomeSuccess && outcome != SubmissionOutcomeFailure {
		return Submission{}, fmt.Errorf("%w: %s", ErrInvalidSubmissionOutcome, outcome)
	}

	visitorID := strings.TrimSpace(input.VisitorID)
	if len(visitorID) > submissionVisitorMaxLength {
		return Submission{}, fmt.Errorf("%w: visitor_id too long", ErrInvalidSubmissionField)
	}

	packageName := strings.TrimSpace(input.PackageName)
	if len(packageName) > submissionPackageMaxLength {
		return Submission{}, fmt.Errorf("%w: package_name too long", ErrInvalidSubmissionField)
	}

	message := strings.TrimSpace(input.Message)
	if len(message) > submissionMessageMaxLength {
		message = message[:submissionMessageMaxLength]
	}

	submittedAt := input.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	return Submission{
		ID:          uuid.NewString(),
		VisitorID:   visitorID,
		FormID:      formID,
		PackageName: packageName,
		Outcome:     outcome,
		Message:     message,
		StatusCode:  input.StatusCode,
		SubmittedAt: submittedAt,
	}, nil
}
