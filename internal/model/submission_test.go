package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSubmissionNormalizesFields(testingT *testing.T) {
	submittedAt := time.Date(2026, time.May, 1, 8, 30, 0, 0, time.UTC)

	submission, submissionErr := NewSubmission(SubmissionInput{
		VisitorID:   " visitor-1 ",
		FormID:      " subscription-form ",
		PackageName: " Pro ",
		Outcome:     SubmissionOutcomeSuccess,
		Message:     " Message sent successfully! ",
		StatusCode:  200,
		SubmittedAt: submittedAt,
	})
	require.NoError(testingT, submissionErr)

	require.NotEmpty(testingT, submission.ID)
	require.Equal(testingT, "visitor-1", submission.VisitorID)
	require.Equal(testingT, "subscription-form", submission.FormID)
	require.Equal(testingT, "Pro", submission.PackageName)
	require.Equal(testingT, "Message sent successfully!", submission.Message)
	require.Equal(testingT, submittedAt, submission.SubmittedAt)
}

func TestNewSubmissionValidation(testingT *testing.T) {
	testCases := []struct {
		name          string
		input         SubmissionInput
		expectedError error
	}{
		{name: "missing form", input: SubmissionInput{Outcome: SubmissionOutcomeSuccess}, expectedError: ErrInvalidSubmissionFormID},
		{name: "unknown outcome", input: SubmissionInput{FormID: "contact-form", Outcome: "pending"}, expectedError: ErrInvalidSubmissionOutcome},
		{name: "long package", input: SubmissionInput{FormID: "contact-form", Outcome: SubmissionOutcomeFailure, PackageName: strings.Repeat("p", 201)}, expectedError: ErrInvalidSubmissionField},
	}
	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			_, submissionErr := NewSubmission(testCase.input)
			require.ErrorIs(testingT, submissionErr, testCase.expectedError)
		})
	}
}

func TestNewSubmissionTruncatesLongMessage(testingT *testing.T) {
	submission, submissionErr := NewSubmission(SubmissionInput{
		FormID:  "contact-form",
		Outcome: SubmissionOutcomeFailure,
		Message: strings.Repeat("m", 1200),
	})
	require.NoError(testingT, submissionErr)
	require.Len(testingT, submission.Message, 1000)
	require.False(testingT, submission.SubmittedAt.IsZero())
}
