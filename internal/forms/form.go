package forms

import (
	"time"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

// Form identifiers and the status areas they report into.
const (
	ContactFormID          = "contact-form"
	SubscriptionFormID     = "subscription-form"
	ContactStatusID        = "contact-status"
	SubscriptionStatusID   = "subscription-status"
	DateOfBirthField       = "dob"
	PackageField           = "package"
	TokenField             = "csrf_token"
	dateOfBirthInputLayout = "2006-01-02"
	dateOfBirthRelayLayout = "02/01/2006"
)

// Phase is the submission state of a form.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseSending Phase = "sending"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// Form is the state of one form for one visitor.
type Form struct {
	ID       string
	StatusID string
	Phase    Phase
	// Outcome is the phase the last submission ended in.
	Outcome         Phase
	Status          *render.Status
	StatusClearAt   time.Time
	SubmitDisabled  bool
	TermsAccepted   bool
	SelectedPackage string
}

// NewContactForm returns the idle contact form.
func NewContactForm() *Form {
	return &Form{ID: ContactFormID, StatusID: ContactStatusID, Phase: PhaseIdle}
}

// NewSubscriptionForm returns the idle subscription form, gated by the terms checkbox.
func NewSubscriptionForm() *Form {
	return &Form{ID: SubscriptionFormID, StatusID: SubscriptionStatusID, Phase: PhaseIdle, SubmitDisabled: true}
}

// ActiveStatus returns the status message unless its display time has passed.
func (form *Form) ActiveStatus(now time.Time) *render.Status {
	if form.Status == nil {
		return nil
	}
	if !form.StatusClearAt.IsZero() && !now.Before(form.StatusClearAt) {
		return nil
	}
	return form.Status
}

// SetTermsAccepted updates the terms checkbox and the submit control it gates.
func (form *Form) SetTermsAccepted(accepted bool) {
	form.TermsAccepted = accepted
	if form.ID == SubscriptionFormID {
		form.SubmitDisabled = !accepted
	}
}

// Reset clears the inputs the visitor typed and the status area.
func (form *Form) Reset() {
	form.Status = nil
	form.StatusClearAt = time.Time{}
	form.TermsAccepted = false
}

// ConvertDateOfBirth rewrites YYYY-MM-DD as DD/MM/YYYY. Other values pass through unchanged.
func ConvertDateOfBirth(raw string) string {
	parsed, parseErr := time.Parse(dateOfBirthInputLayout, raw)
	if parseErr != nil {
		return raw
	}
	return parsed.Format(dateOfBirthRelayLayout)
}
