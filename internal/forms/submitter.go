package forms

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/modal"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

const (
	statusClassSending = "text-yellow-400"
	statusClassSuccess = "text-green-400"
	statusClassFailure = "text-red-400"

	keyStatusSending      = "form_status_sending"
	keyStatusSuccess      = "form_status_success"
	keyStatusErrorGeneric = "form_status_error_generic"
	fallbackSending       = "Sending..."
	fallbackSuccess       = "Message sent successfully!"
	fallbackErrorGeneric  = "An unknown error occurred."

	// SuccessDisplayDuration is how long the contact form shows its success message.
	SuccessDisplayDuration = 5 * time.Second

	logEventRelayFailed     = "form_relay_failed"
	logEventTokenRefresh    = "form_token_refresh_failed"
	logEventRecordFailed    = "form_record_failed"
	logEventFormSubmitted   = "form_submitted"
	logEventFormInvalidForm = "form_unknown"
)

var ErrUnknownForm = errors.New("forms: unknown form")

// TokenKeeper holds the visitor's current security token.
type TokenKeeper interface {
	Token() string
	Refresh(ctx context.Context) error
}

// ModalSwitcher opens and closes modals.
type ModalSwitcher interface {
	Open(modalID string) error
	Close(modalID string, fromNavigation bool) error
}

// Attempt is one relay submission as recorded in the submission log.
type Attempt struct {
	VisitorID   string
	FormID      string
	PackageName string
	Outcome     Phase
	Message     string
	StatusCode  int
	At          time.Time
}

// Recorder keeps a log of relay attempts.
type Recorder interface {
	Record(ctx context.Context, attempt Attempt) error
}

// Submission is one form post by a visitor.
type Submission struct {
	VisitorID string
	Form      *Form
	Fields    url.Values
	Table     i18n.Table
	Language  string
	Client    *resty.Client
	Tokens    TokenKeeper
	Modals    ModalSwitcher
}

// Submitter runs the submission flow: sending, relay post, token refresh, outcome.
type Submitter struct {
	relay    *Relay
	recorder Recorder
	now      func() time.Time
	logger   *zap.Logger
}

// NewSubmitter constructs a Submitter. A nil recorder disables the submission log.
func NewSubmitter(relay *Relay, recorder Recorder, now func() time.Time, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Submitter{relay: relay, recorder: recorder, now: now, logger: logger}
}

// Submit posts the form and leaves it idle with the outcome in its status area.
func (submitter *Submitter) Submit(ctx context.Context, submission Submission) Phase {
	form := submission.Form
	if form == nil {
		submitter.logger.Warn(logEventFormInvalidForm)
		return PhaseFailure
	}
	table := submission.Table
	language := submission.Language

	form.Status = nil
	form.StatusClearAt = time.Time{}
	form.SubmitDisabled = true
	form.Phase = PhaseSending
	form.Status = &render.Status{Class: statusClassSending, Message: table.Text(language, keyStatusSending, fallbackSending)}

	fields := url.Values{}
	for name, values := range submission.Fields {
		fields[name] = append([]string(nil), values...)
	}
	if submission.Tokens != nil {
		fields.Set(TokenField, submission.Tokens.Token())
	}
	if form.ID == SubscriptionFormID && fields.Get(DateOfBirthField) != "" {
		fields.Set(DateOfBirthField, ConvertDateOfBirth(fields.Get(DateOfBirthField)))
	}

	client := submission.Client
	if client == nil {
		client = resty.New()
	}
	response, relayErr := submitter.relay.Post(ctx, client, fields)

	if submission.Tokens != nil {
		if refreshErr := submission.Tokens.Refresh(ctx); refreshErr != nil {
			submitter.logger.Warn(logEventTokenRefresh, zap.String("form_id", form.ID), zap.Error(refreshErr))
		}
	}

	outcome, message := submitter.classify(response, relayErr, table, language)
	if relayErr != nil {
		submitter.logger.Warn(logEventRelayFailed, zap.String("form_id", form.ID), zap.Error(relayErr))
	}

	if outcome == PhaseSuccess {
		form.Reset()
		if form.ID == SubscriptionFormID {
			if submission.Modals != nil {
				_ = submission.Modals.Close(modal.Subscribe, false)
				_ = submission.Modals.Open(modal.FormSuccess)
			}
		} else {
			form.Status = &render.Status{Class: statusClassSuccess, Message: message}
			form.StatusClearAt = submitter.now().Add(SuccessDisplayDuration)
		}
	} else {
		form.Status = &render.Status{Class: statusClassFailure, Message: message}
	}

	form.Outcome = outcome
	form.Phase = PhaseIdle
	if form.ID == SubscriptionFormID {
		form.SubmitDisabled = !form.TermsAccepted
	} else {
		form.SubmitDisabled = false
	}

	submitter.logger.Info(logEventFormSubmitted, zap.String("form_id", form.ID), zap.String("outcome", string(outcome)), zap.Int("status_code", response.StatusCode))
	submitter.record(ctx, Attempt{
		VisitorID:   submission.VisitorID,
		FormID:      form.ID,
		PackageName: fields.Get(PackageField),
		Outcome:     outcome,
		Message:     message,
		StatusCode:  response.StatusCode,
		At:          submitter.now(),
	})
	return outcome
}

func (submitter *Submitter) classify(response RelayResponse, relayErr error, table i18n.Table, language string) (Phase, string) {
	genericMessage := table.Text(language, keyStatusErrorGeneric, fallbackErrorGeneric)
	if relayErr != nil {
		return PhaseFailure, genericMessage
	}
	if !response.Success || !response.Envelope.Succeeded() {
		if response.Envelope.Message != "" {
			return PhaseFailure, response.Envelope.Message
		}
		return PhaseFailure, genericMessage
	}
	return PhaseSuccess, table.Text(language, keyStatusSuccess, fallbackSuccess)
}

func (submitter *Submitter) record(ctx context.Context, attempt Attempt) {
	if submitter.recorder == nil {
		return
	}
	if recordErr := submitter.recorder.Record(ctx, attempt); recordErr != nil {
		submitter.logger.Error(logEventRecordFailed, zap.String("form_id", attempt.FormID), zap.Error(recordErr))
	}
}

// SelectPackage prepares the subscription form for the package and opens the subscription modal.
func SelectPackage(form *Form, packageName string, modals ModalSwitcher) error {
	form.SelectedPackage = packageName
	form.Reset()
	form.SubmitDisabled = true
	if modals == nil {
		return nil
	}
	return modals.Open(modal.Subscribe)
}
