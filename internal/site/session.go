package site

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/forms"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/modal"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

const (
	logEventSecurityTokenFailed = "security_token_failed"
	logEventSessionStarted      = "visitor_session_started"
)

// Session is the state of one visitor: security token, open modal, form states.
type Session struct {
	mutex sync.Mutex

	id          string
	application *Application
	client      *resty.Client
	tokens      *content.TokenSource
	token       string
	fatal       bool
	lastSeen    time.Time

	modals         *modal.Controller
	contactForm    *forms.Form
	subscription   *forms.Form
	formTokens     map[string]string
	coverageResult *render.CoverageResult
	invalidUserID  bool
}

func newSession(visitorID string, application *Application, client *resty.Client, tokens *content.TokenSource) *Session {
	session := &Session{
		id:           visitorID,
		application:  application,
		client:       client,
		tokens:       tokens,
		contactForm:  forms.NewContactForm(),
		subscription: forms.NewSubscriptionForm(),
		formTokens:   make(map[string]string),
		lastSeen:     application.Now(),
	}
	session.modals = modal.NewController(modal.Definitions(), modal.NewMemoryHistory(), session, application.logger)
	return session
}

// ID returns the visitor identifier.
func (session *Session) ID() string {
	return session.id
}

// Start fetches the first security token. Without one the session is fatal and renders only the security notice.
func (session *Session) Start(ctx context.Context) error {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	if refreshErr := session.Refresh(ctx); refreshErr != nil {
		session.fatal = true
		session.application.logger.Error(logEventSecurityTokenFailed, zap.String("visitor_id", session.id), zap.Error(refreshErr))
		return refreshErr
	}
	session.application.logger.Debug(logEventSessionStarted, zap.String("visitor_id", session.id))
	return nil
}

// Fatal reports whether the session could not be initialized.
func (session *Session) Fatal() bool {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	return session.fatal
}

// Token returns the current security token. Callers hold the session lock.
func (session *Session) Token() string {
	return session.token
}

// Refresh replaces the security token. Callers hold the session lock.
func (session *Session) Refresh(ctx context.Context) error {
	token, tokenErr := session.tokens.FetchToken(ctx)
	if tokenErr != nil {
		return tokenErr
	}
	session.token = token
	return nil
}

// BindToken records the current token as the value of the form's csrf_token field.
func (session *Session) BindToken(formID string) {
	if session.token == "" {
		return
	}
	session.formTokens[formID] = session.token
}

func (session *Session) touch() {
	session.lastSeen = session.application.Now()
}

// LastSeen returns when the visitor last interacted.
func (session *Session) LastSeen() time.Time {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	return session.lastSeen
}

// Render builds the page for the visitor's state.
func (session *Session) Render(state preferences.State) ([]byte, error) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	if session.fatal {
		return render.Fatal(render.SecurityErrorNotice)
	}
	store := session.application.Store()
	if store == nil {
		notice := render.InitializationFailedNotice
		notice.Detail = ErrTranslationsMissing.Error()
		return render.Fatal(notice)
	}
	now := session.application.Now()
	statuses := make(map[string]render.Status)
	for _, form := range []*forms.Form{session.contactForm, session.subscription} {
		if status := form.ActiveStatus(now); status != nil {
			statuses[form.StatusID] = *status
		}
	}
	formTokens := make(map[string]string, len(session.formTokens))
	for formID, token := range session.formTokens {
		formTokens[formID] = token
	}
	return session.application.page.Render(render.PageInput{
		Store:           store,
		Language:        string(state.Language),
		Theme:           string(state.Theme),
		Now:             now,
		FormTokens:      formTokens,
		OpenModals:      session.modals.OpenModals(),
		Policy:          session.modals.PolicyView(),
		Statuses:        statuses,
		SelectedPackage: session.subscription.SelectedPackage,
		TermsAccepted:   session.subscription.TermsAccepted,
		SubmitDisabled:  session.subscription.SubmitDisabled,
		CoverageResult:  session.coverageResult,
		InvalidUserID:   session.invalidUserID,

		RevealGeneration: state.RevealGeneration,
	})
}

// OpenModal opens the modal.
func (session *Session) OpenModal(modalID string) error {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	return session.modals.Open(modalID)
}

// CloseModal closes the modal explicitly.
func (session *Session) CloseModal(modalID string) error {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	return session.modals.Close(modalID, false)
}

// HandleEscape closes the open modal.
func (session *Session) HandleEscape() {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	session.modals.HandleEscape()
}

// HandleOutsideClick closes a primary modal clicked outside of its content.
func (session *Session) HandleOutsideClick(modalID string) bool {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	return session.modals.HandleOutsideClick(modalID)
}

// HandleBackNavigation closes the open modal after the browser went back.
func (session *Session) HandleBackNavigation() {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	session.modals.HandleBackNavigation()
}

// ShowPolicy opens the policy modal with the policy in the language.
func (session *Session) ShowPolicy(policyKey string, language preferences.Language) bool {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	store := session.application.Store()
	if store == nil {
		return false
	}
	return session.modals.ShowPolicy(store, policyKey, string(language))
}

// OpenModalID returns the open modal.
func (session *Session) OpenModalID() (string, bool) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	return session.modals.OpenModal()
}

// HistoryLen is the length of the visitor's modal navigation history.
func (session *Session) HistoryLen() int {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	return session.modals.HistoryLen()
}

// Checkout returns the quick-pay address for the customer. A blank id flags the input as invalid.
func (session *Session) Checkout(userID string) (string, error) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	var contacts map[string]string
	if store := session.application.Store(); store != nil {
		contacts = store.Contacts
	}
	checkoutURL, checkoutErr := modal.CheckoutURL(userID, contacts)
	session.invalidUserID = checkoutErr != nil
	return checkoutURL, checkoutErr
}

// SelectPackage prepares the subscription form for the package and opens it.
func (session *Session) SelectPackage(packageName string) error {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	return forms.SelectPackage(session.subscription, packageName, session.modals)
}

// SetTermsAccepted follows the terms checkbox of the subscription form.
func (session *Session) SetTermsAccepted(accepted bool) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	session.subscription.SetTermsAccepted(accepted)
}

// CheckCoverage resolves the area and keeps the result for rendering. An empty selection changes nothing.
func (session *Session) CheckCoverage(language preferences.Language, area string) (render.CoverageResult, bool) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()
	store := session.application.Store()
	if store == nil || !store.Has(content.KeyCoverage) {
		return render.CoverageResult{}, false
	}
	result, checked := render.CheckCoverage(store.Coverage, store.Translations, string(language), area)
	if checked {
		session.coverageResult = &result
	}
	return result, checked
}

// Submit relays the form. It holds the session for the whole flow so a visitor's submissions never overlap.
func (session *Session) Submit(ctx context.Context, formID string, fields url.Values, language preferences.Language) (forms.Phase, *render.Status, error) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.touch()

	var form *forms.Form
	switch formID {
	case forms.ContactFormID:
		form = session.contactForm
	case forms.SubscriptionFormID:
		form = session.subscription
	default:
		return forms.PhaseFailure, nil, forms.ErrUnknownForm
	}
	if formID == forms.SubscriptionFormID && fields.Get(forms.PackageField) == "" && form.SelectedPackage != "" {
		fields.Set(forms.PackageField, form.SelectedPackage)
	}
	session.BindToken(formID)

	var table i18n.Table
	if store := session.application.Store(); store != nil {
		table = store.Translations
	}
	outcome := session.application.submitter.Submit(ctx, forms.Submission{
		VisitorID: session.id,
		Form:      form,
		Fields:    fields,
		Table:     table,
		Language:  string(language),
		Client:    session.client,
		Tokens:    session,
		Modals:    session.modals,
	})
	return outcome, form.ActiveStatus(session.application.Now()), nil
}

// View is the visitor state exposed to API clients.
type View struct {
	Language       preferences.Language     `json:"language"`
	Theme          preferences.Theme        `json:"theme"`
	RevealReset    int                      `json:"reveal_generation"`
	OpenModal      string                   `json:"open_modal,omitempty"`
	HistoryLength  int                      `json:"history_length"`
	Policy         *render.PolicyView       `json:"policy,omitempty"`
	Statuses       map[string]render.Status `json:"statuses,omitempty"`
	SelectedPlan   string                   `json:"selected_package,omitempty"`
	SubmitDisabled bool                     `json:"subscription_submit_disabled"`
	Coverage       *render.CoverageResult   `json:"coverage,omitempty"`
}

// View snapshots the visitor state.
func (session *Session) View(state preferences.State) View {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	now := session.application.Now()
	openModal, _ := session.modals.OpenModal()
	statuses := make(map[string]render.Status)
	for _, form := range []*forms.Form{session.contactForm, session.subscription} {
		if status := form.ActiveStatus(now); status != nil {
			statuses[form.StatusID] = *status
		}
	}
	return View{
		Language:       state.Language,
		Theme:          state.Theme,
		RevealReset:    state.RevealGeneration,
		OpenModal:      openModal,
		HistoryLength:  session.modals.HistoryLen(),
		Policy:         session.modals.PolicyView(),
		Statuses:       statuses,
		SelectedPlan:   session.subscription.SelectedPackage,
		SubmitDisabled: session.subscription.SubmitDisabled,
		Coverage:       session.coverageResult,
	}
}
