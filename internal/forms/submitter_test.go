package forms

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/modal"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/testutil"
)

var testSubmitNow = time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)

type upstreamTokens struct {
	source  *content.TokenSource
	current string
}

func (tokens *upstreamTokens) Token() string {
	return tokens.current
}

func (tokens *upstreamTokens) Refresh(ctx context.Context) error {
	token, tokenErr := tokens.source.FetchToken(ctx)
	if tokenErr != nil {
		return tokenErr
	}
	tokens.current = token
	return nil
}

type recordedAttempts struct {
	attempts []Attempt
}

func (recorder *recordedAttempts) Record(_ context.Context, attempt Attempt) error {
	recorder.attempts = append(recorder.attempts, attempt)
	return nil
}

type submitterHarness struct {
	upstream  *testutil.Upstream
	client    *resty.Client
	tokens    *upstreamTokens
	recorder  *recordedAttempts
	submitter *Submitter
	modals    *modal.Controller
	table     i18n.Table
}

func newSubmitterHarness(testingT *testing.T) *submitterHarness {
	testingT.Helper()
	upstream := testutil.NewUpstream(testingT)
	client := resty.New()
	tokens := &upstreamTokens{source: content.NewTokenSource(content.NewFetcher(client, nil), upstream.TokenURL())}
	require.NoError(testingT, tokens.Refresh(context.Background()))
	recorder := &recordedAttempts{}
	return &submitterHarness{
		upstream:  upstream,
		client:    client,
		tokens:    tokens,
		recorder:  recorder,
		submitter: NewSubmitter(NewRelay(upstream.RelayURL()), recorder, func() time.Time { return testSubmitNow }, nil),
		modals:    modal.NewController(modal.Definitions(), modal.NewMemoryHistory(), nil, nil),
		table: i18n.Table{
			"en": {"form_status_success": "Message sent successfully!", "form_status_error_generic": "An unknown error occurred."},
			"bn": {"form_status_success": "বার্তা পাঠানো হয়েছে!"},
		},
	}
}

func (harness *submitterHarness) submit(form *Form, language string, fields url.Values) Phase {
	return harness.submitter.Submit(context.Background(), Submission{
		Form:     form,
		Fields:   fields,
		Table:    harness.table,
		Language: language,
		Client:   harness.client,
		Tokens:   harness.tokens,
		Modals:   harness.modals,
	})
}

func TestContactSubmissionSucceeds(testingT *testing.T) {
	harness := newSubmitterHarness(testingT)
	form := NewContactForm()

	outcome := harness.submit(form, "bn", url.Values{"name": {"Rahim"}, "message": {"Hello"}})

	require.Equal(testingT, PhaseSuccess, outcome)
	require.Equal(testingT, PhaseIdle, form.Phase)
	require.False(testingT, form.SubmitDisabled)
	require.Equal(testingT, "বার্তা পাঠানো হয়েছে!", form.Status.Message)
	require.Equal(testingT, statusClassSuccess, form.Status.Class)
	require.NotNil(testingT, form.ActiveStatus(testSubmitNow.Add(4*time.Second)))
	require.Nil(testingT, form.ActiveStatus(testSubmitNow.Add(SuccessDisplayDuration)))

	submissions := harness.upstream.RelaySubmissions()
	require.Len(testingT, submissions, 1)
	require.Equal(testingT, "token-1", submissions[0].Fields.Get(TokenField))
	require.Equal(testingT, "relay-session", submissions[0].Cookie)
	require.Equal(testingT, "Rahim", submissions[0].Fields.Get("name"))
	require.Equal(testingT, "token-2", harness.tokens.Token())
}

func TestRelayReceivesEveryValueOfRepeatedFields(testingT *testing.T) {
	harness := newSubmitterHarness(testingT)
	form := NewContactForm()

	outcome := harness.submit(form, "en", url.Values{"name": {"Rahim"}, "interest": {"fiber", "iptv", ""}})

	require.Equal(testingT, PhaseSuccess, outcome)
	submissions := harness.upstream.RelaySubmissions()
	require.Len(testingT, submissions, 1)
	require.Equal(testingT, []string{"fiber", "iptv", ""}, submissions[0].Fields["interest"])
	require.Equal(testingT, []string{"token-1"}, submissions[0].Fields[TokenField])
}

func TestSubscriptionSuccessSwitchesModals(testingT *testing.T) {
	harness := newSubmitterHarness(testingT)
	form := NewSubscriptionForm()
	require.NoError(testingT, SelectPackage(form, "Pro", harness.modals))
	form.SetTermsAccepted(true)
	require.False(testingT, form.SubmitDisabled)

	outcome := harness.submit(form, "en", url.Values{"package": {"Pro"}, "dob": {"1990-07-15"}})

	require.Equal(testingT, PhaseSuccess, outcome)
	require.True(testingT, harness.modals.IsOpen(modal.FormSuccess))
	require.False(testingT, harness.modals.IsOpen(modal.Subscribe))
	require.Equal(testingT, 1, harness.modals.HistoryLen())
	require.False(testingT, form.TermsAccepted)
	require.True(testingT, form.SubmitDisabled)
	require.Nil(testingT, form.Status)
	require.Equal(testingT, "15/07/1990", harness.upstream.RelaySubmissions()[0].Fields.Get(DateOfBirthField))

	require.Len(testingT, harness.recorder.attempts, 1)
	require.Equal(testingT, "Pro", harness.recorder.attempts[0].PackageName)
	require.Equal(testingT, PhaseSuccess, harness.recorder.attempts[0].Outcome)
}

func TestRelayFailures(testingT *testing.T) {
	testCases := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{name: "server message on error status", status: http.StatusBadRequest, body: `{"status":"error","message":"Invalid token"}`, expectedMessage: "Invalid token"},
		{name: "generic on error status without message", status: http.StatusInternalServerError, body: `{}`, expectedMessage: "An unknown error occurred."},
		{name: "server message on rejected status", status: http.StatusOK, body: `{"status":"error","message":"Mailbox full"}`, expectedMessage: "Mailbox full"},
		{name: "generic on malformed reply", status: http.StatusOK, body: `not json`, expectedMessage: "An unknown error occurred."},
	}
	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			harness := newSubmitterHarness(testingT)
			harness.upstream.SetRelayResponse(testCase.status, testCase.body)
			form := NewContactForm()

			outcome := harness.submit(form, "en", url.Values{"name": {"Karim"}})

			require.Equal(testingT, PhaseFailure, outcome)
			require.Equal(testingT, PhaseFailure, form.Outcome)
			require.Equal(testingT, testCase.expectedMessage, form.Status.Message)
			require.Equal(testingT, statusClassFailure, form.Status.Class)
			require.False(testingT, form.SubmitDisabled)
			require.Equal(testingT, "token-2", harness.tokens.Token())
		})
	}
}

func TestSubscriptionFailureKeepsTermsGate(testingT *testing.T) {
	harness := newSubmitterHarness(testingT)
	harness.upstream.SetRelayResponse(http.StatusOK, `{"status":"error"}`)
	form := NewSubscriptionForm()
	require.NoError(testingT, SelectPackage(form, "Basic", harness.modals))
	form.SetTermsAccepted(true)

	outcome := harness.submit(form, "en", url.Values{"package": {"Basic"}})

	require.Equal(testingT, PhaseFailure, outcome)
	require.True(testingT, form.TermsAccepted)
	require.False(testingT, form.SubmitDisabled)
	require.True(testingT, harness.modals.IsOpen(modal.Subscribe))
}

func TestTransportFailureRefreshesToken(testingT *testing.T) {
	harness := newSubmitterHarness(testingT)
	harness.submitter = NewSubmitter(NewRelay("http://127.0.0.1:1/mailer.php"), harness.recorder, nil, nil)
	form := NewContactForm()

	outcome := harness.submit(form, "en", url.Values{})

	require.Equal(testingT, PhaseFailure, outcome)
	require.Equal(testingT, "An unknown error occurred.", form.Status.Message)
	require.Equal(testingT, 2, harness.upstream.TokensIssued())
}

func TestConvertDateOfBirth(testingT *testing.T) {
	require.Equal(testingT, "15/07/1990", ConvertDateOfBirth("1990-07-15"))
	require.Equal(testingT, "15/07/1990", ConvertDateOfBirth("15/07/1990"))
	require.Equal(testingT, "", ConvertDateOfBirth(""))
}

func TestSelectPackageResetsForm(testingT *testing.T) {
	harness := newSubmitterHarness(testingT)
	form := NewSubscriptionForm()
	form.SetTermsAccepted(true)
	form.Status = nil

	require.NoError(testingT, SelectPackage(form, "Gamer", harness.modals))

	require.Equal(testingT, "Gamer", form.SelectedPackage)
	require.False(testingT, form.TermsAccepted)
	require.True(testingT, form.SubmitDisabled)
	require.True(testingT, harness.modals.IsOpen(modal.Subscribe))
}
