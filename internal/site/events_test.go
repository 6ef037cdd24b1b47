package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/modal"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
)

func newTestRouter(testingT *testing.T) *EventRouter {
	testingT.Helper()
	router, routerErr := NewEventRouter(Routes(), nil)
	require.NoError(testingT, routerErr)
	return router
}

func click(path ...Element) Event {
	return Event{Type: EventClick, Path: path}
}

func TestParseSelector(testingT *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected selector
		invalid  bool
	}{
		{name: "empty", raw: "", expected: selector{}},
		{name: "identifier", raw: "#theme-toggle", expected: selector{id: "theme-toggle"}},
		{name: "single class", raw: ".policy-btn", expected: selector{classes: []string{"policy-btn"}}},
		{name: "compound class", raw: ".modal-overlay.primary", expected: selector{classes: []string{"modal-overlay", "primary"}}},
		{name: "bare hash", raw: "#", invalid: true},
		{name: "tag name", raw: "button", invalid: true},
		{name: "empty class segment", raw: ".a..b", invalid: true},
		{name: "descendant", raw: "#a .b", invalid: true},
	}

	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			parsed, parseErr := parseSelector(testCase.raw)
			if testCase.invalid {
				require.ErrorIs(testingT, parseErr, ErrInvalidSelector)
				return
			}
			require.NoError(testingT, parseErr)
			require.Equal(testingT, testCase.expected, parsed)
		})
	}
}

func TestNewEventRouterRejectsUnknownHandler(testingT *testing.T) {
	_, routerErr := NewEventRouter([]Route{{Type: EventClick, Selector: "#x", Handler: "launch_rockets"}}, nil)
	require.ErrorIs(testingT, routerErr, ErrUnknownHandler)
}

func TestDispatchTogglesPreferences(testingT *testing.T) {
	harness := newSiteHarness(testingT)
	session := harness.session(testingT, testVisitorID)
	router := newTestRouter(testingT)

	result, dispatchErr := router.Dispatch(context.Background(), session, englishLight(), click(Element{Classes: []string{"fas", "fa-sun"}}, Element{ID: "theme-toggle"}))
	require.NoError(testingT, dispatchErr)
	require.True(testingT, result.PreferencesChanged)
	require.Equal(testingT, preferences.ThemeDark, result.State.Theme)

	result, dispatchErr = router.Dispatch(context.Background(), session, englishLight(), click(Element{ID: "lang-toggle"}))
	require.NoError(testingT, dispatchErr)
	require.Equal(testingT, HandlerLanguageToggle, result.Handler)
	require.Equal(testingT, preferences.LanguageBengali, result.State.Language)
	require.Equal(testingT, 1, result.State.RevealGeneration)
}

func TestDispatchModalLifecycle(testingT *testing.T) {
	harness := newSiteHarness(testingT)
	session := harness.session(testingT, testVisitorID)
	router := newTestRouter(testingT)
	ctx := context.Background()
	state := englishLight()

	_, dispatchErr := router.Dispatch(ctx, session, state, click(Element{ID: "footer-quick-pay"}, Element{ID: "site-footer"}))
	require.NoError(testingT, dispatchErr)
	openModal, _ := session.OpenModalID()
	require.Equal(testingT, modal.QuickPay, openModal)

	overlay := Element{ID: modal.QuickPay, Classes: []string{"modal-overlay", "primary"}}
	_, dispatchErr = router.Dispatch(ctx, session, state, click(Element{ID: "user-id"}, Element{Classes: []string{"modal-content"}}, overlay))
	require.ErrorIs(testingT, dispatchErr, ErrUnroutedEvent)
	_, open := session.OpenModalID()
	require.True(testingT, open)

	result, dispatchErr := router.Dispatch(ctx, session, state, click(overlay))
	require.NoError(testingT, dispatchErr)
	require.Equal(testingT, HandlerOutsideClick, result.Handler)
	_, open = session.OpenModalID()
	require.False(testingT, open)
	require.Zero(testingT, session.HistoryLen())

	_, dispatchErr = router.Dispatch(ctx, session, state, click(Element{Classes: []string{"policy-btn"}, Data: map[string]string{"policy": "terms"}}))
	require.NoError(testingT, dispatchErr)
	view := session.View(state)
	require.Equal(testingT, modal.Policy, view.OpenModal)
	require.Equal(testingT, "Terms of Service", view.Policy.Title)

	_, dispatchErr = router.Dispatch(ctx, session, state, click(
		Element{Classes: []string{"fas", "fa-times"}},
		Element{Classes: []string{"close-modal-btn"}},
		Element{Classes: []string{"modal-content"}},
		Element{ID: modal.Policy, Classes: []string{"modal-overlay", "primary"}},
	))
	require.NoError(testingT, dispatchErr)
	_, open = session.OpenModalID()
	require.False(testingT, open)
	require.Nil(testingT, session.View(state).Policy)
}

func TestDispatchEscapeAndBackNavigation(testingT *testing.T) {
	harness := newSiteHarness(testingT)
	session := harness.session(testingT, testVisitorID)
	router := newTestRouter(testingT)
	ctx := context.Background()
	state := englishLight()

	require.NoError(testingT, session.OpenModal(modal.QuickPay))
	_, dispatchErr := router.Dispatch(ctx, session, state, Event{Type: EventKeydown, Key: "Enter"})
	require.ErrorIs(testingT, dispatchErr, ErrUnroutedEvent)

	result, dispatchErr := router.Dispatch(ctx, session, state, Event{Type: EventKeydown, Key: "Escape"})
	require.NoError(testingT, dispatchErr)
	require.Equal(testingT, HandlerEscape, result.Handler)
	_, open := session.OpenModalID()
	require.False(testingT, open)
	require.Zero(testingT, session.HistoryLen())

	require.NoError(testingT, session.OpenModal(modal.QuickPay))
	result, dispatchErr = router.Dispatch(ctx, session, state, Event{Type: EventPopstate})
	require.NoError(testingT, dispatchErr)
	require.Equal(testingT, HandlerBackNavigation, result.Handler)
	_, open = session.OpenModalID()
	require.False(testingT, open)
}

func TestDispatchPackageSelectionAndTerms(testingT *testing.T) {
	harness := newSiteHarness(testingT)
	session := harness.session(testingT, testVisitorID)
	router := newTestRouter(testingT)
	ctx := context.Background()
	state := englishLight()

	_, dispatchErr := router.Dispatch(ctx, session, state, click(Element{Classes: []string{"package-cta-btn", "btn-primary"}, Data: map[string]string{"package-name": "Gamer", "key": "package_cta"}}))
	require.NoError(testingT, dispatchErr)
	view := session.View(state)
	require.Equal(testingT, modal.Subscribe, view.OpenModal)
	require.Equal(testingT, "Gamer", view.SelectedPlan)
	require.True(testingT, view.SubmitDisabled)

	_, dispatchErr = router.Dispatch(ctx, session, state, Event{Type: EventChange, Path: []Element{{ID: "terms-agree"}}, Checked: true})
	require.NoError(testingT, dispatchErr)
	require.False(testingT, session.View(state).SubmitDisabled)
}

func TestDispatchCoverageAndCheckout(testingT *testing.T) {
	harness := newSiteHarness(testingT)
	session := harness.session(testingT, testVisitorID)
	router := newTestRouter(testingT)
	ctx := context.Background()
	state := englishLight()

	result, dispatchErr := router.Dispatch(ctx, session, state, Event{Type: EventClick, Path: []Element{{ID: "check-coverage-btn"}}, Value: "gulshan"})
	require.NoError(testingT, dispatchErr)
	require.NotNil(testingT, result.Coverage)
	require.Equal(testingT, "text-red-400", result.Coverage.Class)

	result, dispatchErr = router.Dispatch(ctx, session, state, Event{Type: EventClick, Path: []Element{{ID: "check-coverage-btn"}}})
	require.NoError(testingT, dispatchErr)
	require.Nil(testingT, result.Coverage)

	_, dispatchErr = router.Dispatch(ctx, session, state, Event{Type: EventClick, Path: []Element{{ID: "modal-checkout-btn"}}})
	require.ErrorIs(testingT, dispatchErr, modal.ErrBlankUserID)

	result, dispatchErr = router.Dispatch(ctx, session, state, Event{Type: EventClick, Path: []Element{{ID: "modal-checkout-btn"}}, Value: "77"})
	require.NoError(testingT, dispatchErr)
	require.Equal(testingT, "https://pay.sinthia.example/quick-pay/77", result.CheckoutURL)
}
