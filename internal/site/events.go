package site

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/modal"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

// Event types understood by the router.
const (
	EventClick    = "click"
	EventChange   = "change"
	EventKeydown  = "keydown"
	EventPopstate = "popstate"

	keyEscape = "Escape"

	dataPolicy      = "policy"
	dataPackageName = "package-name"
	classModal      = "modal-overlay"

	logEventRouted = "event_routed"
)

// Handler names of the route table.
const (
	HandlerThemeToggle    = "theme_toggle"
	HandlerLanguageToggle = "language_toggle"
	HandlerQuickPayOpen   = "quick_pay_open"
	HandlerPolicyOpen     = "policy_open"
	HandlerModalClose     = "modal_close"
	HandlerOutsideClick   = "outside_click"
	HandlerEscape         = "escape"
	HandlerBackNavigation = "back_navigation"
	HandlerPackageSelect  = "package_select"
	HandlerTermsToggle    = "terms_toggle"
	HandlerCoverageCheck  = "coverage_check"
	HandlerCheckout       = "checkout"
)

var (
	ErrUnroutedEvent   = errors.New("site: no route for event")
	ErrInvalidSelector = errors.New("site: invalid selector")
	ErrUnknownHandler  = errors.New("site: unknown handler")
)

// Element describes one element on the path from the event target to the document root.
type Element struct {
	ID      string            `json:"id"`
	Classes []string          `json:"classes"`
	Data    map[string]string `json:"data"`
}

func (element Element) hasClass(class string) bool {
	for _, candidate := range element.Classes {
		if candidate == class {
			return true
		}
	}
	return false
}

// Event is a browser event delivered by the page script. Path starts at the target.
type Event struct {
	Type    string    `json:"type"`
	Path    []Element `json:"path"`
	Key     string    `json:"key"`
	Value   string    `json:"value"`
	Checked bool      `json:"checked"`
}

// Route maps an event type and selector to a handler. An empty selector matches any event of the type.
// Direct routes match only the target itself.
type Route struct {
	Type     string
	Selector string
	Key      string
	Handler  string
	Direct   bool
}

// Routes is the event table of the page.
func Routes() []Route {
	return []Route{
		{Type: EventClick, Selector: "#theme-toggle", Handler: HandlerThemeToggle},
		{Type: EventClick, Selector: "#header-theme-toggle-mobile", Handler: HandlerThemeToggle},
		{Type: EventClick, Selector: "#lang-toggle", Handler: HandlerLanguageToggle},
		{Type: EventClick, Selector: "#quick-pay-btn", Handler: HandlerQuickPayOpen},
		{Type: EventClick, Selector: "#mobile-quick-pay-btn", Handler: HandlerQuickPayOpen},
		{Type: EventClick, Selector: "#footer-quick-pay", Handler: HandlerQuickPayOpen},
		{Type: EventClick, Selector: ".policy-btn", Handler: HandlerPolicyOpen},
		{Type: EventClick, Selector: ".close-modal-btn", Handler: HandlerModalClose},
		{Type: EventClick, Selector: ".package-cta-btn", Handler: HandlerPackageSelect},
		{Type: EventClick, Selector: "#check-coverage-btn", Handler: HandlerCoverageCheck},
		{Type: EventClick, Selector: "#modal-checkout-btn", Handler: HandlerCheckout},
		{Type: EventClick, Selector: ".modal-overlay", Handler: HandlerOutsideClick, Direct: true},
		{Type: EventChange, Selector: "#terms-agree", Handler: HandlerTermsToggle},
		{Type: EventKeydown, Key: keyEscape, Handler: HandlerEscape},
		{Type: EventPopstate, Handler: HandlerBackNavigation},
	}
}

// Result is the outcome of a dispatched event.
type Result struct {
	Handler            string                 `json:"handler"`
	State              preferences.State      `json:"-"`
	PreferencesChanged bool                   `json:"preferences_changed"`
	CheckoutURL        string                 `json:"checkout_url,omitempty"`
	Coverage           *render.CoverageResult `json:"coverage,omitempty"`
}

type selector struct {
	id      string
	classes []string
}

func parseSelector(raw string) (selector, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return selector{}, nil
	case strings.HasPrefix(trimmed, "#"):
		if len(trimmed) == 1 || strings.ContainsAny(trimmed[1:], "#. ") {
			return selector{}, fmt.Errorf("%w: %s", ErrInvalidSelector, raw)
		}
		return selector{id: trimmed[1:]}, nil
	case strings.HasPrefix(trimmed, "."):
		classes := strings.Split(trimmed[1:], ".")
		for _, class := range classes {
			if class == "" || strings.ContainsAny(class, "# ") {
				return selector{}, fmt.Errorf("%w: %s", ErrInvalidSelector, raw)
			}
		}
		return selector{classes: classes}, nil
	default:
		return selector{}, fmt.Errorf("%w: %s", ErrInvalidSelector, raw)
	}
}

func (parsed selector) empty() bool {
	return parsed.id == "" && len(parsed.classes) == 0
}

func (parsed selector) matches(element Element) bool {
	if parsed.id != "" {
		return element.ID == parsed.id
	}
	for _, class := range parsed.classes {
		if !element.hasClass(class) {
			return false
		}
	}
	return len(parsed.classes) > 0
}

type compiledRoute struct {
	route    Route
	selector selector
	handler  handlerFunc
}

type dispatch struct {
	ctx     context.Context
	session *Session
	state   preferences.State
	event   Event
	matched Element
	result  *Result
}

type handlerFunc func(*dispatch) error

// EventRouter dispatches page events to handlers through a declarative route table.
type EventRouter struct {
	routes []compiledRoute
	logger *zap.Logger
}

// NewEventRouter compiles the route table.
func NewEventRouter(routes []Route, logger *zap.Logger) (*EventRouter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	handlers := map[string]handlerFunc{
		HandlerThemeToggle:    handleThemeToggle,
		HandlerLanguageToggle: handleLanguageToggle,
		HandlerQuickPayOpen:   handleQuickPayOpen,
		HandlerPolicyOpen:     handlePolicyOpen,
		HandlerModalClose:     handleModalClose,
		HandlerOutsideClick:   handleOutsideClick,
		HandlerEscape:         handleEscape,
		HandlerBackNavigation: handleBackNavigation,
		HandlerPackageSelect:  handlePackageSelect,
		HandlerTermsToggle:    handleTermsToggle,
		HandlerCoverageCheck:  handleCoverageCheck,
		HandlerCheckout:       handleCheckout,
	}
	compiled := make([]compiledRoute, 0, len(routes))
	for _, route := range routes {
		parsed, parseErr := parseSelector(route.Selector)
		if parseErr != nil {
			return nil, parseErr
		}
		handler, found := handlers[route.Handler]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, route.Handler)
		}
		compiled = append(compiled, compiledRoute{route: route, selector: parsed, handler: handler})
	}
	return &EventRouter{routes: compiled, logger: logger}, nil
}

// Dispatch runs the first route matching the event.
func (router *EventRouter) Dispatch(ctx context.Context, session *Session, state preferences.State, event Event) (Result, error) {
	for _, candidate := range router.routes {
		matched, ok := candidate.match(event)
		if !ok {
			continue
		}
		result := Result{Handler: candidate.route.Handler, State: state}
		handlerErr := candidate.handler(&dispatch{
			ctx:     ctx,
			session: session,
			state:   state,
			event:   event,
			matched: matched,
			result:  &result,
		})
		router.logger.Debug(logEventRouted, zap.String("handler", candidate.route.Handler), zap.String("visitor_id", session.ID()))
		return result, handlerErr
	}
	return Result{State: state}, ErrUnroutedEvent
}

func (candidate compiledRoute) match(event Event) (Element, bool) {
	if candidate.route.Type != event.Type {
		return Element{}, false
	}
	if candidate.route.Key != "" && candidate.route.Key != event.Key {
		return Element{}, false
	}
	if candidate.selector.empty() {
		return Element{}, true
	}
	if candidate.route.Direct {
		if len(event.Path) > 0 && candidate.selector.matches(event.Path[0]) {
			return event.Path[0], true
		}
		return Element{}, false
	}
	for _, element := range event.Path {
		if candidate.selector.matches(element) {
			return element, true
		}
	}
	return Element{}, false
}

func handleThemeToggle(current *dispatch) error {
	current.result.State = current.state.ToggleTheme()
	current.result.PreferencesChanged = true
	return nil
}

func handleLanguageToggle(current *dispatch) error {
	current.result.State = current.state.ToggleLanguage()
	current.result.PreferencesChanged = true
	return nil
}

func handleQuickPayOpen(current *dispatch) error {
	return current.session.OpenModal(modal.QuickPay)
}

func handlePolicyOpen(current *dispatch) error {
	current.session.ShowPolicy(current.matched.Data[dataPolicy], current.state.Language)
	return nil
}

func handleModalClose(current *dispatch) error {
	for _, element := range current.event.Path {
		if element.hasClass(classModal) && element.ID != "" {
			return current.session.CloseModal(element.ID)
		}
	}
	return nil
}

func handleOutsideClick(current *dispatch) error {
	current.session.HandleOutsideClick(current.matched.ID)
	return nil
}

func handleEscape(current *dispatch) error {
	current.session.HandleEscape()
	return nil
}

func handleBackNavigation(current *dispatch) error {
	current.session.HandleBackNavigation()
	return nil
}

func handlePackageSelect(current *dispatch) error {
	return current.session.SelectPackage(current.matched.Data[dataPackageName])
}

func handleTermsToggle(current *dispatch) error {
	current.session.SetTermsAccepted(current.event.Checked)
	return nil
}

func handleCoverageCheck(current *dispatch) error {
	result, checked := current.session.CheckCoverage(current.state.Language, current.event.Value)
	if checked {
		current.result.Coverage = &result
	}
	return nil
}

func handleCheckout(current *dispatch) error {
	checkoutURL, checkoutErr := current.session.Checkout(current.event.Value)
	if checkoutErr != nil {
		return checkoutErr
	}
	current.result.CheckoutURL = checkoutURL
	return nil
}
