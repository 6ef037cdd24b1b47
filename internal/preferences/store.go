package preferences

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	SessionName = "sinthia_visitor"

	sessionKeyLanguage  = "lang"
	sessionKeyTheme     = "theme"
	sessionKeyReveal    = "reveal"
	sessionKeyVisitorID = "visitor_id"
	languageQueryKey    = "lang"
	sessionMaxAgeSecond = 60 * 60 * 24 * 365

	logEventLoadPreferences = "load_preferences"
	logEventSavePreferences = "save_preferences"
)

var ErrMissingSessionSecret = errors.New("preferences: missing session secret")

// Store persists preferences and the visitor identifier in a signed cookie.
type Store struct {
	cookies  *sessions.CookieStore
	defaults Defaults
	logger   *zap.Logger
}

// NewStore constructs a Store signing cookies with the secret.
func NewStore(secret []byte, defaults Defaults, logger *zap.Logger) (*Store, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSessionSecret
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cookies := sessions.NewCookieStore(secret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAgeSecond,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies, defaults: defaults, logger: logger}, nil
}

// Defaults returns the configured first-visit preferences.
func (store *Store) Defaults() Defaults {
	return store.defaults
}

// Load reads the persisted state. Missing or unknown values fall back to the defaults.
func (store *Store) Load(request *http.Request) State {
	state := store.defaults.State()
	session, sessionErr := store.cookies.Get(request, SessionName)
	if sessionErr != nil {
		store.logger.Warn(logEventLoadPreferences, zap.Error(sessionErr))
		return state
	}
	if language, languageErr := ParseLanguage(stringValue(session.Values[sessionKeyLanguage])); languageErr == nil {
		state.Language = language
	}
	if theme, themeErr := ParseTheme(stringValue(session.Values[sessionKeyTheme])); themeErr == nil {
		state.Theme = theme
	}
	if reveal, isInt := session.Values[sessionKeyReveal].(int); isInt {
		state.RevealGeneration = reveal
	}
	return state
}

// LoadWithOverride reads the persisted state and applies a ?lang= override, reporting whether it changed the state.
func (store *Store) LoadWithOverride(request *http.Request) (State, bool) {
	state := store.Load(request)
	rawLanguage := strings.TrimSpace(request.URL.Query().Get(languageQueryKey))
	if rawLanguage == "" {
		return state, false
	}
	language, languageErr := ParseLanguage(rawLanguage)
	if languageErr != nil {
		return state, false
	}
	updated := state.WithLanguage(language)
	return updated, updated != state
}

// Save persists the state.
func (store *Store) Save(request *http.Request, writer http.ResponseWriter, state State) error {
	session, _ := store.cookies.Get(request, SessionName)
	session.Values[sessionKeyLanguage] = string(state.Language)
	session.Values[sessionKeyTheme] = string(state.Theme)
	session.Values[sessionKeyReveal] = state.RevealGeneration
	if saveErr := session.Save(request, writer); saveErr != nil {
		store.logger.Error(logEventSavePreferences, zap.Error(saveErr))
		return saveErr
	}
	return nil
}

// VisitorID returns the visitor identifier, issuing and persisting a new one on first visit.
func (store *Store) VisitorID(request *http.Request, writer http.ResponseWriter) (string, error) {
	session, _ := store.cookies.Get(request, SessionName)
	if visitorID := stringValue(session.Values[sessionKeyVisitorID]); visitorID != "" {
		return visitorID, nil
	}
	visitorID := uuid.NewString()
	session.Values[sessionKeyVisitorID] = visitorID
	if saveErr := session.Save(request, writer); saveErr != nil {
		store.logger.Error(logEventSavePreferences, zap.Error(saveErr))
		return "", saveErr
	}
	return visitorID, nil
}

func stringValue(value interface{}) string {
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
