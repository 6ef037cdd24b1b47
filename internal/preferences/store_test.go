package preferences

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef"

func newTestStore(testingT *testing.T) *Store {
	testingT.Helper()
	defaults, defaultsErr := NewDefaults("bn", "light")
	require.NoError(testingT, defaultsErr)
	store, storeErr := NewStore([]byte(testSessionSecret), defaults, nil)
	require.NoError(testingT, storeErr)
	return store
}

func carryCookies(recorder *httptest.ResponseRecorder, request *http.Request) {
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}
}

func TestNewStoreRequiresSecret(testingT *testing.T) {
	_, storeErr := NewStore(nil, Defaults{}, nil)
	require.ErrorIs(testingT, storeErr, ErrMissingSessionSecret)
}

func TestLoadWithoutCookieUsesDefaults(testingT *testing.T) {
	store := newTestStore(testingT)
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	require.Equal(testingT, State{Language: LanguageBengali, Theme: ThemeLight}, store.Load(request))
}

func TestSaveThenLoadRoundTrips(testingT *testing.T) {
	store := newTestStore(testingT)
	saved := State{Language: LanguageEnglish, Theme: ThemeDark, RevealGeneration: 3}

	recorder := httptest.NewRecorder()
	require.NoError(testingT, store.Save(httptest.NewRequest(http.MethodPost, "/", nil), recorder, saved))

	nextRequest := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(recorder, nextRequest)
	require.Equal(testingT, saved, store.Load(nextRequest))
}

func TestLoadIgnoresTamperedCookie(testingT *testing.T) {
	store := newTestStore(testingT)
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: SessionName, Value: "tampered"})

	require.Equal(testingT, State{Language: LanguageBengali, Theme: ThemeLight}, store.Load(request))
}

func TestLoadWithOverrideAppliesQueryLanguage(testingT *testing.T) {
	store := newTestStore(testingT)

	state, changed := store.LoadWithOverride(httptest.NewRequest(http.MethodGet, "/?lang=en-GB", nil))
	require.True(testingT, changed)
	require.Equal(testingT, LanguageEnglish, state.Language)

	state, changed = store.LoadWithOverride(httptest.NewRequest(http.MethodGet, "/?lang=xx", nil))
	require.False(testingT, changed)
	require.Equal(testingT, LanguageBengali, state.Language)

	_, changed = store.LoadWithOverride(httptest.NewRequest(http.MethodGet, "/?lang=bn", nil))
	require.False(testingT, changed)
}

func TestVisitorIDIsStable(testingT *testing.T) {
	store := newTestStore(testingT)

	recorder := httptest.NewRecorder()
	firstID, firstErr := store.VisitorID(httptest.NewRequest(http.MethodGet, "/", nil), recorder)
	require.NoError(testingT, firstErr)
	require.NotEmpty(testingT, firstID)

	nextRequest := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(recorder, nextRequest)
	secondID, secondErr := store.VisitorID(nextRequest, httptest.NewRecorder())
	require.NoError(testingT, secondErr)
	require.Equal(testingT, firstID, secondID)
}
