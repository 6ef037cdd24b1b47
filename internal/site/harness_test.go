package site

import (
	"context"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/forms"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/storage"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/testutil"
)

var testSiteNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

type siteHarness struct {
	upstream      *testutil.Upstream
	application   *Application
	registry      *Registry
	submissionLog *storage.SubmissionLog
}

func newApplication(testingT *testing.T, upstream *testutil.Upstream, recorder forms.Recorder) *Application {
	testingT.Helper()
	loader := content.NewLoader(content.NewFetcher(resty.New(), nil), content.DefaultPaths(upstream.URL()), nil)
	submitter := forms.NewSubmitter(forms.NewRelay(upstream.RelayURL()), recorder, func() time.Time { return testSiteNow }, nil)
	application := NewApplication(Config{TokenURL: upstream.TokenURL()}, loader, submitter, nil)
	application.now = func() time.Time { return testSiteNow }
	return application
}

func newSiteHarness(testingT *testing.T) *siteHarness {
	testingT.Helper()
	upstream := testutil.NewUpstream(testingT)

	_, submissionLog := testutil.OpenSubmissionLog(testingT)

	application := newApplication(testingT, upstream, NewSubmissionRecorder(submissionLog))
	require.NoError(testingT, application.Bootstrap(context.Background()))
	return &siteHarness{
		upstream:      upstream,
		application:   application,
		registry:      NewRegistry(application),
		submissionLog: submissionLog,
	}
}

func (harness *siteHarness) session(testingT *testing.T, visitorID string) *Session {
	testingT.Helper()
	session := harness.registry.Obtain(context.Background(), visitorID)
	require.False(testingT, session.Fatal())
	return session
}

func englishLight() preferences.State {
	return preferences.State{Language: preferences.LanguageEnglish, Theme: preferences.ThemeLight}
}
