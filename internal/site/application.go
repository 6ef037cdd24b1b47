// Package site ties content, rendering and visitor sessions into the running application.
package site

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/forms"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
)

const (
	defaultUpstreamTimeout = 15 * time.Second

	logEventContentLoaded       = "content_loaded"
	logEventContentRefreshKept  = "content_refresh_kept_previous"
	logEventTranslationsMissing = "translations_missing"
)

var (
	// ErrTranslationsMissing indicates the English translation table could not be loaded.
	ErrTranslationsMissing = errors.New("site: essential site data (translations) could not be loaded")
	// ErrNotBootstrapped indicates a session was requested before content was loaded.
	ErrNotBootstrapped = errors.New("site: application not bootstrapped")
)

// Config holds the upstream endpoints of the application.
type Config struct {
	TokenURL        string
	UpstreamTimeout time.Duration
}

// Application holds the loaded content and builds visitor sessions.
type Application struct {
	loader    *content.Loader
	submitter *forms.Submitter
	page      *render.Page
	config    Config
	logger    *zap.Logger
	now       func() time.Time
	store     atomic.Pointer[content.Store]
}

// NewApplication constructs an Application.
func NewApplication(config Config, loader *content.Loader, submitter *forms.Submitter, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.UpstreamTimeout <= 0 {
		config.UpstreamTimeout = defaultUpstreamTimeout
	}
	config.TokenURL = strings.TrimSpace(config.TokenURL)
	return &Application{
		loader:    loader,
		submitter: submitter,
		page:      render.NewPage(logger),
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Bootstrap loads the content. It fails when the English translation table is missing.
func (application *Application) Bootstrap(ctx context.Context) error {
	store := application.loader.Load(ctx)
	if !store.Usable() {
		application.logger.Error(logEventTranslationsMissing)
		return ErrTranslationsMissing
	}
	application.store.Store(store)
	application.logger.Info(logEventContentLoaded, zap.Int("policies", len(store.Policies)))
	return nil
}

// Refresh reloads the content. A load without the English table keeps the previous content.
func (application *Application) Refresh(ctx context.Context) error {
	store := application.loader.Load(ctx)
	if !store.Usable() {
		application.logger.Warn(logEventContentRefreshKept)
		return ErrTranslationsMissing
	}
	application.store.Store(store)
	return nil
}

// Store returns the current content, or nil before a successful bootstrap.
func (application *Application) Store() *content.Store {
	return application.store.Load()
}

// Ready reports whether content has been loaded.
func (application *Application) Ready() bool {
	return application.store.Load() != nil
}

// Now returns the application clock's time.
func (application *Application) Now() time.Time {
	return application.now()
}

// NewSession builds a visitor session with its own upstream client and cookie jar.
func (application *Application) NewSession(visitorID string) *Session {
	client := resty.New().SetTimeout(application.config.UpstreamTimeout)
	tokens := content.NewTokenSource(content.NewFetcher(client, application.logger), application.config.TokenURL)
	return newSession(visitorID, application, client, tokens)
}
