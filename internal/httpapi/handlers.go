package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/modal"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/render"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/site"
)

const (
	jsonKeyError = "error"

	htmlContentType = "text/html; charset=utf-8"

	errorValueVisitorUnavailable  = "visitor_unavailable"
	errorValueSessionUnavailable  = "security_token_unavailable"
	errorValueContentUnavailable  = "content_unavailable"
	errorValueRenderFailed        = "render_failed"
	errorValueInvalidPayload      = "invalid_payload"
	errorValueUnsupportedTheme    = "unsupported_theme"
	errorValueUnsupportedLanguage = "unsupported_language"
	errorValuePreferencesFailed   = "preferences_save_failed"
	errorValuePolicyNotFound      = "policy_not_found"
	errorValueBlankUserID         = "blank_user_id"
	errorValueUnknownModal        = "unknown_modal"
	errorValueEventFailed         = "event_failed"
	errorValueUnknownForm         = "unknown_form"
	errorValueStreamUnavailable   = "stream_unavailable"

	logEventPageRenderFailed = "page_render_failed"
	logEventEventFailed      = "event_dispatch_failed"
)

// SiteHandlers serves the marketing page and the visitor API.
type SiteHandlers struct {
	application *site.Application
	registry    *site.Registry
	router      *site.EventRouter
	preferences *preferences.Store
	logger      *zap.Logger
}

// NewSiteHandlers constructs SiteHandlers.
func NewSiteHandlers(application *site.Application, registry *site.Registry, router *site.EventRouter, preferencesStore *preferences.Store, logger *zap.Logger) *SiteHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteHandlers{
		application: application,
		registry:    registry,
		router:      router,
		preferences: preferencesStore,
		logger:      logger,
	}
}

// RequireVisitor is the visitor middleware bound to these handlers.
func (handlers *SiteHandlers) RequireVisitor() gin.HandlerFunc {
	return RequireVisitor(handlers.preferences, handlers.registry, handlers.logger)
}

// RenderPage serves the localized page, or the security and initialization notices.
func (handlers *SiteHandlers) RenderPage(context *gin.Context) {
	visitor, visitorErr := VisitorFromContext(context)
	if visitorErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueVisitorUnavailable})
		return
	}
	status := http.StatusOK
	if !handlers.application.Ready() || visitor.Session.Fatal() {
		status = http.StatusServiceUnavailable
	}
	page, renderErr := visitor.Session.Render(visitor.State)
	if renderErr != nil {
		handlers.logger.Error(logEventPageRenderFailed, zap.Error(renderErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueRenderFailed})
		return
	}
	context.Header("Cache-Control", "no-store")
	context.Data(status, htmlContentType, page)
}

// Health reports whether content is loaded.
func (handlers *SiteHandlers) Health(context *gin.Context) {
	status := http.StatusOK
	if !handlers.application.Ready() {
		status = http.StatusServiceUnavailable
	}
	context.JSON(status, gin.H{
		"content_loaded": handlers.application.Ready(),
		"sessions":       handlers.registry.Len(),
	})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type languageRequest struct {
	Language string `json:"language"`
}

// ChangeTheme sets the requested theme, or toggles it when the body names none.
func (handlers *SiteHandlers) ChangeTheme(context *gin.Context) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	var request themeRequest
	_ = context.ShouldBindJSON(&request)
	state := visitor.State.ToggleTheme()
	if request.Theme != "" {
		theme, themeErr := preferences.ParseTheme(request.Theme)
		if themeErr != nil {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueUnsupportedTheme})
			return
		}
		state = visitor.State
		state.Theme = theme
	}
	handlers.respondWithState(context, visitor, state)
}

// ChangeLanguage sets the requested language, or toggles it when the body names none.
func (handlers *SiteHandlers) ChangeLanguage(context *gin.Context) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	var request languageRequest
	_ = context.ShouldBindJSON(&request)
	state := visitor.State.ToggleLanguage()
	if request.Language != "" {
		language, languageErr := preferences.ParseLanguage(request.Language)
		if languageErr != nil {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueUnsupportedLanguage})
			return
		}
		state = visitor.State.WithLanguage(language)
	}
	handlers.respondWithState(context, visitor, state)
}

// VisitorState returns the visitor's modal, form and preference state.
func (handlers *SiteHandlers) VisitorState(context *gin.Context) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	context.JSON(http.StatusOK, visitor.Session.View(visitor.State))
}

// CheckCoverage resolves the coverage of the area in the query.
func (handlers *SiteHandlers) CheckCoverage(context *gin.Context) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	result, checked := visitor.Session.CheckCoverage(visitor.State.Language, context.Query("area"))
	if !checked {
		context.Status(http.StatusNoContent)
		return
	}
	fragment, fragmentErr := render.CoverageResultFragment(result)
	if fragmentErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueRenderFailed})
		return
	}
	context.JSON(http.StatusOK, gin.H{"result": result, "html": fragment})
}

// ShowPolicy opens the policy modal with the policy in the visitor's language.
func (handlers *SiteHandlers) ShowPolicy(context *gin.Context) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	if !visitor.Session.ShowPolicy(context.Param("key"), visitor.State.Language) {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValuePolicyNotFound})
		return
	}
	context.JSON(http.StatusOK, visitor.Session.View(visitor.State).Policy)
}

// DispatchEvent routes a page event through the event table.
func (handlers *SiteHandlers) DispatchEvent(context *gin.Context) {
	visitor, ok := handlers.liveVisitor(context)
	if !ok {
		return
	}
	var event site.Event
	if bindErr := context.ShouldBindJSON(&event); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidPayload})
		return
	}
	result, dispatchErr := handlers.router.Dispatch(context.Request.Context(), visitor.Session, visitor.State, event)
	switch {
	case errors.Is(dispatchErr, site.ErrUnroutedEvent):
		context.Status(http.StatusNoContent)
		return
	case errors.Is(dispatchErr, modal.ErrBlankUserID):
		context.JSON(http.StatusUnprocessableEntity, gin.H{jsonKeyError: errorValueBlankUserID})
		return
	case errors.Is(dispatchErr, modal.ErrUnknownModal):
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueUnknownModal})
		return
	case dispatchErr != nil:
		handlers.logger.Warn(logEventEventFailed, zap.String("handler", result.Handler), zap.Error(dispatchErr))
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueEventFailed})
		return
	}
	state := visitor.State
	if result.PreferencesChanged {
		if saveErr := handlers.preferences.Save(context.Request, context.Writer, result.State); saveErr != nil {
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePreferencesFailed})
			return
		}
		state = result.State
	}
	context.JSON(http.StatusOK, gin.H{"result": result, "state": visitor.Session.View(state)})
}

func (handlers *SiteHandlers) liveVisitor(context *gin.Context) (*Visitor, bool) {
	visitor, visitorErr := VisitorFromContext(context)
	if visitorErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueVisitorUnavailable})
		return nil, false
	}
	if visitor.Session.Fatal() {
		context.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueSessionUnavailable})
		return nil, false
	}
	if !handlers.application.Ready() {
		context.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueContentUnavailable})
		return nil, false
	}
	return visitor, true
}

func (handlers *SiteHandlers) respondWithState(context *gin.Context, visitor *Visitor, state preferences.State) {
	if saveErr := handlers.preferences.Save(context.Request, context.Writer, state); saveErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePreferencesFailed})
		return
	}
	context.JSON(http.StatusOK, visitor.Session.View(state))
}
