package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/site"
)

const (
	contextKeyVisitor = "visitor"

	logEventVisitorResolveFailed = "visitor_resolve_failed"
)

// ErrMissingVisitor reports a handler reached without the visitor middleware.
var ErrMissingVisitor = errors.New("httpapi: missing visitor")

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(context *gin.Context) {
		start := time.Now()
		context.Next()
		logger.Info("http",
			zap.String("method", context.Request.Method),
			zap.String("path", context.Request.URL.Path),
			zap.Int("status", context.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("ip", context.ClientIP()),
			zap.String("ua", context.Request.UserAgent()),
		)
	}
}

// Visitor is the resolved visitor of a request.
type Visitor struct {
	ID      string
	State   preferences.State
	Session *site.Session
}

// RequireVisitor resolves the visitor cookie and session before the handler runs.
func RequireVisitor(preferencesStore *preferences.Store, registry *site.Registry, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(context *gin.Context) {
		visitorID, visitorErr := preferencesStore.VisitorID(context.Request, context.Writer)
		if visitorErr != nil {
			logger.Error(logEventVisitorResolveFailed, zap.Error(visitorErr))
			context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueVisitorUnavailable})
			return
		}
		state, overridden := preferencesStore.LoadWithOverride(context.Request)
		if overridden {
			_ = preferencesStore.Save(context.Request, context.Writer, state)
		}
		context.Set(contextKeyVisitor, &Visitor{
			ID:      visitorID,
			State:   state,
			Session: registry.Obtain(context.Request.Context(), visitorID),
		})
		context.Next()
	}
}

// VisitorFromContext returns the visitor stored by RequireVisitor.
func VisitorFromContext(context *gin.Context) (*Visitor, error) {
	value, exists := context.Get(contextKeyVisitor)
	if !exists {
		return nil, ErrMissingVisitor
	}
	visitor, ok := value.(*Visitor)
	if !ok || visitor == nil {
		return nil, ErrMissingVisitor
	}
	return visitor, nil
}
