package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/httpapi"
)

const (
	routeRoot                   = "/"
	routeHealth                 = "/healthz"
	apiRoutePrefix              = "/api"
	apiRouteState               = "/state"
	apiRouteThemePreference     = "/preferences/theme"
	apiRouteLanguagePreference  = "/preferences/language"
	apiRouteCoverageCheck       = "/coverage/check"
	apiRoutePolicy              = "/policies/:key"
	apiRouteEvents              = "/events"
	apiRouteContactForm         = "/forms/contact"
	apiRouteSubscriptionForm    = "/forms/subscription"
	apiRouteSpeedTest           = "/speed-test"
	corsOriginWildcard          = "*"
	corsHeaderContentType       = "Content-Type"
	corsHeaderAccept            = "Accept"
	httpMethodGet               = "GET"
	httpMethodOptions           = "OPTIONS"
	httpMethodPost              = "POST"
	corsPreflightMaxAgeDuration = 12 * time.Hour
)

var (
	corsAllowedMethods = []string{httpMethodPost, httpMethodGet, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderContentType, corsHeaderAccept}
	corsExposedHeaders = []string{corsHeaderContentType}
)

func registerRoutes(router *gin.Engine, serverConfig ServerConfig, components *serverComponents) {
	router.GET(routeHealth, components.siteHandlers.Health)
	if serverConfig.ServeMode.ServesWeb() {
		registerFrontendRoutes(router, components)
	}
	if serverConfig.ServeMode.ServesAPI() {
		registerBackendRoutes(router, components, apiCORS(serverConfig.PublicBaseURL))
	}
}

func registerFrontendRoutes(router *gin.Engine, components *serverComponents) {
	router.GET(routeRoot, components.siteHandlers.RequireVisitor(), components.siteHandlers.RenderPage)
	router.GET(httpapi.SitemapRoutePath, components.sitemapHandlers.RenderSitemap)
	router.GET(httpapi.ScriptRoutePath, components.assetHandlers.SiteJS)
	router.GET(httpapi.StylesheetRoutePath, components.assetHandlers.SiteCSS)
}

func registerBackendRoutes(router *gin.Engine, components *serverComponents, corsMiddleware gin.HandlerFunc) {
	apiGroup := router.Group(apiRoutePrefix)
	apiGroup.Use(corsMiddleware)
	apiGroup.OPTIONS("/*path", func(context *gin.Context) {})
	apiGroup.GET(apiRouteSpeedTest, components.speedTestHandlers.StreamSpeedTest)

	visitorGroup := apiGroup.Group("")
	visitorGroup.Use(components.siteHandlers.RequireVisitor())
	visitorGroup.GET(apiRouteState, components.siteHandlers.VisitorState)
	visitorGroup.POST(apiRouteThemePreference, components.siteHandlers.ChangeTheme)
	visitorGroup.POST(apiRouteLanguagePreference, components.siteHandlers.ChangeLanguage)
	visitorGroup.GET(apiRouteCoverageCheck, components.siteHandlers.CheckCoverage)
	visitorGroup.GET(apiRoutePolicy, components.siteHandlers.ShowPolicy)
	visitorGroup.POST(apiRouteEvents, components.siteHandlers.DispatchEvent)
	visitorGroup.POST(apiRouteContactForm, components.siteHandlers.SubmitContact)
	visitorGroup.POST(apiRouteSubscriptionForm, components.siteHandlers.SubmitSubscription)
}

// apiCORS allows credentialed calls from the site's own origin, or anonymous calls from anywhere when no
// origin is configured.
func apiCORS(publicBaseURL string) gin.HandlerFunc {
	if publicBaseURL == "" {
		return cors.New(cors.Config{
			AllowOrigins:     []string{corsOriginWildcard},
			AllowMethods:     corsAllowedMethods,
			AllowHeaders:     corsAllowedHeaders,
			ExposeHeaders:    corsExposedHeaders,
			AllowCredentials: false,
			MaxAge:           corsPreflightMaxAgeDuration,
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     []string{publicBaseURL},
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: true,
		MaxAge:           corsPreflightMaxAgeDuration,
	})
}
