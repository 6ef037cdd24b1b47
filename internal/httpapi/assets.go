package httpapi

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ScriptRoutePath     = "/assets/site.js"
	StylesheetRoutePath = "/assets/site.css"

	javaScriptContentType = "application/javascript; charset=utf-8"
	stylesheetContentType = "text/css; charset=utf-8"
	assetCacheControl     = "public, max-age=300"
)

//go:embed assets/site.js
var siteJavaScriptSource []byte

//go:embed assets/site.css
var siteStylesheetSource []byte

type AssetHandlers struct{}

func NewAssetHandlers() *AssetHandlers {
	return &AssetHandlers{}
}

func (handlers *AssetHandlers) SiteJS(context *gin.Context) {
	context.Header("Cache-Control", assetCacheControl)
	context.Data(http.StatusOK, javaScriptContentType, siteJavaScriptSource)
}

func (handlers *AssetHandlers) SiteCSS(context *gin.Context) {
	context.Header("Cache-Control", assetCacheControl)
	context.Data(http.StatusOK, stylesheetContentType, siteStylesheetSource)
}
