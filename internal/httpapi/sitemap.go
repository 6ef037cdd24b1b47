package httpapi

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
)

const (
	SitemapRoutePath       = "/sitemap.xml"
	sitemapContentType     = "application/xml; charset=utf-8"
	sitemapXMLNamespace    = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapXHTMLNamespace  = "http://www.w3.org/1999/xhtml"
	sitemapRenderFailure   = "sitemap_render_failed"
	sitemapDefaultBase     = "http://localhost:8080"
	sitemapLastModLayout   = "2006-01-02"
	sitemapAlternateRel    = "alternate"
	sitemapDefaultHreflang = "x-default"
	sitemapLanguageQuery   = "/?lang="
)

var sitemapLanguages = []preferences.Language{preferences.LanguageEnglish, preferences.LanguageBengali}

// SitemapContent exposes the currently loaded content.
type SitemapContent interface {
	Store() *content.Store
}

// SitemapHandlers lists the page once per display language, each entry
// pointing at its translations through hreflang alternates.
type SitemapHandlers struct {
	baseURL string
	content SitemapContent
}

type sitemapAlternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

type sitemapURLEntry struct {
	Location   string             `xml:"loc"`
	LastMod    string             `xml:"lastmod,omitempty"`
	Alternates []sitemapAlternate `xml:"xhtml:link"`
}

type sitemapURLSet struct {
	XMLName    xml.Name          `xml:"urlset"`
	XMLNS      string            `xml:"xmlns,attr"`
	XHTMLXMLNS string            `xml:"xmlns:xhtml,attr"`
	URLs       []sitemapURLEntry `xml:"url"`
}

// NewSitemapHandlers builds the sitemap for baseURL. A nil content source
// omits lastmod.
func NewSitemapHandlers(baseURL string, siteContent SitemapContent) *SitemapHandlers {
	return &SitemapHandlers{
		baseURL: normalizeSitemapBaseURL(baseURL),
		content: siteContent,
	}
}

func (handlers *SitemapHandlers) RenderSitemap(context *gin.Context) {
	alternates := handlers.alternates()
	lastModified := handlers.lastModified()

	locations := []string{handlers.baseURL + "/"}
	for _, siteLanguage := range sitemapLanguages {
		locations = append(locations, handlers.languageURL(siteLanguage))
	}

	urlEntries := make([]sitemapURLEntry, 0, len(locations))
	for _, location := range locations {
		urlEntries = append(urlEntries, sitemapURLEntry{
			Location:   location,
			LastMod:    lastModified,
			Alternates: alternates,
		})
	}

	payload := sitemapURLSet{
		XMLNS:      sitemapXMLNamespace,
		XHTMLXMLNS: sitemapXHTMLNamespace,
		URLs:       urlEntries,
	}

	encoded, err := xml.MarshalIndent(payload, "", "  ")
	if err != nil {
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: sitemapRenderFailure})
		return
	}

	document := append([]byte(xml.Header), encoded...)
	context.Data(http.StatusOK, sitemapContentType, document)
}

func (handlers *SitemapHandlers) alternates() []sitemapAlternate {
	alternates := make([]sitemapAlternate, 0, len(sitemapLanguages)+1)
	for _, siteLanguage := range sitemapLanguages {
		alternates = append(alternates, sitemapAlternate{
			Rel:      sitemapAlternateRel,
			Hreflang: language.Make(string(siteLanguage)).String(),
			Href:     handlers.languageURL(siteLanguage),
		})
	}
	return append(alternates, sitemapAlternate{
		Rel:      sitemapAlternateRel,
		Hreflang: sitemapDefaultHreflang,
		Href:     handlers.baseURL + "/",
	})
}

func (handlers *SitemapHandlers) lastModified() string {
	if handlers.content == nil {
		return ""
	}
	store := handlers.content.Store()
	if store == nil || store.LoadedAt.IsZero() {
		return ""
	}
	return store.LoadedAt.UTC().Format(sitemapLastModLayout)
}

func (handlers *SitemapHandlers) languageURL(siteLanguage preferences.Language) string {
	return handlers.baseURL + sitemapLanguageQuery + string(siteLanguage)
}

func normalizeSitemapBaseURL(baseURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return sitemapDefaultBase
	}
	return trimmed
}
