package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/markup"
	"github.com/MarkoPoloResearchLab/sinthia_site/pkg/footer"
)

//go:embed templates/index.html
var pageMarkup []byte

// Element identifiers of the page markup.
const (
	ServicesContainerID        = "services-container"
	PackagesContainerID        = "packages-container"
	SpecialPackagesContainerID = "special-packages-container"
	CoverageSelectID           = "coverage-area-select"
	CoverageResultID           = "coverage-result"
	TestimonialSliderID        = "testimonial-slider"
	SupportRatingStatID        = "support-rating-stat"
	FooterHostID               = "footer-host"
	PolicyTitleID              = "policy-title"
	PolicyContentID            = "policy-content"
	SelectedPackageTextID      = "selected-package-text"
	HiddenPackageNameID        = "hidden-package-name"
	TermsAgreeID               = "terms-agree"
	SubmitRequestButtonID      = "submit-request-btn"
	DateOfBirthID              = "dob"
	UserIDInputID              = "user-id"

	themeIconID       = "theme-icon"
	mobileThemeIconID = "header-theme-icon-mobile"
)

const (
	themeLight = "light"

	classLightMode   = "light-mode"
	classLanguageBn  = "lang-bn"
	classSun         = "fa-sun"
	classMoon        = "fa-moon"
	classOpen        = "open"
	classHiddenAlpha = "opacity-0"
	classInvalid     = "ring-2"
	classInvalidTone = "ring-red-500"

	attributeLang        = "lang"
	attributeDataTarget  = "data-target"
	attributeValue       = "value"
	attributeChecked     = "checked"
	attributeDisabled    = "disabled"
	attributeMax         = "max"
	attributeName        = "name"
	attributeType        = "type"
	tokenFieldName       = "csrf_token"
	hiddenInputType      = "hidden"
	selectedPackageKey   = "selected_package_text"
	selectedPackageLabel = "Selected Plan:"
	dateLayout           = "2006-01-02"
)

var statusTemplate = template.Must(template.New("status").Parse(`<p class="{{.Class}}">{{.Message}}</p>`))

// Status is the message shown in a form's status area.
type Status struct {
	Class   string `json:"class"`
	Message string `json:"message"`
}

// PageInput is the visitor state projected onto the page.
type PageInput struct {
	Store           *content.Store
	Language        string
	Theme           string
	Now             time.Time
	FormTokens      map[string]string
	OpenModals      []string
	Policy          *PolicyView
	Statuses        map[string]Status
	SelectedPackage string
	TermsAccepted   bool
	SubmitDisabled  bool
	CoverageResult  *CoverageResult
	InvalidUserID   bool

	// RevealGeneration lets the client replay scroll reveals after a language change.
	RevealGeneration int
}

// Page renders the marketing page.
type Page struct {
	logger *zap.Logger
}

// NewPage constructs a Page renderer.
func NewPage(logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{logger: logger}
}

// Render builds the localized page for the input.
func (page *Page) Render(input PageInput) ([]byte, error) {
	document, parseErr := markup.ParseBytes(pageMarkup)
	if parseErr != nil {
		return nil, fmt.Errorf("render page: %w", parseErr)
	}
	store := input.Store
	if store == nil {
		store = content.NewStore()
	}

	applyPreferences(document, input.Language, input.Theme)
	applyRevealGeneration(document, input.RevealGeneration)

	if injectErr := page.injectContent(document, store, input.Language); injectErr != nil {
		return nil, injectErr
	}
	if injectErr := page.injectState(document, store, input); injectErr != nil {
		return nil, injectErr
	}

	i18n.ApplyContactLinks(document, store.Contacts)
	i18n.NewTranslator(store.Translations, page.logger).Apply(document, input.Language, input.Now)

	return document.Bytes()
}

func applyPreferences(document *markup.Document, languageCode string, theme string) {
	if htmlElement := document.Root(); htmlElement != nil {
		markup.SetAttribute(htmlElement, attributeLang, languageCode)
		markup.ToggleClass(htmlElement, classLightMode, theme == themeLight)
	}
	if body := document.Body(); body != nil {
		markup.ToggleClass(body, classLanguageBn, languageCode == languageBengali)
	}
	isLight := theme == themeLight
	for _, iconID := range []string{themeIconID, mobileThemeIconID} {
		if icon := document.ElementByID(iconID); icon != nil {
			markup.ToggleClass(icon, classSun, isLight)
			markup.ToggleClass(icon, classMoon, !isLight)
		}
	}
}

func (page *Page) injectContent(document *markup.Document, store *content.Store, languageCode string) error {
	if store.Has(content.KeyServices) {
		fragment, renderErr := Services(store.Services)
		if renderErr != nil {
			return renderErr
		}
		page.setInner(document, ServicesContainerID, fragment)
	}
	if store.Has(content.KeyPackages) && store.Packages != nil {
		if store.Packages.Standard != nil {
			fragment, renderErr := StandardPackages(store.Packages.Standard, languageCode)
			if renderErr != nil {
				return renderErr
			}
			page.setInner(document, PackagesContainerID, fragment)
		}
		if store.Packages.Special != nil {
			fragment, renderErr := SpecialPackages(store.Packages.Special, languageCode)
			if renderErr != nil {
				return renderErr
			}
			page.setInner(document, SpecialPackagesContainerID, fragment)
		}
	}
	if store.Has(content.KeyCoverage) && store.Has(content.KeyTranslations) {
		fragment, renderErr := CoverageOptions(store.Coverage, store.Translations, languageCode)
		if renderErr != nil {
			return renderErr
		}
		page.setInner(document, CoverageSelectID, fragment)
	}
	annotateStatistics(document, store)
	annotateSlider(document)
	if store.Has(content.KeyTestimonials) {
		fragment, renderErr := Testimonials(store.Testimonials, languageCode)
		if renderErr != nil {
			return renderErr
		}
		page.setInner(document, TestimonialSliderID, fragment)
	}
	footerHTML, footerErr := footer.Render(footer.SiteConfig())
	if footerErr != nil {
		return fmt.Errorf("render footer: %w", footerErr)
	}
	page.setInner(document, FooterHostID, footerHTML)
	return nil
}

func (page *Page) injectState(document *markup.Document, store *content.Store, input PageInput) error {
	for formID, token := range input.FormTokens {
		if form := document.ElementByID(formID); form != nil && token != "" {
			InjectToken(form, token)
		}
	}
	for _, modalID := range input.OpenModals {
		if modal := document.ElementByID(modalID); modal != nil {
			markup.ToggleClass(modal, classOpen, true)
		}
	}
	if input.Policy != nil {
		if title := document.ElementByID(PolicyTitleID); title != nil {
			markup.SetText(title, input.Policy.Title)
		}
		page.setInner(document, PolicyContentID, input.Policy.Content)
	}
	for statusID, status := range input.Statuses {
		fragment, renderErr := execute(statusTemplate, status)
		if renderErr != nil {
			return renderErr
		}
		page.setInner(document, statusID, fragment)
	}
	if input.SelectedPackage != "" {
		if label := document.ElementByID(SelectedPackageTextID); label != nil {
			prefix := store.Translations.Text(input.Language, selectedPackageKey, selectedPackageLabel)
			markup.SetText(label, prefix+" "+input.SelectedPackage)
		}
		if hidden := document.ElementByID(HiddenPackageNameID); hidden != nil {
			markup.SetAttribute(hidden, attributeValue, input.SelectedPackage)
		}
	}
	if terms := document.ElementByID(TermsAgreeID); terms != nil {
		if input.TermsAccepted {
			markup.SetAttribute(terms, attributeChecked, attributeChecked)
		} else {
			markup.RemoveAttribute(terms, attributeChecked)
		}
	}
	if submit := document.ElementByID(SubmitRequestButtonID); submit != nil {
		if input.SubmitDisabled {
			markup.SetAttribute(submit, attributeDisabled, attributeDisabled)
		} else {
			markup.RemoveAttribute(submit, attributeDisabled)
		}
	}
	if dateOfBirth := document.ElementByID(DateOfBirthID); dateOfBirth != nil && !input.Now.IsZero() {
		markup.SetAttribute(dateOfBirth, attributeMax, input.Now.Format(dateLayout))
	}
	if input.CoverageResult != nil {
		fragment, renderErr := CoverageResultFragment(*input.CoverageResult)
		if renderErr != nil {
			return renderErr
		}
		if result := document.ElementByID(CoverageResultID); result != nil {
			page.setInner(document, CoverageResultID, fragment)
			markup.ToggleClass(result, classHiddenAlpha, false)
		}
	}
	if userID := document.ElementByID(UserIDInputID); userID != nil {
		markup.ToggleClass(userID, classInvalid, input.InvalidUserID)
		markup.ToggleClass(userID, classInvalidTone, input.InvalidUserID)
	}
	return nil
}

func (page *Page) setInner(document *markup.Document, elementID string, fragment template.HTML) {
	container := document.ElementByID(elementID)
	if container == nil {
		return
	}
	if innerErr := markup.SetInnerHTML(container, string(fragment)); innerErr != nil {
		page.logger.Warn("render_fragment_failed", zap.String("element_id", elementID), zap.Error(innerErr))
	}
}

// InjectToken sets the csrf_token field of the form, prepending a hidden input when absent.
func InjectToken(form *html.Node, token string) {
	field := markup.FindDescendant(form, func(node *html.Node) bool {
		name, _ := markup.Attribute(node, attributeName)
		return node.Data == "input" && name == tokenFieldName
	})
	if field != nil {
		markup.SetAttribute(field, attributeValue, token)
		return
	}
	markup.PrependChild(form, markup.NewElement("input", attributeType, hiddenInputType, attributeName, tokenFieldName, attributeValue, token))
}
