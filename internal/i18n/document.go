package i18n

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/markup"
)

const (
	// KeyAttribute tags an element with its translation key.
	KeyAttribute = "data-key"
	// ContactKeyAttribute tags an element with its contact key.
	ContactKeyAttribute = "data-contact-key"

	keyFooterCopyright   = "footer_copyright"
	keyPageTitle         = "page_title"
	yearPlaceholder      = "{year}"
	placeholderAttribute = "placeholder"
	hrefAttribute        = "href"
	defaultPageTitle     = "Sinthia Telecom"

	contactKeyEmail   = "email"
	contactKeyHotline = "hotline"
	mailtoScheme      = "mailto:"
	telephoneScheme   = "tel:"
	anchorTag         = "a"
	paragraphTag      = "p"
)

var richMarkupKeys = map[string]struct{}{
	"hero_heading": {},
}

// Translator applies a translation table to documents.
type Translator struct {
	table  Table
	logger *zap.Logger
}

// NewTranslator constructs a Translator over the table.
func NewTranslator(table Table, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{table: table, logger: logger}
}

// Apply localizes every keyed element and the document title. Unresolved keys leave the element untouched.
func (translator *Translator) Apply(document *markup.Document, languageCode string, now time.Time) {
	year := strconv.Itoa(now.Year())
	for _, element := range document.ElementsWithAttribute(KeyAttribute) {
		key, _ := markup.Attribute(element, KeyAttribute)
		translation, resolved := translator.table.Resolve(languageCode, key)
		if !resolved {
			continue
		}

		if key == keyFooterCopyright {
			markup.SetText(element, strings.ReplaceAll(translation, yearPlaceholder, year))
			continue
		}
		if _, hasPlaceholder := markup.Attribute(element, placeholderAttribute); hasPlaceholder {
			markup.SetAttribute(element, placeholderAttribute, translation)
			continue
		}
		if _, isRichMarkup := richMarkupKeys[key]; isRichMarkup {
			if innerErr := markup.SetInnerHTML(element, translation); innerErr != nil {
				translator.logger.Warn("apply_rich_translation", zap.String("key", key), zap.Error(innerErr))
			}
			continue
		}
		markup.SetText(element, translation)
	}

	document.SetTitle(translator.table.Text(languageCode, keyPageTitle, defaultPageTitle))
}

// ApplyContactLinks fills every contact-keyed anchor and paragraph from the contacts document.
func ApplyContactLinks(document *markup.Document, contacts map[string]string) {
	if contacts == nil {
		return
	}
	for _, element := range document.ElementsWithAttribute(ContactKeyAttribute) {
		key, _ := markup.Attribute(element, ContactKeyAttribute)
		value := contacts[key]
		if value == "" {
			continue
		}
		switch element.Data {
		case anchorTag:
			markup.SetAttribute(element, hrefAttribute, ContactHref(key, value))
		case paragraphTag:
			markup.SetText(element, value)
		}
	}
}

// ContactHref derives the link target for a contact value.
func ContactHref(key string, value string) string {
	switch key {
	case contactKeyEmail:
		return mailtoScheme + value
	case contactKeyHotline:
		return telephoneScheme + strings.Join(strings.Fields(value), "")
	default:
		return value
	}
}
