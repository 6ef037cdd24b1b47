package content

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
)

// Site content keys.
const (
	KeyTranslations = "translations"
	KeyServices     = "services"
	KeyPackages     = "packages"
	KeyCoverage     = "coverage"
	KeyTestimonials = "testimonials"
	KeyContacts     = "contacts"
)

// Policy keys.
const (
	PolicyTerms   = "terms"
	PolicyUsage   = "usage"
	PolicyPrivacy = "privacy"
	PolicyRefund  = "refund"
)

// Store holds the documents of one load. It is not mutated after Loader.Load returns.
type Store struct {
	Translations i18n.Table
	Services     []Service
	Packages     *Packages
	Coverage     []CoverageArea
	Testimonials []Testimonial
	Contacts     Contacts
	Policies     map[string]PolicyDocument
	LoadedAt     time.Time

	present map[string]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Policies: make(map[string]PolicyDocument),
		present:  make(map[string]struct{}),
	}
}

// Has reports whether the site content document was loaded.
func (store *Store) Has(key string) bool {
	if store == nil {
		return false
	}
	_, present := store.present[key]
	return present
}

// Usable reports whether the base translation table is present.
func (store *Store) Usable() bool {
	return store != nil && store.Translations.Usable()
}

// Policy resolves a policy in the language, falling back to the base language.
func (store *Store) Policy(key string, languageCode string) (Policy, bool) {
	if store == nil {
		return Policy{}, false
	}
	document, present := store.Policies[key]
	if !present {
		return Policy{}, false
	}
	if policy, found := document[languageCode][key]; found {
		return policy, true
	}
	policy, found := document[i18n.BaseLanguage][key]
	return policy, found
}

// SetContent decodes a site content document into its typed slot.
func (store *Store) SetContent(key string, document json.RawMessage) error {
	var decodeErr error
	switch key {
	case KeyTranslations:
		var table i18n.Table
		if decodeErr = json.Unmarshal(document, &table); decodeErr == nil {
			store.Translations = table
		}
	case KeyServices:
		var services []Service
		if decodeErr = json.Unmarshal(document, &services); decodeErr == nil {
			store.Services = services
		}
	case KeyPackages:
		var packages Packages
		if decodeErr = json.Unmarshal(document, &packages); decodeErr == nil {
			store.Packages = &packages
		}
	case KeyCoverage:
		var areas []CoverageArea
		if decodeErr = json.Unmarshal(document, &areas); decodeErr == nil {
			store.Coverage = areas
		}
	case KeyTestimonials:
		var testimonials []Testimonial
		if decodeErr = json.Unmarshal(document, &testimonials); decodeErr == nil {
			store.Testimonials = testimonials
		}
	case KeyContacts:
		var contacts Contacts
		if decodeErr = json.Unmarshal(document, &contacts); decodeErr == nil {
			store.Contacts = contacts
		}
	default:
		return fmt.Errorf("content: unknown content key %q", key)
	}
	if decodeErr != nil {
		return fmt.Errorf("content: decode %s: %w", key, decodeErr)
	}
	store.present[key] = struct{}{}
	return nil
}

// SetPolicy decodes a policy document.
func (store *Store) SetPolicy(key string, document json.RawMessage) error {
	var policy PolicyDocument
	if decodeErr := json.Unmarshal(document, &policy); decodeErr != nil {
		return fmt.Errorf("content: decode policy %s: %w", key, decodeErr)
	}
	store.Policies[key] = policy
	return nil
}
