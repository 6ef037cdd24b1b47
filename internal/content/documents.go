package content

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
)

// CoverageStatus describes whether service is offered in an area.
type CoverageStatus string

const (
	CoverageAvailable   CoverageStatus = "available"
	CoverageComingSoon  CoverageStatus = "coming_soon"
	CoverageUnavailable CoverageStatus = "unavailable"
)

// Known reports whether the status is one of the recognized values.
func (status CoverageStatus) Known() bool {
	switch status {
	case CoverageAvailable, CoverageComingSoon, CoverageUnavailable:
		return true
	default:
		return false
	}
}

// LocalizedText maps a language code to text.
type LocalizedText map[string]string

// In returns the text for the language, falling back to the base language.
func (text LocalizedText) In(languageCode string) string {
	if localized := text[languageCode]; localized != "" {
		return localized
	}
	return text[i18n.BaseLanguage]
}

// Figure is a numeric value that content authors may write as a JSON number or string.
type Figure string

// UnmarshalJSON accepts numbers and strings.
func (figure *Figure) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*figure = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*figure = Figure(strings.TrimSpace(text))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*figure = Figure(number.String())
	return nil
}

// String returns the figure as written.
func (figure Figure) String() string {
	return string(figure)
}

// Service is one entry of the services document.
type Service struct {
	Icon           string `json:"icon"`
	Color          string `json:"color"`
	TitleKey       string `json:"title_key"`
	DescriptionKey string `json:"desc_key"`
}

// Package is a subscription offering.
type Package struct {
	Name     string            `json:"name"`
	Speed    Figure            `json:"speed"`
	Price    Figure            `json:"price"`
	Color    string            `json:"color"`
	Features map[string]Figure `json:"features,omitempty"`
}

// Packages groups the standard and special tiers.
type Packages struct {
	Standard []Package `json:"standard"`
	Special  []Package `json:"special"`
}

// CoverageArea is an area that can be checked for service availability.
type CoverageArea struct {
	Value  string         `json:"value"`
	Name   LocalizedText  `json:"name"`
	Status CoverageStatus `json:"status"`
}

// Testimonial is a customer quote with a 1..5 rating.
type Testimonial struct {
	Quote  LocalizedText `json:"quote"`
	Name   string        `json:"name"`
	Rating int           `json:"rating"`
}

// Contacts maps a contact key to its value. Non-string values are ignored.
type Contacts map[string]string

// UnmarshalJSON keeps the string-valued entries of an object.
func (contacts *Contacts) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := make(Contacts, len(raw))
	for key, value := range raw {
		var text string
		if json.Unmarshal(value, &text) == nil {
			parsed[key] = text
		}
	}
	*contacts = parsed
	return nil
}

// PolicyFormatMarkdown marks policy content authored in Markdown.
const PolicyFormatMarkdown = "markdown"

// Policy is a titled legal text.
type Policy struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// PolicyDocument maps language to policy key to policy.
type PolicyDocument map[string]map[string]Policy
