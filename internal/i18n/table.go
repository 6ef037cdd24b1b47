// Package i18n resolves localized strings and applies them to page markup.
package i18n

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/language"
)

// BaseLanguage is the language every lookup falls back to.
const BaseLanguage = "en"

// Table maps a language code to its key/text pairs.
type Table map[string]map[string]string

// UnmarshalJSON keeps the string entries of each language object. Non-object languages and
// non-string or empty values are dropped rather than failing the whole table.
func (table *Table) UnmarshalJSON(data []byte) error {
	var languages map[string]json.RawMessage
	if err := json.Unmarshal(data, &languages); err != nil {
		return err
	}
	parsed := make(Table, len(languages))
	for languageCode, languageDocument := range languages {
		var entries map[string]json.RawMessage
		if json.Unmarshal(languageDocument, &entries) != nil {
			continue
		}
		texts := make(map[string]string, len(entries))
		for key, value := range entries {
			var text string
			if json.Unmarshal(value, &text) == nil && text != "" {
				texts[key] = text
			}
		}
		parsed[languageCode] = texts
	}
	*table = parsed
	return nil
}

// HasLanguage reports whether the table carries the language.
func (table Table) HasLanguage(languageCode string) bool {
	_, present := table[languageCode]
	return present
}

// Usable reports whether the base language is present.
func (table Table) Usable() bool {
	return table.HasLanguage(BaseLanguage)
}

// Resolve looks the key up in the language, then in the base language.
func (table Table) Resolve(languageCode string, key string) (string, bool) {
	if entries, present := table[languageCode]; present {
		if text := entries[key]; text != "" {
			return text, true
		}
	}
	if entries, present := table[BaseLanguage]; present {
		if text := entries[key]; text != "" {
			return text, true
		}
	}
	return "", false
}

// Text resolves the key and falls back to the literal when neither language has it.
func (table Table) Text(languageCode string, key string, fallback string) string {
	if text, resolved := table.Resolve(languageCode, key); resolved {
		return text
	}
	return fallback
}

// NormalizeLanguage canonicalizes a language code to its base subtag ("en-US" becomes "en").
func NormalizeLanguage(rawCode string) (string, bool) {
	trimmed := strings.TrimSpace(rawCode)
	if trimmed == "" {
		return "", false
	}
	tag, parseErr := language.Parse(trimmed)
	if parseErr != nil {
		return "", false
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", false
	}
	return base.String(), true
}
