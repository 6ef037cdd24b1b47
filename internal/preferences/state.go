// Package preferences keeps the visitor's theme and language choices.
package preferences

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
)

// Theme is the color scheme of the page.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Language is a supported display language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageBengali Language = "bn"
)

var (
	ErrUnsupportedTheme    = errors.New("preferences: unsupported theme")
	ErrUnsupportedLanguage = errors.New("preferences: unsupported language")
)

// ParseTheme validates a theme name.
func ParseTheme(raw string) (Theme, error) {
	switch theme := Theme(strings.ToLower(strings.TrimSpace(raw))); theme {
	case ThemeLight, ThemeDark:
		return theme, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTheme, raw)
	}
}

// ParseLanguage validates a language code; regional tags resolve to their base language.
func ParseLanguage(raw string) (Language, error) {
	normalized, valid := i18n.NormalizeLanguage(raw)
	if !valid {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
	}
	switch language := Language(normalized); language {
	case LanguageEnglish, LanguageBengali:
		return language, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
	}
}

// State is the preference pair of one visitor.
type State struct {
	Language Language `json:"language"`
	Theme    Theme    `json:"theme"`
	// RevealGeneration increases whenever scroll reveal animations must replay.
	RevealGeneration int `json:"reveal_generation"`
}

// ToggleTheme switches between light and dark.
func (state State) ToggleTheme() State {
	if state.Theme == ThemeLight {
		state.Theme = ThemeDark
	} else {
		state.Theme = ThemeLight
	}
	return state
}

// ToggleLanguage switches between English and Bengali and resets reveal animations.
func (state State) ToggleLanguage() State {
	if state.Language == LanguageEnglish {
		state.Language = LanguageBengali
	} else {
		state.Language = LanguageEnglish
	}
	state.RevealGeneration++
	return state
}

// WithLanguage selects a language, resetting reveal animations when it changes.
func (state State) WithLanguage(language Language) State {
	if state.Language != language {
		state.Language = language
		state.RevealGeneration++
	}
	return state
}

// IsLight reports whether the light theme is active.
func (state State) IsLight() bool {
	return state.Theme == ThemeLight
}

// Defaults are the preferences of a first visit.
type Defaults struct {
	Language Language
	Theme    Theme
}

// NewDefaults validates configured defaults.
func NewDefaults(rawLanguage string, rawTheme string) (Defaults, error) {
	language, languageErr := ParseLanguage(rawLanguage)
	if languageErr != nil {
		return Defaults{}, languageErr
	}
	theme, themeErr := ParseTheme(rawTheme)
	if themeErr != nil {
		return Defaults{}, themeErr
	}
	return Defaults{Language: language, Theme: theme}, nil
}

// State returns the default state.
func (defaults Defaults) State() State {
	return State{Language: defaults.Language, Theme: defaults.Theme}
}
