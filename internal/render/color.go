package render

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	hexColorPattern      = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColorPattern    = regexp.MustCompile(`^[a-zA-Z]+$`)
	functionColorPattern = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[0-9.%]+(?:deg)?(?:\s*[,/ ]\s*[0-9.%]+(?:deg)?){2,3}\s*\)$`)
	colorTokenPattern    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
)

// CSSColor passes a hex, named or rgb/hsl function color through as trusted CSS. Anything else yields "".
func CSSColor(raw string) template.CSS {
	color := strings.TrimSpace(raw)
	if hexColorPattern.MatchString(color) || namedColorPattern.MatchString(color) || functionColorPattern.MatchString(color) {
		return template.CSS(color)
	}
	return ""
}

// ColorVariable references the stylesheet's custom property for a package color token.
func ColorVariable(token string) template.CSS {
	name := strings.TrimSpace(token)
	if !colorTokenPattern.MatchString(name) {
		return ""
	}
	return template.CSS("var(--" + name + ")")
}
