package render

import (
	"html/template"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
)

const (
	coveragePlaceholderKey      = "coverage_select_placeholder"
	coveragePlaceholderFallback = "Select an area..."

	coverageAvailableKey   = "coverage_available"
	coverageComingSoonKey  = "coverage_coming_soon"
	coverageUnavailableKey = "coverage_unavailable"

	// CoverageClassAvailable and friends are the status colors of a coverage result.
	CoverageClassAvailable   = "text-green-400"
	CoverageClassComingSoon  = "text-yellow-400"
	CoverageClassUnavailable = "text-red-400"
)

var coverageOptionsTemplate = template.Must(template.New("coverage_options").Parse(
	`<option value="" disabled selected>{{.Placeholder}}</option>{{range .Options}}<option value="{{.Value}}">{{.Label}}</option>{{end}}`))

var coverageResultTemplate = template.Must(template.New("coverage_result").Parse(
	`<div class="pt-4"><p class="{{.Class}} animate-pulse">{{.Message}}</p></div>`))

type coverageOption struct {
	Value string
	Label string
}

// CoverageResult is the outcome of checking one area.
type CoverageResult struct {
	Area    string `json:"area"`
	Status  string `json:"status"`
	Class   string `json:"class"`
	Message string `json:"message"`
}

// SortCoverageAreas returns a copy of the areas ordered by English name with English collation.
func SortCoverageAreas(areas []content.CoverageArea) []content.CoverageArea {
	sorted := make([]content.CoverageArea, len(areas))
	copy(sorted, areas)
	collator := collate.New(language.English)
	sort.SliceStable(sorted, func(left, right int) bool {
		return collator.CompareString(sorted[left].Name[i18n.BaseLanguage], sorted[right].Name[i18n.BaseLanguage]) < 0
	})
	return sorted
}

// CoverageLabel is the option label of an area in the language.
func CoverageLabel(area content.CoverageArea, languageCode string) string {
	englishName := area.Name[i18n.BaseLanguage]
	if languageCode == i18n.BaseLanguage {
		return englishName
	}
	localizedName := area.Name[languageCode]
	if localizedName == "" {
		return englishName
	}
	return englishName + " (" + localizedName + ")"
}

// CoverageOptions renders the placeholder option followed by the sorted areas.
func CoverageOptions(areas []content.CoverageArea, table i18n.Table, languageCode string) (template.HTML, error) {
	sorted := SortCoverageAreas(areas)
	options := make([]coverageOption, 0, len(sorted))
	for _, area := range sorted {
		options = append(options, coverageOption{Value: area.Value, Label: CoverageLabel(area, languageCode)})
	}
	return execute(coverageOptionsTemplate, struct {
		Placeholder string
		Options     []coverageOption
	}{
		Placeholder: table.Text(languageCode, coveragePlaceholderKey, coveragePlaceholderFallback),
		Options:     options,
	})
}

// CheckCoverage resolves the status of the selected area. An empty selection reports false.
func CheckCoverage(areas []content.CoverageArea, table i18n.Table, languageCode string, selected string) (CoverageResult, bool) {
	if selected == "" {
		return CoverageResult{}, false
	}
	status := content.CoverageUnavailable
	for _, area := range areas {
		if area.Value == selected {
			status = area.Status
			break
		}
	}
	result := CoverageResult{Area: selected}
	switch status {
	case content.CoverageAvailable:
		result.Status = string(content.CoverageAvailable)
		result.Class = CoverageClassAvailable
		result.Message = table.Text(languageCode, coverageAvailableKey, coverageAvailableKey)
	case content.CoverageComingSoon:
		result.Status = string(content.CoverageComingSoon)
		result.Class = CoverageClassComingSoon
		result.Message = table.Text(languageCode, coverageComingSoonKey, coverageComingSoonKey)
	default:
		result.Status = string(content.CoverageUnavailable)
		result.Class = CoverageClassUnavailable
		result.Message = table.Text(languageCode, coverageUnavailableKey, coverageUnavailableKey)
	}
	return result, true
}

// CoverageResultFragment renders the result block shown under the area selector.
func CoverageResultFragment(result CoverageResult) (template.HTML, error) {
	return execute(coverageResultTemplate, result)
}
