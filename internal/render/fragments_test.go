package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
)

func TestServicesStaggerDelays(testingT *testing.T) {
	store := fixtureStore(testingT)

	fragment, renderErr := Services(store.Services)
	require.NoError(testingT, renderErr)

	rendered := string(fragment)
	require.Equal(testingT, 2, strings.Count(rendered, `class="content-card p-8`))
	require.Contains(testingT, rendered, `--delay: 0.00s;`)
	require.Contains(testingT, rendered, `--delay: 0.10s;`)
	require.Contains(testingT, rendered, `data-key="service_fiber_title"`)
	require.Contains(testingT, rendered, `data-key="service_support_desc"`)
	require.Less(testingT, strings.Index(rendered, "service_fiber_title"), strings.Index(rendered, "service_support_title"))
}

func TestPackagesPriceAndUnitFollowLanguage(testingT *testing.T) {
	testCases := []struct {
		name          string
		languageCode  string
		expectedPrice string
		expectedUnit  string
	}{
		{name: "bengali", languageCode: "bn", expectedPrice: "৳ 500", expectedUnit: "/মাস"},
		{name: "english", languageCode: "en", expectedPrice: "BDT 500", expectedUnit: "/mo"},
	}
	store := fixtureStore(testingT)
	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			fragment, renderErr := StandardPackages(store.Packages.Standard, testCase.languageCode)
			require.NoError(testingT, renderErr)
			rendered := string(fragment)
			require.Contains(testingT, rendered, testCase.expectedPrice)
			require.Contains(testingT, rendered, testCase.expectedUnit)
		})
	}
}

func TestStandardPackagesListServiceThroughput(testingT *testing.T) {
	store := fixtureStore(testingT)

	fragment, renderErr := StandardPackages(store.Packages.Standard, "en")
	require.NoError(testingT, renderErr)

	rendered := string(fragment)
	require.Contains(testingT, rendered, "Facebook: 40 Mbps")
	require.Contains(testingT, rendered, "YouTube: 80 Mbps")
	require.Contains(testingT, rendered, "BDIX: 100 Mbps")
	require.Contains(testingT, rendered, "FTP: 80 Mbps")
	require.Contains(testingT, rendered, `data-package-name="Pro"`)
	require.Contains(testingT, rendered, "BDT 1,050")
	require.Contains(testingT, rendered, `--delay: 0.05s;`)
	require.NotContains(testingT, rendered, "contention_ratio")
}

func TestSpecialPackagesShowDisclaimer(testingT *testing.T) {
	store := fixtureStore(testingT)

	fragment, renderErr := SpecialPackages(store.Packages.Special, "bn")
	require.NoError(testingT, renderErr)

	rendered := string(fragment)
	require.Contains(testingT, rendered, `data-key="contention_ratio"`)
	require.Contains(testingT, rendered, `data-package-name="Gamer"`)
	require.NotContains(testingT, rendered, "Facebook:")
}

func TestCoverageOptionsSortByEnglishName(testingT *testing.T) {
	store := fixtureStore(testingT)

	fragment, renderErr := CoverageOptions(store.Coverage, store.Translations, "bn")
	require.NoError(testingT, renderErr)

	rendered := string(fragment)
	require.True(testingT, strings.HasPrefix(rendered, `<option value="" disabled selected>Select your area</option>`))
	badda := strings.Index(rendered, `value="badda"`)
	gulshan := strings.Index(rendered, `value="gulshan"`)
	mirpur := strings.Index(rendered, `value="mirpur"`)
	uttara := strings.Index(rendered, `value="uttara"`)
	require.True(testingT, badda < gulshan && gulshan < mirpur && mirpur < uttara)
	require.Contains(testingT, rendered, "Badda (বাড্ডা)")
	require.Contains(testingT, rendered, `<option value="mirpur">Mirpur</option>`)
	require.Equal(testingT, "uttara", store.Coverage[0].Value)
}

func TestCoverageOptionsPlaceholderFallback(testingT *testing.T) {
	fragment, renderErr := CoverageOptions(nil, nil, "en")
	require.NoError(testingT, renderErr)
	require.Equal(testingT, `<option value="" disabled selected>Select an area...</option>`, string(fragment))
}

func TestCoverageLabelInEnglishOmitsLocalizedName(testingT *testing.T) {
	area := content.CoverageArea{Value: "uttara", Name: content.LocalizedText{"en": "Uttara", "bn": "উত্তরা"}}
	require.Equal(testingT, "Uttara", CoverageLabel(area, "en"))
	require.Equal(testingT, "Uttara (উত্তরা)", CoverageLabel(area, "bn"))
}

func TestCheckCoverage(testingT *testing.T) {
	store := fixtureStore(testingT)
	testCases := []struct {
		name            string
		languageCode    string
		selected        string
		expectedClass   string
		expectedMessage string
	}{
		{name: "available localized", languageCode: "bn", selected: "uttara", expectedClass: CoverageClassAvailable, expectedMessage: "সুখবর! আপনার এলাকায় আমরা আছি।"},
		{name: "coming soon falls back to english", languageCode: "bn", selected: "badda", expectedClass: CoverageClassComingSoon, expectedMessage: "We are coming to your area soon."},
		{name: "unavailable", languageCode: "en", selected: "mirpur", expectedClass: CoverageClassUnavailable, expectedMessage: "Sorry, we are not in your area yet."},
		{name: "unrecognized status", languageCode: "en", selected: "gulshan", expectedClass: CoverageClassUnavailable, expectedMessage: "Sorry, we are not in your area yet."},
		{name: "unknown area", languageCode: "en", selected: "nowhere", expectedClass: CoverageClassUnavailable, expectedMessage: "Sorry, we are not in your area yet."},
	}
	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			result, checked := CheckCoverage(store.Coverage, store.Translations, testCase.languageCode, testCase.selected)
			require.True(testingT, checked)
			require.Equal(testingT, testCase.expectedClass, result.Class)
			require.Equal(testingT, testCase.expectedMessage, result.Message)
		})
	}
}

func TestCheckCoverageIgnoresEmptySelection(testingT *testing.T) {
	store := fixtureStore(testingT)
	_, checked := CheckCoverage(store.Coverage, store.Translations, "en", "")
	require.False(testingT, checked)
}

func TestCoverageResultFragment(testingT *testing.T) {
	fragment, renderErr := CoverageResultFragment(CoverageResult{Class: CoverageClassAvailable, Message: "Yes"})
	require.NoError(testingT, renderErr)
	require.Equal(testingT, `<div class="pt-4"><p class="text-green-400 animate-pulse">Yes</p></div>`, string(fragment))
}

func TestTestimonialsLocalizeQuotesAndStars(testingT *testing.T) {
	store := fixtureStore(testingT)

	fragment, renderErr := Testimonials(store.Testimonials, "bn")
	require.NoError(testingT, renderErr)

	rendered := string(fragment)
	require.Contains(testingT, rendered, "সেরা সংযোগ।")
	require.Contains(testingT, rendered, "Reliable and fast.")
	require.Equal(testingT, 14, strings.Count(rendered, "text-blue-500\""))
	require.Equal(testingT, 1, strings.Count(rendered, "text-gray-600"))
	require.Contains(testingT, rendered, `class="testimonial-slide active"`)
	require.Contains(testingT, rendered, `class="testimonial-slide next"`)
	require.Contains(testingT, rendered, `class="testimonial-slide prev"`)
}

func TestAverageRating(testingT *testing.T) {
	store := fixtureStore(testingT)

	average, present := AverageRating(store.Testimonials)
	require.True(testingT, present)
	require.InDelta(testingT, 4.7, average, 0.0001)

	_, present = AverageRating(nil)
	require.False(testingT, present)
}

func TestStars(testingT *testing.T) {
	require.Equal(testingT, []bool{true, true, true, false, false}, Stars(3))
	require.Equal(testingT, []bool{false, false, false, false, false}, Stars(0))
}

func TestPolicyConvertsMarkdown(testingT *testing.T) {
	store := fixtureStore(testingT)
	policy, found := store.Policy(content.PolicyPrivacy, "en")
	require.True(testingT, found)

	view, renderErr := Policy(content.PolicyPrivacy, policy)
	require.NoError(testingT, renderErr)
	require.Equal(testingT, "Privacy", view.Title)
	require.Contains(testingT, string(view.Content), "<strong>never</strong>")
}

func TestPolicyKeepsMarkupContent(testingT *testing.T) {
	view, renderErr := Policy(content.PolicyTerms, content.Policy{Title: "Terms", Content: "<p>Be kind.</p>"})
	require.NoError(testingT, renderErr)
	require.Equal(testingT, "<p>Be kind.</p>", string(view.Content))
}
