package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/markup"
)

var testPageNow = time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

func renderTestPage(testingT *testing.T, input PageInput) *markup.Document {
	testingT.Helper()
	rendered, renderErr := NewPage(nil).Render(input)
	require.NoError(testingT, renderErr)
	document, parseErr := markup.ParseBytes(rendered)
	require.NoError(testingT, parseErr)
	return document
}

func TestPageAppliesPreferences(testingT *testing.T) {
	testCases := []struct {
		name          string
		languageCode  string
		theme         string
		expectLight   bool
		expectBengali bool
		expectedIcon  string
	}{
		{name: "bengali light", languageCode: "bn", theme: "light", expectLight: true, expectBengali: true, expectedIcon: "fa-sun"},
		{name: "english dark", languageCode: "en", theme: "dark", expectLight: false, expectBengali: false, expectedIcon: "fa-moon"},
	}
	store := fixtureStore(testingT)
	for _, testCase := range testCases {
		testingT.Run(testCase.name, func(testingT *testing.T) {
			document := renderTestPage(testingT, PageInput{Store: store, Language: testCase.languageCode, Theme: testCase.theme, Now: testPageNow})

			languageCode, _ := markup.Attribute(document.Root(), "lang")
			require.Equal(testingT, testCase.languageCode, languageCode)
			require.Equal(testingT, testCase.expectLight, markup.HasClass(document.Root(), "light-mode"))
			require.Equal(testingT, testCase.expectBengali, markup.HasClass(document.Body(), "lang-bn"))
			icon := document.ElementByID("theme-icon")
			require.True(testingT, markup.HasClass(icon, testCase.expectedIcon))
			require.Len(testingT, markup.Classes(icon), 2)
		})
	}
}

func TestPageLocalizesInjectedFragments(testingT *testing.T) {
	store := fixtureStore(testingT)

	document := renderTestPage(testingT, PageInput{Store: store, Language: "bn", Theme: "light", Now: testPageNow})

	require.Equal(testingT, "সিনথিয়া টেলিকম", document.Title())
	servicesContainer := document.ElementByID(ServicesContainerID)
	require.Contains(testingT, markup.Text(servicesContainer), "Fiber Connection")
	ctaButtons := document.ElementsWithClass("package-cta-btn")
	require.Len(testingT, ctaButtons, 3)
	require.Equal(testingT, "সাবস্ক্রাইব", markup.Text(ctaButtons[0]))
	require.Contains(testingT, markup.Text(document.ElementByID(SpecialPackagesContainerID)), "Contention ratio 1:8")

	rating, _ := markup.Attribute(document.ElementByID(SupportRatingStatID), "data-target")
	require.Equal(testingT, "4.7", rating)
	require.Len(testingT, document.ElementsWithClass("testimonial-slide"), 3)

	copyright := document.ElementByID("copyright-text")
	require.Equal(testingT, "© 2026 Sinthia Telecom. All rights reserved.", markup.Text(copyright))
	heading := document.Elements(func(node *html.Node) bool { return node.Data == "h1" })
	require.Len(testingT, heading, 1)
	require.Len(testingT, document.ElementsWithClass("gradient-text"), 1)
}

func TestPageAppliesContactLinks(testingT *testing.T) {
	store := fixtureStore(testingT)

	document := renderTestPage(testingT, PageInput{Store: store, Language: "en", Theme: "dark", Now: testPageNow})

	hrefs := map[string]string{}
	for _, element := range document.ElementsWithAttribute("data-contact-key") {
		key, _ := markup.Attribute(element, "data-contact-key")
		if element.Data == "a" {
			href, _ := markup.Attribute(element, "href")
			hrefs[key] = href
		}
	}
	require.Equal(testingT, "mailto:info@sinthia.example", hrefs["email"])
	require.Equal(testingT, "tel:+8801700000000", hrefs["hotline"])
	require.Equal(testingT, "https://facebook.com/sinthia", hrefs["facebook"])
}

func TestPageWithoutOptionalContentKeepsContainersEmpty(testingT *testing.T) {
	store := content.NewStore()
	require.NoError(testingT, store.SetContent(content.KeyTranslations, []byte(`{"en":{"page_title":"Only Title"}}`)))

	document := renderTestPage(testingT, PageInput{Store: store, Language: "en", Theme: "light", Now: testPageNow})

	require.Equal(testingT, "Only Title", document.Title())
	require.Nil(testingT, document.ElementByID(ServicesContainerID).FirstChild)
	require.Nil(testingT, document.ElementByID(TestimonialSliderID).FirstChild)
	require.Nil(testingT, document.ElementByID(SupportRatingStatID))
	require.Empty(testingT, document.Elements(func(node *html.Node) bool {
		key, _ := markup.Attribute(node, "data-key")
		return key == "stat_rating"
	}))
}

func TestPageHidesRatingForEmptyTestimonials(testingT *testing.T) {
	store := fixtureStore(testingT)
	require.NoError(testingT, store.SetContent(content.KeyTestimonials, []byte(`[]`)))

	document := renderTestPage(testingT, PageInput{Store: store, Language: "en", Theme: "light", Now: testPageNow})

	require.Nil(testingT, document.ElementByID(SupportRatingStatID))
	require.Len(testingT, document.ElementsWithClass("stat-number"), 3)
	for _, statistic := range document.ElementsWithClass("stat-number") {
		target, _ := markup.Attribute(statistic, "data-target")
		require.NotEqual(testingT, "0", target)
	}
}

func TestPageAttachesCounterFramesAndSliderPacing(testingT *testing.T) {
	store := fixtureStore(testingT)

	document := renderTestPage(testingT, PageInput{Store: store, Language: "en", Theme: "light", Now: testPageNow, RevealGeneration: 3})

	frames := map[string][]string{}
	for _, statistic := range document.ElementsWithClass("stat-number") {
		target, _ := markup.Attribute(statistic, "data-target")
		rawFrames, present := markup.Attribute(statistic, "data-frames")
		require.True(testingT, present)
		var decoded []string
		require.NoError(testingT, json.Unmarshal([]byte(rawFrames), &decoded))
		frames[target] = decoded
		tick, _ := markup.Attribute(statistic, "data-tick-ms")
		require.Equal(testingT, "20", tick)
	}
	require.Equal(testingT, "15,000", frames["15000"][len(frames["15000"])-1])
	require.Equal(testingT, "99.9", frames["99.9"][len(frames["99.9"])-1])
	require.Equal(testingT, "4.7", frames["4.7"][len(frames["4.7"])-1])

	slider := document.ElementByID(TestimonialSliderID)
	autoplay, _ := markup.Attribute(slider, "data-autoplay-ms")
	threshold, _ := markup.Attribute(slider, "data-swipe-threshold")
	require.Equal(testingT, "5000", autoplay)
	require.Equal(testingT, "50", threshold)

	generation, _ := markup.Attribute(document.Body(), "data-reveal-generation")
	require.Equal(testingT, "3", generation)
}

func TestPageRendersVisitorState(testingT *testing.T) {
	store := fixtureStore(testingT)
	policyView, policyErr := Policy(content.PolicyTerms, content.Policy{Title: "Terms of Service", Content: "<p>Be kind.</p>"})
	require.NoError(testingT, policyErr)

	document := renderTestPage(testingT, PageInput{
		Store:           store,
		Language:        "en",
		Theme:           "light",
		Now:             testPageNow,
		FormTokens:      map[string]string{"subscription-form": "token-7"},
		OpenModals:      []string{"policy-modal"},
		Policy:          &policyView,
		Statuses:        map[string]Status{"contact-status": {Class: "text-green-400", Message: "Message sent successfully!"}},
		SelectedPackage: "Pro",
		SubmitDisabled:  true,
		CoverageResult:  &CoverageResult{Class: CoverageClassAvailable, Message: "Yes"},
	})

	require.True(testingT, markup.HasClass(document.ElementByID("policy-modal"), "open"))
	require.False(testingT, markup.HasClass(document.ElementByID("quick-pay-modal"), "open"))
	require.Equal(testingT, "Terms of Service", markup.Text(document.ElementByID(PolicyTitleID)))
	require.Equal(testingT, "Be kind.", markup.Text(document.ElementByID(PolicyContentID)))
	require.Equal(testingT, "Message sent successfully!", markup.Text(document.ElementByID("contact-status")))
	require.Equal(testingT, "Selected Plan: Pro", markup.Text(document.ElementByID(SelectedPackageTextID)))
	packageName, _ := markup.Attribute(document.ElementByID(HiddenPackageNameID), "value")
	require.Equal(testingT, "Pro", packageName)
	_, disabled := markup.Attribute(document.ElementByID(SubmitRequestButtonID), "disabled")
	require.True(testingT, disabled)
	_, checked := markup.Attribute(document.ElementByID(TermsAgreeID), "checked")
	require.False(testingT, checked)
	maximum, _ := markup.Attribute(document.ElementByID(DateOfBirthID), "max")
	require.Equal(testingT, "2026-03-14", maximum)
	require.False(testingT, markup.HasClass(document.ElementByID(CoverageResultID), "opacity-0"))
	require.Equal(testingT, "Yes", strings.TrimSpace(markup.Text(document.ElementByID(CoverageResultID))))

	subscriptionForm := document.ElementByID("subscription-form")
	tokenInput := subscriptionForm.FirstChild
	require.Equal(testingT, "input", tokenInput.Data)
	tokenValue, _ := markup.Attribute(tokenInput, "value")
	require.Equal(testingT, "token-7", tokenValue)
}

func TestInjectTokenReplacesExistingField(testingT *testing.T) {
	document, parseErr := markup.ParseBytes([]byte(`<form id="f"><input type="hidden" name="csrf_token" value="old"></form>`))
	require.NoError(testingT, parseErr)
	form := document.ElementByID("f")

	InjectToken(form, "new")

	inputs := document.Elements(func(node *html.Node) bool { return node.Data == "input" })
	require.Len(testingT, inputs, 1)
	value, _ := markup.Attribute(inputs[0], "value")
	require.Equal(testingT, "new", value)
}

func TestFatalNotices(testingT *testing.T) {
	rendered, renderErr := Fatal(SecurityErrorNotice)
	require.NoError(testingT, renderErr)
	require.Contains(testingT, string(rendered), "<h1>Security Error</h1>")
	require.Contains(testingT, string(rendered), "Could not establish a secure connection. Please refresh.")

	notice := InitializationFailedNotice
	notice.Detail = "translations missing"
	rendered, renderErr = Fatal(notice)
	require.NoError(testingT, renderErr)
	require.Contains(testingT, string(rendered), "Site Initialization Failed")
	require.Contains(testingT, string(rendered), "translations missing")
}
