package render

import (
	"html/template"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
)

const (
	languageBengali = "bn"

	priceSymbolBengali   = "৳"
	priceSymbolDefault   = "BDT"
	perMonthTextBengali  = "মাস"
	perMonthTextDefault  = "mo"
	disclaimerKeySpecial = "contention_ratio"
)

type packageFeature struct {
	Key       string
	Label     string
	IconClass string
}

var packageFeatures = []packageFeature{
	{Key: "fb", Label: "Facebook", IconClass: "fab fa-facebook text-blue-500"},
	{Key: "yt", Label: "YouTube", IconClass: "fab fa-youtube text-red-500"},
	{Key: "bdix", Label: "BDIX", IconClass: "fas fa-server text-green-400"},
	{Key: "ftp", Label: "FTP", IconClass: "fas fa-download text-yellow-400"},
}

var packagesTemplate = template.Must(template.New("packages").Parse(`{{range .}}
<div class="content-card p-6 flex flex-col reveal-on-scroll" style="--delay: {{.Delay}}s;">
  <div class="flex-grow">
    <h3 class="font-bold text-primary text-xl mb-2">{{.Name}}</h3>
    <p class="text-6xl font-black my-4" {{with .Color}}style="color: {{.}}"{{end}}>{{.Speed}}<span class="text-3xl font-bold">Mbps</span></p>
    <p class="text-3xl font-bold text-primary mb-6">{{.PriceText}}<span class="text-base font-medium text-secondary">/{{.PerMonthText}}</span></p>
    {{- if .Special}}
    <div class="border-t border-color text-center pt-4 mt-4">
      <p class="text-xs text-secondary" data-key="{{.DisclaimerKey}}"></p>
    </div>
    {{- else}}
    <div class="space-y-3 text-sm text-secondary border-t border-color pt-4 mt-4">
      {{- range .Features}}
      <p class="flex items-center gap-3"><i class="{{.IconClass}} w-4 text-center"></i> {{.Label}}: {{.Value}} Mbps</p>
      {{- end}}
    </div>
    {{- end}}
  </div>
  <button class="package-cta-btn btn-primary mt-6 w-full block py-3 text-center" data-package-name="{{.Name}}" data-key="package_cta"></button>
</div>{{end}}`))

type packageFeatureLine struct {
	Label     string
	IconClass string
	Value     string
}

type packageCard struct {
	Name          string
	Speed         string
	Color         template.CSS
	PriceText     string
	PerMonthText  string
	Delay         string
	Special       bool
	DisclaimerKey string
	Features      []packageFeatureLine
}

// PriceText formats a price for the language.
func PriceText(price string, languageCode string) string {
	if languageCode == languageBengali {
		return priceSymbolBengali + " " + price
	}
	return priceSymbolDefault + " " + price
}

// PerMonthText returns the billing period unit for the language.
func PerMonthText(languageCode string) string {
	if languageCode == languageBengali {
		return perMonthTextBengali
	}
	return perMonthTextDefault
}

// StandardPackages renders the standard tier with per-service throughput.
func StandardPackages(packages []content.Package, languageCode string) (template.HTML, error) {
	return execute(packagesTemplate, packageCards(packages, languageCode, false))
}

// SpecialPackages renders the special tier with the disclaimer in place of the breakdown.
func SpecialPackages(packages []content.Package, languageCode string) (template.HTML, error) {
	return execute(packagesTemplate, packageCards(packages, languageCode, true))
}

func packageCards(packages []content.Package, languageCode string, special bool) []packageCard {
	cards := make([]packageCard, 0, len(packages))
	for index, offering := range packages {
		card := packageCard{
			Name:         offering.Name,
			Speed:        offering.Speed.String(),
			Color:        ColorVariable(offering.Color),
			PriceText:    PriceText(offering.Price.String(), languageCode),
			PerMonthText: PerMonthText(languageCode),
			Delay:        staggerDelay(index, packageDelayStepSeconds),
			Special:      special,
		}
		if special {
			card.DisclaimerKey = disclaimerKeySpecial
		} else {
			for _, feature := range packageFeatures {
				card.Features = append(card.Features, packageFeatureLine{
					Label:     feature.Label,
					IconClass: feature.IconClass,
					Value:     offering.Features[feature.Key].String(),
				})
			}
		}
		cards = append(cards, card)
	}
	return cards
}
