package footer

import (
	"bytes"
	"html/template"
)

// PolicyLink is a footer button that opens a policy in the policy modal.
type PolicyLink struct {
	PolicyKey string
	LabelKey  string
}

// ContactEntry is a footer line bound to a contact value.
type ContactEntry struct {
	ContactKey string
	IconClass  string
	Link       bool
}

// Config captures the markup and style hooks required to render the footer.
type Config struct {
	ElementID         string
	BaseClass         string
	InnerClass        string
	PolicyButtonClass string
	ContactClass      string
	QuickPayButtonID  string
	QuickPayLabelKey  string
	CopyrightID       string
	CopyrightKey      string
	Policies          []PolicyLink
	Contacts          []ContactEntry
}

var (
	footerTemplate = template.Must(template.New("footer").Parse(`<footer id="{{.ElementID}}" class="{{.BaseClass}}">
  <div class="{{.InnerClass}}">
    <div class="footer-contacts">
      {{range .Contacts}}
      {{if .Link}}<a class="{{$.ContactClass}}" data-contact-key="{{.ContactKey}}" href="#"><i class="{{.IconClass}}"></i></a>{{else}}<p class="{{$.ContactClass}}" data-contact-key="{{.ContactKey}}"></p>{{end}}
      {{end}}
    </div>
    <div class="footer-policies">
      {{range .Policies}}
      <button type="button" class="{{$.PolicyButtonClass}}" data-policy="{{.PolicyKey}}" data-key="{{.LabelKey}}"></button>
      {{end}}
      <button type="button" id="{{.QuickPayButtonID}}" data-key="{{.QuickPayLabelKey}}"></button>
    </div>
    <p id="{{.CopyrightID}}" data-key="{{.CopyrightKey}}"></p>
  </div>
</footer>`))
)

// SiteConfig is the footer of the marketing page.
func SiteConfig() Config {
	return Config{
		ElementID:         "site-footer",
		BaseClass:         "border-t border-color py-10",
		InnerClass:        "container mx-auto px-6 grid gap-6 md:grid-cols-3",
		PolicyButtonClass: "policy-btn text-secondary hover:text-primary",
		ContactClass:      "footer-contact text-secondary",
		QuickPayButtonID:  "footer-quick-pay",
		QuickPayLabelKey:  "nav_quick_pay",
		CopyrightID:       "copyright-text",
		CopyrightKey:      "footer_copyright",
		Policies: []PolicyLink{
			{PolicyKey: "terms", LabelKey: "footer_terms"},
			{PolicyKey: "usage", LabelKey: "footer_usage"},
			{PolicyKey: "privacy", LabelKey: "footer_privacy"},
			{PolicyKey: "refund", LabelKey: "footer_refund"},
		},
		Contacts: []ContactEntry{
			{ContactKey: "address"},
			{ContactKey: "email", IconClass: "fas fa-envelope", Link: true},
			{ContactKey: "hotline", IconClass: "fas fa-phone", Link: true},
			{ContactKey: "facebook", IconClass: "fab fa-facebook", Link: true},
		},
	}
}

// Render returns the footer HTML for the provided configuration.
func Render(config Config) (template.HTML, error) {
	var buffer bytes.Buffer
	if err := footerTemplate.Execute(&buffer, config); err != nil {
		return "", err
	}
	return template.HTML(buffer.String()), nil
}
