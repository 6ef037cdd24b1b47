// Package render projects content documents into page fragments.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
)

const (
	serviceDelayStepSeconds = 0.1
	packageDelayStepSeconds = 0.05
)

var servicesTemplate = template.Must(template.New("services").Parse(`{{range .}}
<div class="content-card p-8 text-center reveal-on-scroll group" style="--delay: {{.Delay}}s;">
  <div class="icon-wrapper bg-primary"><i class="fas {{.Icon}} text-3xl" {{with .Color}}style="color: {{.}};"{{end}}></i></div>
  <h3 class="font-semibold text-primary text-xl mb-3" data-key="{{.TitleKey}}"></h3>
  <p class="text-sm text-secondary" data-key="{{.DescriptionKey}}"></p>
</div>{{end}}`))

type serviceCard struct {
	content.Service
	Color template.CSS
	Delay string
}

// Services renders one card per service in document order.
func Services(services []content.Service) (template.HTML, error) {
	cards := make([]serviceCard, 0, len(services))
	for index, service := range services {
		cards = append(cards, serviceCard{Service: service, Color: CSSColor(service.Color), Delay: staggerDelay(index, serviceDelayStepSeconds)})
	}
	return execute(servicesTemplate, cards)
}

func staggerDelay(index int, stepSeconds float64) string {
	return fmt.Sprintf("%.2f", float64(index)*stepSeconds)
}

func execute(fragmentTemplate *template.Template, data any) (template.HTML, error) {
	var buffer bytes.Buffer
	if executeErr := fragmentTemplate.Execute(&buffer, data); executeErr != nil {
		return "", fmt.Errorf("render %s: %w", fragmentTemplate.Name(), executeErr)
	}
	return template.HTML(buffer.String()), nil
}
