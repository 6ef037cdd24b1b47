package render

import (
	"html/template"
	"math"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/pkg/carousel"
)

const maximumRating = 5

var testimonialsTemplate = template.Must(template.New("testimonials").Parse(`{{range .}}
<div class="testimonial-slide {{.SlideClass}}"><div class="content-card p-8 max-w-lg mx-auto text-center"><i class="fas fa-quote-left text-4xl text-blue-500/30 absolute top-4 left-6"></i><p class="text-primary text-lg font-medium leading-relaxed my-6">{{.Quote}}</p><div class="mt-4"><div class="star-rating mb-2">{{range .Stars}}<i class="fa-solid fa-star {{if .}}text-blue-500{{else}}text-gray-600{{end}}"></i>{{end}}</div><p class="font-bold text-primary">{{.Name}}</p></div></div></div>{{end}}`))

type testimonialSlide struct {
	Quote      string
	Name       string
	Stars      []bool
	SlideClass string
}

// Testimonials renders every testimonial as a carousel slide, the first one active.
func Testimonials(testimonials []content.Testimonial, languageCode string) (template.HTML, error) {
	slideClasses := carousel.Classes(0, len(testimonials))
	slides := make([]testimonialSlide, 0, len(testimonials))
	for index, testimonial := range testimonials {
		slides = append(slides, testimonialSlide{
			Quote:      testimonial.Quote.In(languageCode),
			Name:       testimonial.Name,
			Stars:      Stars(testimonial.Rating),
			SlideClass: slideClasses[index],
		})
	}
	return execute(testimonialsTemplate, slides)
}

// Stars marks the first rating stars of five as highlighted.
func Stars(rating int) []bool {
	stars := make([]bool, maximumRating)
	for index := range stars {
		stars[index] = index < rating
	}
	return stars
}

// AverageRating is the mean rating rounded to one decimal. It reports false for an empty set.
func AverageRating(testimonials []content.Testimonial) (float64, bool) {
	if len(testimonials) == 0 {
		return 0, false
	}
	total := 0
	for _, testimonial := range testimonials {
		total += testimonial.Rating
	}
	average := float64(total) / float64(len(testimonials))
	return math.Round(average*10) / 10, true
}
