package render

import (
	"encoding/json"
	"strconv"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/markup"
	"github.com/MarkoPoloResearchLab/sinthia_site/pkg/carousel"
)

const (
	classStatNumber = "stat-number"

	attributeDataFrames           = "data-frames"
	attributeDataTickMilliseconds = "data-tick-ms"
	attributeDataAutoplay         = "data-autoplay-ms"
	attributeDataSwipeThreshold   = "data-swipe-threshold"
	attributeDataRevealGeneration = "data-reveal-generation"
)

// annotateStatistics sets the support rating from the testimonials and attaches the formatted counter frames
// to every statistic. Without testimonials the rating statistic is removed from the page.
func annotateStatistics(document *markup.Document, store *content.Store) {
	if statistic := document.ElementByID(SupportRatingStatID); statistic != nil {
		average, present := 0.0, false
		if store.Has(content.KeyTestimonials) {
			average, present = AverageRating(store.Testimonials)
		}
		if present {
			markup.SetAttribute(statistic, attributeDataTarget, FormatCounter(average, true))
		} else {
			markup.Remove(statistic.Parent)
		}
	}
	tick := strconv.FormatInt(CounterTick.Milliseconds(), 10)
	for _, statistic := range document.ElementsWithClass(classStatNumber) {
		rawTarget, hasTarget := markup.Attribute(statistic, attributeDataTarget)
		if !hasTarget {
			continue
		}
		target, parseErr := strconv.ParseFloat(rawTarget, 64)
		if parseErr != nil {
			continue
		}
		frames, encodeErr := json.Marshal(CounterFrames(target))
		if encodeErr != nil {
			continue
		}
		markup.SetAttribute(statistic, attributeDataFrames, string(frames))
		markup.SetAttribute(statistic, attributeDataTickMilliseconds, tick)
	}
}

// annotateSlider hands the slider its autoplay pacing and swipe threshold.
func annotateSlider(document *markup.Document) {
	slider := document.ElementByID(TestimonialSliderID)
	if slider == nil {
		return
	}
	markup.SetAttribute(slider, attributeDataAutoplay, strconv.FormatInt(carousel.AutoplayInterval.Milliseconds(), 10))
	markup.SetAttribute(slider, attributeDataSwipeThreshold, strconv.Itoa(carousel.SwipeThreshold))
}

func applyRevealGeneration(document *markup.Document, generation int) {
	if body := document.Body(); body != nil {
		markup.SetAttribute(body, attributeDataRevealGeneration, strconv.Itoa(generation))
	}
}
