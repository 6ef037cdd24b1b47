// Package carousel computes slide positions for the testimonial slider.
package carousel

import "time"

const (
	ClassActive     = "active"
	ClassNext       = "next"
	ClassPrevious   = "prev"
	ClassHiddenNext = "hidden-next"
	ClassHiddenPrev = "hidden-prev"

	// SwipeThreshold is the horizontal drag distance, in pixels, past which a swipe moves the slider.
	SwipeThreshold = 50
	// AutoplayInterval is the delay between automatic advances.
	AutoplayInterval = 5 * time.Second
)

// Wrap maps any index onto 0..count-1.
func Wrap(index int, count int) int {
	if count <= 0 {
		return 0
	}
	return ((index % count) + count) % count
}

// SlideClass returns the position class of the slide at index when current is shown.
func SlideClass(index int, current int, count int) string {
	switch {
	case index == current:
		return ClassActive
	case index == Wrap(current+1, count):
		return ClassNext
	case index == Wrap(current-1, count):
		return ClassPrevious
	case index == Wrap(current+2, count) && count > 3:
		return ClassHiddenNext
	default:
		return ClassHiddenPrev
	}
}

// Classes returns the position class of every slide.
func Classes(current int, count int) []string {
	classes := make([]string, count)
	for index := range classes {
		classes[index] = SlideClass(index, current, count)
	}
	return classes
}
