package render

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	CounterDuration = 1500 * time.Millisecond
	CounterTick     = 20 * time.Millisecond
)

var counterPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCounter formats a statistic value: one decimal for fractional targets, grouped digits otherwise.
func FormatCounter(value float64, fractional bool) string {
	if fractional {
		return counterPrinter.Sprint(number.Decimal(value, number.Scale(1)))
	}
	return counterPrinter.Sprint(number.Decimal(math.Round(value)))
}

// CounterFrames returns the formatted values a statistic counts through on its way to the target.
func CounterFrames(target float64) []string {
	fractional := target != math.Trunc(target)
	steps := int(CounterDuration / CounterTick)
	increment := target / float64(steps)
	frames := make([]string, 0, steps)
	current := 0.0
	for step := 1; step <= steps; step++ {
		current += increment
		if step == steps || current >= target {
			frames = append(frames, FormatCounter(target, fractional))
			break
		}
		if fractional {
			frames = append(frames, FormatCounter(current, true))
		} else {
			frames = append(frames, FormatCounter(math.Ceil(current), false))
		}
	}
	return frames
}
