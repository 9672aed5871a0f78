package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/typefast/internal/model"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as one line of block characters scaled between their minimum and
// maximum. A flat series renders at mid height.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkRunes[len(sparkRunes)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkRunes)-1)))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// MovingAverage computes a rolling mean; the first window-1 points average what is available.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// SampleSeries splits samples into WPM and accuracy value slices.
func SampleSeries(samples []model.Sample) (wpm, accuracy []float64) {
	wpm = make([]float64, len(samples))
	accuracy = make([]float64, len(samples))
	for i, s := range samples {
		wpm[i] = float64(s.WPM)
		accuracy[i] = float64(s.Accuracy)
	}
	return wpm, accuracy
}

// Tail returns at most the last n values.
func Tail(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
