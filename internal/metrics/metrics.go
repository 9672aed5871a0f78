// Package metrics converts typed-character counts and elapsed time into typing speed figures.
package metrics

import (
	"math"
	"time"

	"github.com/verte-zerg/typefast/internal/model"
)

const charsPerWord = 5.0

const (
	// MinElapsed is the smallest wall-clock span used for live figures of non-timed sessions.
	MinElapsed = time.Second
	// MinElapsedFinal is the floor for the final result of a non-timed session.
	MinElapsedFinal = time.Millisecond
)

// Input is the session state a computation reads.
type Input struct {
	Mode          model.Mode
	Counts        model.Counts
	TimeLimit     int
	TimeRemaining int
	StartedAt     time.Time
	EndedAt       time.Time
	// Final selects the result floor instead of the live one.
	Final bool
}

// Stats are the derived speed and accuracy figures.
type Stats struct {
	WPM      int
	RawSpeed int
	Accuracy int
}

// Elapsed returns the active duration of the session.
//
// Timed sessions use the countdown delta so idle pauses do not count.
func Elapsed(in Input) time.Duration {
	if in.Mode == model.ModeTime {
		limit := max(1, in.TimeLimit)
		remaining := max(0, in.TimeRemaining)
		return time.Duration(max(1, limit-remaining)) * time.Second
	}
	floor := MinElapsed
	if in.Final {
		floor = MinElapsedFinal
	}
	if in.StartedAt.IsZero() {
		return floor
	}
	return max(floor, in.EndedAt.Sub(in.StartedAt))
}

// ElapsedMinutes returns Elapsed in minutes.
func ElapsedMinutes(in Input) float64 {
	return Elapsed(in).Minutes()
}

// Compute derives WPM, raw speed and accuracy.
func Compute(in Input) Stats {
	minutes := ElapsedMinutes(in)
	return Stats{
		WPM:      rate(float64(in.Counts.Correct)/charsPerWord, minutes),
		RawSpeed: rate(float64(in.Counts.Total)/charsPerWord, minutes),
		Accuracy: Accuracy(in.Counts),
	}
}

// Accuracy is the rounded percentage of correct characters, 100 when nothing was typed.
func Accuracy(c model.Counts) int {
	if c.Total <= 0 {
		return 100
	}
	acc := math.Round(float64(c.Correct) / float64(c.Total) * 100)
	if math.IsNaN(acc) {
		return 100
	}
	return int(math.Min(100, math.Max(0, acc)))
}

func rate(words, minutes float64) int {
	v := math.Round(words / minutes)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int(v)
}
