// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode is the completion policy of a session.
type Mode int

// Session modes.
const (
	ModeWords Mode = iota
	ModeTime
	ModeQuote
)

// Variant selects the content flavor of generated text.
type Variant int

// Content variants.
const (
	VariantPlain Variant = iota
	VariantNumbers
	VariantPunctuation
	VariantMixed
)

// Judgment is the verdict for a single target position.
type Judgment uint8

// Judgments.
const (
	JudgmentPending Judgment = iota
	JudgmentCorrect
	JudgmentIncorrect
)

// Lifecycle is the top-level session state.
type Lifecycle int

// Lifecycle states.
const (
	LifecycleIdle Lifecycle = iota
	LifecycleActive
	LifecycleComplete
)

// TimerState is the countdown sub-state of an active time-mode session.
type TimerState int

// Timer sub-states.
const (
	TimerRunning TimerState = iota
	TimerPaused
)

// Config defines practice settings.
type Config struct {
	Mode      Mode
	TimeLimit int
	Words     int
	Variant   Variant
}

// Counts are cumulative typed-character counts.
type Counts struct {
	Correct   int
	Incorrect int
	Total     int
}

// RenderState is a snapshot of what the presentation surface draws.
type RenderState struct {
	Text      []rune
	Judgments []Judgment
	Cursor    int
}

// LiveStats is the throttled stat projection shown while typing.
type LiveStats struct {
	WPM              int
	Accuracy         int
	SecondsRemaining int
	Timed            bool
	Paused           bool
	Lifecycle        Lifecycle
}

// Result is the authoritative outcome of a completed session.
type Result struct {
	SessionID string
	Mode      Mode
	Variant   Variant
	WPM       int
	RawSpeed  int
	Accuracy  int
	Correct   int
	Incorrect int
	Total     int
	Duration  time.Duration
	StartedAt time.Time
	EndedAt   time.Time
}

// Sample is one point of the in-session speed history.
type Sample struct {
	Elapsed  time.Duration
	WPM      int
	Accuracy int
}

// Validate checks the config for values a session cannot run with.
func (c Config) Validate() error {
	if c.Mode < ModeWords || c.Mode > ModeQuote {
		return fmt.Errorf("unknown mode %d", c.Mode)
	}
	if c.Variant < VariantPlain || c.Variant > VariantMixed {
		return fmt.Errorf("unknown variant %d", c.Variant)
	}
	if c.Words <= 0 {
		return fmt.Errorf("words must be > 0")
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be > 0")
	}
	return nil
}
