// Package keylog records practice input as JSON lines and replays it in virtual time.
package keylog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/verte-zerg/typefast/internal/model"
)

// Kind labels a recorded event.
type Kind string

// Event kinds.
const (
	KindConfig    Kind = "config"
	KindText      Kind = "text"
	KindKey       Kind = "key"
	KindBackspace Kind = "backspace"
	KindReset     Kind = "reset"
)

// Event is one line of a recording. AtMS is relative to the start of the recording.
type Event struct {
	Kind    Kind   `json:"kind"`
	AtMS    int64  `json:"at_ms"`
	Rune    string `json:"rune,omitempty"`
	Text    string `json:"text,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Variant string `json:"variant,omitempty"`
	Time    int    `json:"time,omitempty"`
	Words   int    `json:"words,omitempty"`
}

// Config decodes a config event.
func (e Event) Config() (model.Config, error) {
	if e.Kind != KindConfig {
		return model.Config{}, fmt.Errorf("event %q is not a config event", e.Kind)
	}
	mode, err := model.ParseMode(e.Mode)
	if err != nil {
		return model.Config{}, err
	}
	variant, err := model.ParseVariant(e.Variant)
	if err != nil {
		return model.Config{}, err
	}
	cfg := model.Config{Mode: mode, TimeLimit: e.Time, Words: e.Words, Variant: variant}
	if err := cfg.Validate(); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// Read parses a recording. Blank lines are skipped.
func Read(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		switch ev.Kind {
		case KindConfig, KindText, KindKey, KindBackspace, KindReset:
		default:
			return nil, fmt.Errorf("line %d: unknown event kind %q", line, ev.Kind)
		}
		if ev.AtMS < 0 {
			return nil, fmt.Errorf("line %d: negative timestamp", line)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
