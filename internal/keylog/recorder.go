package keylog

import (
	"io"
	"time"

	json "github.com/json-iterator/go"

	"github.com/verte-zerg/typefast/internal/model"
	"github.com/verte-zerg/typefast/internal/session"
)

// Recorder writes events as JSON lines. Write failures are sticky: the first error stops
// further output and is reported by Err.
type Recorder struct {
	enc   *json.Encoder
	now   func() time.Time
	start time.Time
	err   error
}

// NewRecorder starts a recording on w. A nil now uses time.Now.
func NewRecorder(w io.Writer, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{
		enc:   json.ConfigCompatibleWithStandardLibrary.NewEncoder(w),
		now:   now,
		start: now(),
	}
}

// Config records a config change.
func (r *Recorder) Config(cfg model.Config) {
	r.write(Event{
		Kind:    KindConfig,
		Mode:    cfg.Mode.String(),
		Variant: cfg.Variant.String(),
		Time:    cfg.TimeLimit,
		Words:   cfg.Words,
	})
}

// Text records generated text.
func (r *Recorder) Text(text string) {
	r.write(Event{Kind: KindText, Text: text})
}

// Key records an input event.
func (r *Recorder) Key(ev session.KeyEvent) {
	switch ev.Kind {
	case session.KeyBackspace:
		r.write(Event{Kind: KindBackspace})
	case session.KeyChar:
		r.write(Event{Kind: KindKey, Rune: string(ev.Rune)})
	}
}

// Reset records an explicit restart.
func (r *Recorder) Reset() {
	r.write(Event{Kind: KindReset})
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) write(ev Event) {
	if r.err != nil {
		return
	}
	ev.AtMS = r.now().Sub(r.start).Milliseconds()
	r.err = r.enc.Encode(ev)
}

// RecordingSource records every text produced by the wrapped source.
type RecordingSource struct {
	Source   session.TextSource
	Recorder *Recorder
}

// Generate implements session.TextSource.
func (s RecordingSource) Generate(mode model.Mode, variant model.Variant, wordCount int) string {
	text := s.Source.Generate(mode, variant, wordCount)
	s.Recorder.Text(text)
	return text
}
