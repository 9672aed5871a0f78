package keylog

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typefast/internal/model"
	"github.com/verte-zerg/typefast/internal/session"
)

// Script is a TextSource that returns recorded texts in order, then nothing.
type Script struct {
	texts []string
	next  int
}

// NewScript returns a Script over texts.
func NewScript(texts []string) *Script {
	return &Script{texts: append([]string(nil), texts...)}
}

// Generate implements session.TextSource.
func (s *Script) Generate(model.Mode, model.Variant, int) string {
	if s.next >= len(s.texts) {
		return ""
	}
	text := s.texts[s.next]
	s.next++
	return text
}

// Remaining reports how many texts have not been consumed.
func (s *Script) Remaining() int {
	return len(s.texts) - s.next
}

// Outcome is one session completed during a replay.
type Outcome struct {
	Result  model.Result
	Samples []model.Sample
}

// replayEpoch anchors virtual time so replays are reproducible.
var replayEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Replay feeds a recording through a fresh controller on a virtual clock and returns the
// sessions that completed. The first event must be a config event.
func Replay(events []Event, logger *zap.Logger) ([]Outcome, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("recording is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := events[0].Config()
	if err != nil {
		return nil, fmt.Errorf("first event: %w", err)
	}

	var texts []string
	for _, ev := range events {
		if ev.Kind == KindText {
			texts = append(texts, ev.Text)
		}
	}
	script := NewScript(texts)
	sched := session.NewManualScheduler(replayEpoch)

	var (
		outcomes []Outcome
		ctrl     *session.Controller
	)
	ctrl, err = session.New(cfg, script, session.Options{
		Clock:     sched,
		Scheduler: sched,
		Logger:    logger,
		OnComplete: func(res model.Result) {
			outcomes = append(outcomes, Outcome{Result: res, Samples: ctrl.Samples()})
		},
	})
	if err != nil {
		return nil, err
	}
	sched.Bind(ctrl.HandleTimer)

	for i, ev := range events[1:] {
		sched.AdvanceTo(replayEpoch.Add(time.Duration(ev.AtMS) * time.Millisecond))
		switch ev.Kind {
		case KindConfig:
			next, err := ev.Config()
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i+2, err)
			}
			if err := ctrl.Configure(next); err != nil {
				return nil, fmt.Errorf("event %d: %w", i+2, err)
			}
		case KindKey:
			runes := []rune(ev.Rune)
			if key, ok := session.FromRunes(runes); ok {
				ctrl.HandleKey(key)
			}
		case KindBackspace:
			ctrl.HandleKey(session.Backspace())
		case KindReset:
			ctrl.Reset()
		}
	}
	if script.Remaining() > 0 {
		logger.Warn("recording has unused texts", zap.Int("remaining", script.Remaining()))
	}
	return outcomes, nil
}
