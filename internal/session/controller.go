// Package session implements the typing session state machine.
//
// A Controller owns one session at a time: the target text, per-character judgments, the cursor,
// the lifecycle (idle, active, complete) and, for timed sessions, the running/paused countdown.
// It is driven by two entry points, HandleKey for input and HandleTimer for scheduled ticks, and
// is not safe for concurrent use: both must be called from a single event loop.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/typefast/internal/judge"
	"github.com/verte-zerg/typefast/internal/metrics"
	"github.com/verte-zerg/typefast/internal/model"
	"github.com/verte-zerg/typefast/internal/textsource"
)

const (
	// IdlePauseWindow is the inactivity span after which a running countdown pauses.
	IdlePauseWindow = 5 * time.Second
	// StatsInterval is the minimum spacing between live stat projections.
	StatsInterval = 120 * time.Millisecond
	// TickInterval is the countdown resolution.
	TickInterval = time.Second
)

// TextSource supplies the text for a session.
type TextSource interface {
	Generate(mode model.Mode, variant model.Variant, wordCount int) string
}

// Options configures a Controller. Zero values fall back to the system clock, a no-op
// scheduler and a no-op logger.
type Options struct {
	Clock      Clock
	Scheduler  Scheduler
	Logger     *zap.Logger
	OnStats    func(model.LiveStats)
	OnComplete func(model.Result)
}

// Controller is the session state machine.
type Controller struct {
	cfg   model.Config
	src   TextSource
	clock Clock
	log   *zap.Logger

	onStats    func(model.LiveStats)
	onComplete func(model.Result)

	id          uuid.UUID
	text        []rune
	engine      *judge.Engine
	cursor      int
	lifecycle   model.Lifecycle
	timerState  model.TimerState
	startedAt   time.Time
	completedAt time.Time
	remaining   int
	idleUntil   time.Time
	tickDue     time.Time

	timers  timerSet
	limiter *rate.Limiter
	live    model.LiveStats
	samples []model.Sample
	result  model.Result
}

type nopScheduler struct{}

func (nopScheduler) Schedule(TimerEvent, time.Duration) {}
func (nopScheduler) Cancel(TimerEvent)                  {}

// New validates cfg and returns a Controller holding a fresh idle session.
func New(cfg model.Config, src TextSource, opts Options) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("text source is nil")
	}
	c := &Controller{
		cfg:        cfg,
		src:        src,
		clock:      opts.Clock,
		log:        opts.Logger,
		onStats:    opts.OnStats,
		onComplete: opts.OnComplete,
	}
	if c.clock == nil {
		c.clock = SystemClock()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = nopScheduler{}
	}
	c.timers = timerSet{sched: sched}
	c.Reset()
	return c, nil
}

// Configure replaces the config and resets the session.
func (c *Controller) Configure(cfg model.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg
	c.Reset()
	return nil
}

// Reset discards the current session and starts a new idle one with fresh text.
func (c *Controller) Reset() {
	c.setLifecycle(model.LifecycleIdle)
	c.id = uuid.New()
	c.timerState = model.TimerRunning
	c.startedAt = time.Time{}
	c.completedAt = time.Time{}
	c.idleUntil = time.Time{}
	c.tickDue = time.Time{}
	c.remaining = 0
	if c.cfg.Mode == model.ModeTime {
		c.remaining = c.cfg.TimeLimit
	}
	c.text = c.generate()
	c.engine = judge.New(len(c.text))
	c.cursor = 0
	c.limiter = rate.NewLimiter(rate.Every(StatsInterval), 1)
	c.samples = nil
	c.result = model.Result{}
	c.live = c.projection(c.clock.Now())
	c.log.Debug("session reset",
		zap.String("session_id", c.id.String()),
		zap.Stringer("mode", c.cfg.Mode),
		zap.Stringer("variant", c.cfg.Variant),
		zap.Int("text_len", len(c.text)))
}

// HandleKey is the sole input entry point.
func (c *Controller) HandleKey(ev KeyEvent) {
	switch ev.Kind {
	case KeyBackspace:
		c.backspace()
	case KeyChar:
		if !Printable(ev.Rune) {
			return
		}
		c.typeRune(ev.Rune)
	}
}

// HandleTimer delivers a scheduled tick. Stale or duplicated events are ignored.
func (c *Controller) HandleTimer(ev TimerEvent) {
	if !c.timers.accept(ev) {
		return
	}
	now := c.clock.Now()
	switch ev.Timer {
	case TimerCountdown:
		c.onCountdown(now)
	case TimerIdle:
		c.onIdle(now)
	case TimerStats:
		if c.lifecycle == model.LifecycleActive {
			c.publish(now)
		}
	}
}

func (c *Controller) typeRune(r rune) {
	if c.lifecycle == model.LifecycleComplete || len(c.text) == 0 {
		return
	}
	now := c.clock.Now()
	if c.lifecycle == model.LifecycleIdle {
		c.start(now)
	}
	c.touch(now)

	if c.cursor >= len(c.text) {
		c.endOfText(now)
		return
	}
	c.engine.Judge(c.cursor, c.text[c.cursor], r)
	c.cursor++
	if c.cursor == len(c.text) {
		if !c.endOfText(now) {
			return
		}
	}
	c.requestProjection(now)
}

// endOfText completes a fixed-length session or swaps in new text for a timed one. It reports
// whether the session is still active.
func (c *Controller) endOfText(now time.Time) bool {
	if c.cfg.Mode != model.ModeTime {
		c.complete(now)
		return false
	}
	c.text = c.generate()
	c.engine.Replace(len(c.text))
	c.cursor = 0
	c.log.Debug("text regenerated",
		zap.String("session_id", c.id.String()),
		zap.Int("remaining", c.remaining))
	return true
}

func (c *Controller) backspace() {
	if c.lifecycle != model.LifecycleActive || c.cursor == 0 {
		return
	}
	now := c.clock.Now()
	c.touch(now)
	c.cursor--
	c.engine.Undo(c.cursor)
	c.requestProjection(now)
}

func (c *Controller) start(now time.Time) {
	c.setLifecycle(model.LifecycleActive)
	c.startedAt = now
	c.timerState = model.TimerRunning
	if c.cfg.Mode == model.ModeTime {
		c.armCountdown(now)
	}
	c.log.Debug("session started", zap.String("session_id", c.id.String()))
}

// touch records activity: a paused countdown resumes and the idle deadline moves forward.
// Only one idle tick is pending at a time; onIdle re-arms it for whatever is left of the window.
func (c *Controller) touch(now time.Time) {
	if c.cfg.Mode != model.ModeTime || c.lifecycle != model.LifecycleActive {
		return
	}
	if c.timerState == model.TimerPaused {
		c.timerState = model.TimerRunning
		c.live.Paused = false
		c.armCountdown(now)
		c.log.Debug("countdown resumed",
			zap.String("session_id", c.id.String()),
			zap.Int("remaining", c.remaining))
	}
	c.idleUntil = now.Add(IdlePauseWindow)
	if !c.timers.isArmed(TimerIdle) {
		c.timers.arm(TimerIdle, IdlePauseWindow)
	}
}

func (c *Controller) armCountdown(now time.Time) {
	c.tickDue = now.Add(TickInterval)
	c.timers.arm(TimerCountdown, TickInterval)
}

func (c *Controller) onCountdown(now time.Time) {
	if c.lifecycle != model.LifecycleActive || c.timerState != model.TimerRunning {
		return
	}
	c.remaining = max(0, c.remaining-1)
	if c.remaining == 0 {
		c.complete(now)
		return
	}
	c.armCountdown(now)
	c.requestProjection(now)
}

func (c *Controller) onIdle(now time.Time) {
	if c.lifecycle != model.LifecycleActive || c.timerState != model.TimerRunning {
		return
	}
	if now.Before(c.idleUntil) {
		c.timers.arm(TimerIdle, c.idleUntil.Sub(now))
		return
	}
	// A second that ran out together with the idle window still counts.
	if c.timers.isArmed(TimerCountdown) && !now.Before(c.tickDue) {
		c.onCountdown(now)
		if c.lifecycle != model.LifecycleActive {
			return
		}
	}
	c.timerState = model.TimerPaused
	c.timers.cancel(TimerCountdown)
	c.live.Paused = true
	c.log.Debug("countdown paused",
		zap.String("session_id", c.id.String()),
		zap.Int("remaining", c.remaining))
}

func (c *Controller) complete(now time.Time) {
	if c.lifecycle != model.LifecycleActive {
		return
	}
	c.completedAt = now
	c.setLifecycle(model.LifecycleComplete)

	in := c.metricsInput(now)
	stats := metrics.Compute(in)
	counts := c.engine.Counts()
	duration := metrics.Elapsed(in)
	if c.cfg.Mode == model.ModeTime {
		duration = time.Duration(c.cfg.TimeLimit) * time.Second
	}
	c.result = model.Result{
		SessionID: c.id.String(),
		Mode:      c.cfg.Mode,
		Variant:   c.cfg.Variant,
		WPM:       stats.WPM,
		RawSpeed:  stats.RawSpeed,
		Accuracy:  stats.Accuracy,
		Correct:   counts.Correct,
		Incorrect: counts.Incorrect,
		Total:     counts.Total,
		Duration:  duration,
		StartedAt: c.startedAt,
		EndedAt:   now,
	}
	c.publish(now)
	c.log.Info("session complete",
		zap.String("session_id", c.id.String()),
		zap.Stringer("mode", c.cfg.Mode),
		zap.Int("wpm", c.result.WPM),
		zap.Int("accuracy", c.result.Accuracy),
		zap.Int("raw", c.result.RawSpeed))
	if c.onComplete != nil {
		c.onComplete(c.result)
	}
}

// setLifecycle is the single place timers are released: leaving Active cancels all of them.
func (c *Controller) setLifecycle(next model.Lifecycle) {
	if next != model.LifecycleActive {
		c.timers.cancelAll()
	}
	c.lifecycle = next
}

// requestProjection publishes live stats now if the limiter allows it, otherwise schedules a
// single trailing projection at the reserved slot.
func (c *Controller) requestProjection(now time.Time) {
	if c.timers.isArmed(TimerStats) {
		return
	}
	if c.limiter.AllowN(now, 1) {
		c.publish(now)
		return
	}
	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return
	}
	c.timers.arm(TimerStats, r.DelayFrom(now))
}

func (c *Controller) publish(now time.Time) {
	c.live = c.projection(now)
	if c.lifecycle != model.LifecycleIdle {
		elapsed := metrics.Elapsed(c.metricsInput(now))
		if c.cfg.Mode != model.ModeTime {
			elapsed = now.Sub(c.startedAt)
		}
		c.samples = append(c.samples, model.Sample{
			Elapsed:  elapsed,
			WPM:      c.live.WPM,
			Accuracy: c.live.Accuracy,
		})
	}
	if c.onStats != nil {
		c.onStats(c.live)
	}
}

func (c *Controller) projection(now time.Time) model.LiveStats {
	live := model.LiveStats{
		WPM:       0,
		Accuracy:  100,
		Timed:     c.cfg.Mode == model.ModeTime,
		Paused:    c.timerState == model.TimerPaused,
		Lifecycle: c.lifecycle,
	}
	if live.Timed {
		live.SecondsRemaining = c.remaining
	}
	switch c.lifecycle {
	case model.LifecycleActive:
		stats := metrics.Compute(c.metricsInput(now))
		live.WPM = stats.WPM
		live.Accuracy = stats.Accuracy
	case model.LifecycleComplete:
		live.WPM = c.result.WPM
		live.Accuracy = c.result.Accuracy
	}
	return live
}

func (c *Controller) metricsInput(now time.Time) metrics.Input {
	end := now
	if c.lifecycle == model.LifecycleComplete {
		end = c.completedAt
	}
	return metrics.Input{
		Mode:          c.cfg.Mode,
		Counts:        c.engine.Counts(),
		TimeLimit:     c.cfg.TimeLimit,
		TimeRemaining: c.remaining,
		StartedAt:     c.startedAt,
		EndedAt:       end,
		Final:         c.lifecycle == model.LifecycleComplete,
	}
}

func (c *Controller) generate() []rune {
	text := c.src.Generate(c.cfg.Mode, c.cfg.Variant, c.cfg.Words)
	if strings.TrimSpace(text) == "" {
		c.log.Warn("text generation returned nothing; using fallback",
			zap.Stringer("mode", c.cfg.Mode),
			zap.Stringer("variant", c.cfg.Variant))
		text = textsource.Fallback
	}
	return []rune(text)
}

// RenderState returns a snapshot for rendering.
func (c *Controller) RenderState() model.RenderState {
	return model.RenderState{
		Text:      append([]rune(nil), c.text...),
		Judgments: c.engine.Judgments(),
		Cursor:    c.cursor,
	}
}

// LiveStats returns the most recent throttled projection.
func (c *Controller) LiveStats() model.LiveStats {
	return c.live
}

// FinalResult returns the result once the session is complete.
func (c *Controller) FinalResult() (model.Result, bool) {
	if c.lifecycle != model.LifecycleComplete {
		return model.Result{}, false
	}
	return c.result, true
}

// Samples returns the live projections recorded during the session.
func (c *Controller) Samples() []model.Sample {
	return append([]model.Sample(nil), c.samples...)
}

// Config returns the current config.
func (c *Controller) Config() model.Config { return c.cfg }

// ID returns the current session identifier.
func (c *Controller) ID() string { return c.id.String() }

// Lifecycle returns the lifecycle state.
func (c *Controller) Lifecycle() model.Lifecycle { return c.lifecycle }

// TimerState returns the countdown sub-state; meaningful only for active timed sessions.
func (c *Controller) TimerState() model.TimerState { return c.timerState }

// Cursor returns the cursor index.
func (c *Controller) Cursor() int { return c.cursor }

// Counts returns the cumulative counts.
func (c *Controller) Counts() model.Counts { return c.engine.Counts() }

// TimeRemaining returns the countdown value in seconds, zero for untimed sessions.
func (c *Controller) TimeRemaining() int { return c.remaining }

// IdleDeadline returns when a running countdown will pause without further input.
func (c *Controller) IdleDeadline() time.Time { return c.idleUntil }

// StartedAt returns the first keystroke time, zero while idle.
func (c *Controller) StartedAt() time.Time { return c.startedAt }

// CompletedAt returns the completion time, zero until complete.
func (c *Controller) CompletedAt() time.Time { return c.completedAt }
