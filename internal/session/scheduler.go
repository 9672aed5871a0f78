package session

import (
	"sort"
	"time"
)

// Timer identifies one of the controller's background ticks.
type Timer uint8

// Timer classes.
const (
	TimerCountdown Timer = iota
	TimerIdle
	TimerStats
	timerCount
)

func (t Timer) String() string {
	switch t {
	case TimerCountdown:
		return "countdown"
	case TimerIdle:
		return "idle"
	case TimerStats:
		return "stats"
	default:
		return "unknown"
	}
}

// TimerEvent is delivered back to Controller.HandleTimer when a scheduled tick fires.
type TimerEvent struct {
	Timer Timer
	Epoch uint64
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler arranges for timer events to be delivered after a delay.
//
// Delivery must happen on the same event loop that calls the controller.
type Scheduler interface {
	Schedule(ev TimerEvent, after time.Duration)
	Cancel(ev TimerEvent)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

type scheduled struct {
	due time.Time
	seq uint64
	ev  TimerEvent
}

// ManualScheduler is a virtual clock and scheduler advanced explicitly.
//
// Events fire in due-time order, ties broken by scheduling order.
type ManualScheduler struct {
	now     time.Time
	seq     uint64
	pending []scheduled
	fired   []TimerEvent
	deliver func(TimerEvent)
}

// NewManualScheduler returns a ManualScheduler starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Bind sets the function fired events are delivered to.
func (m *ManualScheduler) Bind(deliver func(TimerEvent)) {
	m.deliver = deliver
}

// Now implements Clock.
func (m *ManualScheduler) Now() time.Time {
	return m.now
}

// Schedule implements Scheduler.
func (m *ManualScheduler) Schedule(ev TimerEvent, after time.Duration) {
	if after < 0 {
		after = 0
	}
	m.seq++
	m.pending = append(m.pending, scheduled{due: m.now.Add(after), seq: m.seq, ev: ev})
}

// Cancel implements Scheduler.
func (m *ManualScheduler) Cancel(ev TimerEvent) {
	kept := m.pending[:0]
	for _, s := range m.pending {
		if s.ev != ev {
			kept = append(kept, s)
		}
	}
	m.pending = kept
}

// Advance moves the clock forward by d, firing every event that falls due on the way.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo moves the clock to target, firing due events. Moving backwards is ignored.
func (m *ManualScheduler) AdvanceTo(target time.Time) {
	for {
		idx := m.nextDue(target)
		if idx < 0 {
			break
		}
		next := m.pending[idx]
		m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
		if next.due.After(m.now) {
			m.now = next.due
		}
		m.fired = append(m.fired, next.ev)
		if m.deliver != nil {
			m.deliver(next.ev)
		}
	}
	if target.After(m.now) {
		m.now = target
	}
}

// Pending returns the scheduled events that have not fired, in firing order.
func (m *ManualScheduler) Pending() []TimerEvent {
	items := append([]scheduled(nil), m.pending...)
	sort.Slice(items, func(i, j int) bool { return items[i].before(items[j]) })
	out := make([]TimerEvent, len(items))
	for i, s := range items {
		out[i] = s.ev
	}
	return out
}

// Fired returns every event delivered so far.
func (m *ManualScheduler) Fired() []TimerEvent {
	return append([]TimerEvent(nil), m.fired...)
}

func (m *ManualScheduler) nextDue(target time.Time) int {
	idx := -1
	for i, s := range m.pending {
		if s.due.After(target) {
			continue
		}
		if idx < 0 || s.before(m.pending[idx]) {
			idx = i
		}
	}
	return idx
}

func (s scheduled) before(o scheduled) bool {
	if s.due.Equal(o.due) {
		return s.seq < o.seq
	}
	return s.due.Before(o.due)
}
