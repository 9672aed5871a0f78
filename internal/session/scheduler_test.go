package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualSchedulerOrdering(t *testing.T) {
	m := NewManualScheduler(epoch)
	var got []TimerEvent
	var at []time.Duration
	m.Bind(func(ev TimerEvent) {
		got = append(got, ev)
		at = append(at, m.Now().Sub(epoch))
	})

	m.Schedule(TimerEvent{Timer: TimerIdle, Epoch: 1}, 2*time.Second)
	m.Schedule(TimerEvent{Timer: TimerCountdown, Epoch: 1}, time.Second)
	m.Schedule(TimerEvent{Timer: TimerStats, Epoch: 1}, 2*time.Second)
	m.Schedule(TimerEvent{Timer: TimerCountdown, Epoch: 2}, 5*time.Second)

	assert.Equal(t, []TimerEvent{
		{Timer: TimerCountdown, Epoch: 1},
		{Timer: TimerIdle, Epoch: 1},
		{Timer: TimerStats, Epoch: 1},
		{Timer: TimerCountdown, Epoch: 2},
	}, m.Pending())

	m.Advance(3 * time.Second)
	assert.Equal(t, []TimerEvent{
		{Timer: TimerCountdown, Epoch: 1},
		{Timer: TimerIdle, Epoch: 1},
		{Timer: TimerStats, Epoch: 1},
	}, got)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 2 * time.Second}, at)
	assert.Equal(t, epoch.Add(3*time.Second), m.Now())
	assert.Len(t, m.Pending(), 1)
	assert.Equal(t, got, m.Fired())
}

func TestManualSchedulerCancel(t *testing.T) {
	m := NewManualScheduler(epoch)
	fired := 0
	m.Bind(func(TimerEvent) { fired++ })

	ev := TimerEvent{Timer: TimerIdle, Epoch: 3}
	m.Schedule(ev, time.Second)
	m.Cancel(ev)
	m.Advance(time.Minute)
	assert.Zero(t, fired)
	assert.Empty(t, m.Pending())
}

func TestManualSchedulerCascade(t *testing.T) {
	m := NewManualScheduler(epoch)
	count := 0
	m.Bind(func(ev TimerEvent) {
		count++
		if count < 5 {
			m.Schedule(TimerEvent{Timer: ev.Timer, Epoch: ev.Epoch + 1}, time.Second)
		}
	})
	m.Schedule(TimerEvent{Timer: TimerCountdown, Epoch: 1}, time.Second)
	m.Advance(3 * time.Second)
	assert.Equal(t, 3, count)
	m.AdvanceTo(epoch)
	assert.Equal(t, epoch.Add(3*time.Second), m.Now())
	m.Advance(10 * time.Second)
	assert.Equal(t, 5, count)
}

func TestTimerSetEpochs(t *testing.T) {
	m := NewManualScheduler(epoch)
	ts := timerSet{sched: m}

	ts.arm(TimerIdle, time.Second)
	first := m.Pending()[0]
	ts.arm(TimerIdle, time.Second)
	second := m.Pending()[0]

	assert.Len(t, m.Pending(), 1)
	assert.False(t, ts.accept(first))
	assert.True(t, ts.accept(second))
	assert.False(t, ts.accept(second))
	assert.False(t, ts.accept(TimerEvent{Timer: timerCount}))

	ts.arm(TimerStats, time.Second)
	ts.arm(TimerCountdown, time.Second)
	ts.cancelAll()
	assert.Empty(t, m.Pending())
	assert.False(t, ts.isArmed(TimerStats))
}
