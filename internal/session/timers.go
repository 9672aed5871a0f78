package session

import "time"

// timerSet owns the three timer classes. Arming or cancelling bumps the class epoch, so a
// callback carrying an older epoch is ignored even if the scheduler still delivers it.
type timerSet struct {
	sched  Scheduler
	epochs [timerCount]uint64
	armed  [timerCount]bool
}

func (t *timerSet) arm(kind Timer, after time.Duration) {
	t.cancel(kind)
	t.epochs[kind]++
	t.armed[kind] = true
	t.sched.Schedule(TimerEvent{Timer: kind, Epoch: t.epochs[kind]}, after)
}

func (t *timerSet) cancel(kind Timer) {
	if !t.armed[kind] {
		return
	}
	t.sched.Cancel(TimerEvent{Timer: kind, Epoch: t.epochs[kind]})
	t.epochs[kind]++
	t.armed[kind] = false
}

func (t *timerSet) cancelAll() {
	for kind := Timer(0); kind < timerCount; kind++ {
		t.cancel(kind)
	}
}

func (t *timerSet) isArmed(kind Timer) bool {
	return t.armed[kind]
}

// accept consumes ev if it is the live tick of its class.
func (t *timerSet) accept(ev TimerEvent) bool {
	if ev.Timer >= timerCount {
		return false
	}
	if !t.armed[ev.Timer] || t.epochs[ev.Timer] != ev.Epoch {
		return false
	}
	t.armed[ev.Timer] = false
	return true
}
