package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typefast/internal/session"
)

type timerMsg struct {
	ev session.TimerEvent
}

// teaScheduler turns controller timers into tea.Tick commands so every tick comes back
// through Update. Cancel is a no-op: a cancelled tick still arrives but carries a stale
// epoch and is ignored by the controller. While typing the controller keeps at most one idle
// tick and one stats tick pending, so stale ticks do not grow with the key rate.
type teaScheduler struct {
	cmds   []tea.Cmd
	events []session.TimerEvent
}

func (s *teaScheduler) Schedule(ev session.TimerEvent, after time.Duration) {
	s.events = append(s.events, ev)
	s.cmds = append(s.cmds, tea.Tick(after, func(time.Time) tea.Msg {
		return timerMsg{ev: ev}
	}))
}

func (s *teaScheduler) Cancel(session.TimerEvent) {}

// drain returns the ticks scheduled since the last drain as one command.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	s.events = nil
	return tea.Batch(cmds...)
}
