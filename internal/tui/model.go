// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typefast/internal/keylog"
	"github.com/verte-zerg/typefast/internal/model"
	"github.com/verte-zerg/typefast/internal/session"
	"github.com/verte-zerg/typefast/internal/stats"
)

// Choices cycled by the time and word count bindings.
var (
	timeChoices = []int{15, 30, 60, 120}
	wordChoices = []int{10, 25, 50, 100}
)

const sparkWidth = 24

type screen int

const (
	screenTyping screen = iota
	screenResults
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// SettingsSaver persists the last used config.
type SettingsSaver interface {
	SaveSettings(ctx context.Context, cfg model.Config) error
}

// Options configures the typing UI. Source is required; everything else is optional.
type Options struct {
	Config   model.Config
	Source   session.TextSource
	Settings SettingsSaver
	Recorder *keylog.Recorder
	Logger   *zap.Logger
	Clock    session.Clock
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctrl     *session.Controller
	sched    *teaScheduler
	settings SettingsSaver
	recorder *keylog.Recorder
	log      *zap.Logger

	keys     keyMap
	help     help.Model
	progress progress.Model
	results  table.Model

	screen  screen
	result  model.Result
	samples []model.Sample
	errMsg  string

	width  int
	height int
}

// NewModel constructs a typing TUI model around a fresh session controller.
func NewModel(opts Options) (*Model, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("text source is nil")
	}
	m := &Model{
		sched:    &teaScheduler{},
		settings: opts.Settings,
		recorder: opts.Recorder,
		log:      opts.Logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	src := opts.Source
	if m.recorder != nil {
		m.recorder.Config(opts.Config)
		src = keylog.RecordingSource{Source: src, Recorder: m.recorder}
	}
	ctrl, err := session.New(opts.Config, src, session.Options{
		Clock:      opts.Clock,
		Scheduler:  m.sched,
		Logger:     m.log,
		OnComplete: m.onComplete,
	})
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, m.contentWidth())
		return m, nil
	case timerMsg:
		m.ctrl.HandleTimer(msg.ev)
		return m, m.sched.drain()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.restart()
	case key.Matches(msg, m.keys.Mode):
		m.reconfigure(func(cfg *model.Config) { cfg.Mode = cfg.Mode.Next() })
	case key.Matches(msg, m.keys.Variant):
		m.reconfigure(func(cfg *model.Config) { cfg.Variant = cfg.Variant.Next() })
	case key.Matches(msg, m.keys.Time):
		m.reconfigure(func(cfg *model.Config) { cfg.TimeLimit = nextChoice(timeChoices, cfg.TimeLimit) })
	case key.Matches(msg, m.keys.Words):
		m.reconfigure(func(cfg *model.Config) { cfg.Words = nextChoice(wordChoices, cfg.Words) })
	case m.screen == screenResults:
		if msg.Type == tea.KeyEnter {
			m.restart()
		} else if msg.String() == "q" {
			return m, tea.Quit
		}
	default:
		m.forwardKey(msg)
	}
	return m, m.sched.drain()
}

func (m *Model) forwardKey(msg tea.KeyMsg) {
	var ev session.KeyEvent
	switch msg.Type {
	case tea.KeyBackspace:
		ev = session.Backspace()
	case tea.KeySpace:
		ev = session.Char(' ')
	case tea.KeyRunes:
		if msg.Alt || msg.Paste {
			return
		}
		var ok bool
		if ev, ok = session.FromRunes(msg.Runes); !ok {
			return
		}
	default:
		return
	}
	if m.recorder != nil {
		m.recorder.Key(ev)
	}
	m.ctrl.HandleKey(ev)
}

func (m *Model) restart() {
	if m.recorder != nil {
		m.recorder.Reset()
	}
	m.ctrl.Reset()
	m.screen = screenTyping
	m.errMsg = ""
}

// reconfigure applies edit to the current config, restarts the session and saves the settings.
func (m *Model) reconfigure(edit func(*model.Config)) {
	cfg := m.ctrl.Config()
	edit(&cfg)
	if m.recorder != nil {
		m.recorder.Config(cfg)
	}
	if err := m.ctrl.Configure(cfg); err != nil {
		m.errMsg = err.Error()
		m.log.Warn("config rejected", zap.Error(err))
		return
	}
	m.screen = screenTyping
	m.errMsg = ""
	if m.settings == nil {
		return
	}
	if err := m.settings.SaveSettings(context.Background(), cfg); err != nil {
		m.errMsg = fmt.Sprintf("failed to save settings: %v", err)
		m.log.Error("failed to save settings", zap.Error(err))
	}
}

func (m *Model) onComplete(res model.Result) {
	m.result = res
	m.samples = m.ctrl.Samples()
	m.results = buildResultTable(res)
	m.screen = screenResults
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.screen == screenResults {
		body = m.renderResults()
	} else {
		body = m.renderTyping()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	footer := m.renderFooter()
	bodyHeight := max(1, m.height-lipgloss.Height(footer))
	return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" +
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) contentWidth() int {
	return max(1, m.width*70/100)
}

func (m *Model) renderTyping() string {
	state := m.ctrl.RenderState()
	runes := buildStyledRunes(state)
	if m.width == 0 {
		return renderStyledRunes(runes)
	}
	width := m.contentWidth()
	text := lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(runes, width))
	lines := []string{
		headerStyle.Render(configSummary(m.ctrl.Config())),
		"",
		text,
		"",
		m.progress.ViewAs(m.progressRatio()),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) progressRatio() float64 {
	cfg := m.ctrl.Config()
	if cfg.Mode == model.ModeTime {
		elapsed := cfg.TimeLimit - m.ctrl.TimeRemaining()
		return float64(elapsed) / float64(cfg.TimeLimit)
	}
	state := m.ctrl.RenderState()
	if len(state.Text) == 0 {
		return 0
	}
	return float64(state.Cursor) / float64(len(state.Text))
}

func (m *Model) renderResults() string {
	parts := []string{
		titleStyle.Render("Results"),
		cardStyle.Render(m.results.View()),
	}
	if len(m.samples) > 1 {
		var chart bytes.Buffer
		width := max(30, m.contentWidth())
		if err := stats.ResultChart(&chart, m.samples, width, 6, false); err != nil {
			m.log.Warn("failed to render chart", zap.Error(err))
		} else {
			parts = append(parts, strings.TrimRight(chart.String(), "\n"))
		}
	}
	parts = append(parts, footerStyle.Render("enter: next session  q: quit"))
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderFooter() string {
	segments := []string{m.liveSummary()}
	wpm, _ := stats.SampleSeries(m.ctrl.Samples())
	if spark := stats.Sparkline(stats.Tail(wpm, sparkWidth)); spark != "" {
		segments = append(segments, spark)
	}
	line := footerStyle.Render(strings.Join(segments, "  "))
	lines := []string{line}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m *Model) liveSummary() string {
	live := m.ctrl.LiveStats()
	segments := []string{
		fmt.Sprintf("%d WPM", live.WPM),
		fmt.Sprintf("%d%% acc", live.Accuracy),
	}
	if live.Timed {
		segments = append(segments, fmt.Sprintf("%ds left", live.SecondsRemaining))
	}
	if live.Paused {
		segments = append(segments, "paused")
	}
	return strings.Join(segments, " · ")
}

func configSummary(cfg model.Config) string {
	length := fmt.Sprintf("%d words", cfg.Words)
	switch cfg.Mode {
	case model.ModeTime:
		length = fmt.Sprintf("%ds", cfg.TimeLimit)
	case model.ModeQuote:
		length = "one passage"
	}
	return fmt.Sprintf("%s · %s · %s", cfg.Mode, length, cfg.Variant)
}

func buildResultTable(res model.Result) table.Model {
	rows := stats.ResultRows(res)
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Metric", Width: 10},
			{Title: "Value", Width: 16},
		}),
		table.WithRows(tableRows),
		table.WithHeight(len(tableRows)+1),
		table.WithFocused(false),
	)
	t.SetStyles(resultTableStyles())
	return t
}

func resultTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell
	return styles
}

func nextChoice(choices []int, current int) int {
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// Controller exposes the session controller, mainly for callers that need the final result
// after the program exits.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}
