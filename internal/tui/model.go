// Package tui is the interactive terminal dashboard behind `carelog tui`.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/stats"
	"github.com/julianstephens/carelog/internal/tui/components/logtable"
	"github.com/julianstephens/carelog/internal/tui/components/medlist"
)

type Tab int

const (
	TabToday Tab = iota
	TabRecent
	TabSummary
)

var tabTitles = []string{"Today", "Recent logs", "Summary"}

type Model struct {
	ctx    context.Context
	svc    *service.Service
	userID string

	tab    Tab
	keys   KeyMap
	help   help.Model
	meds   medlist.Model
	logs   logtable.Model
	period stats.Period

	locale    string
	today     models.DailyLog
	dashboard service.Dashboard
	summary   service.SummaryResult
	loaded    bool

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// loadedMsg carries a full refresh of everything the tabs show
type loadedMsg struct {
	locale    string
	today     models.DailyLog
	dashboard service.Dashboard
	summary   service.SummaryResult
}

type errMsg struct{ err error }

type statusMsg string

func NewModel(ctx context.Context, svc *service.Service, userID string) Model {
	return Model{
		ctx:    ctx,
		svc:    svc,
		userID: userID,
		tab:    TabToday,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		meds:   medlist.New(nil, "", 0, 0),
		logs:   logtable.New(nil, 0, 0),
		period: stats.DefaultPeriod,
	}
}

// Run starts the dashboard in the alternate screen and blocks until it exits
func Run(ctx context.Context, svc *service.Service, userID string) error {
	_, err := tea.NewProgram(NewModel(ctx, svc, userID), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load fetches today's medications first so yesterday's lineup is copied before the dashboard reads it
func (m Model) load() tea.Cmd {
	ctx, svc, userID, period := m.ctx, m.svc, m.userID, m.period
	return func() tea.Msg {
		settings, err := svc.GetSettings(ctx)
		if err != nil {
			return errMsg{err}
		}
		today, err := svc.TodayMedications(ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		dashboard, err := svc.Dashboard(ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		summary, err := svc.Summary(ctx, userID, service.RangeQuery{Period: string(period)})
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{locale: settings.Locale, today: today, dashboard: dashboard, summary: summary}
	}
}

func (m Model) toggle(msg medlist.ToggleMsg) tea.Cmd {
	ctx, svc, userID := m.ctx, m.svc, m.userID
	return func() tea.Msg {
		med, err := svc.SetMedicationTaken(ctx, userID, msg.ID, msg.Taken)
		if err != nil {
			return errMsg{err}
		}
		if med.Taken {
			return statusMsg(med.MedicineName + " marked as taken")
		}
		return statusMsg(med.MedicineName + " marked as not taken")
	}
}

func (m Model) takeAll(msg medlist.TakeAllMsg) tea.Cmd {
	ctx, svc, userID, locale := m.ctx, m.svc, m.userID, m.locale
	return func() tea.Msg {
		n, err := svc.TakeAllInTiming(ctx, userID, msg.Timing)
		if err != nil {
			return errMsg{err}
		}
		if n == 0 {
			return statusMsg("Nothing left to take for " + msg.Timing.Label(locale))
		}
		return statusMsg(msg.Timing.Label(locale) + " doses marked as taken")
	}
}

// nextPeriod cycles through the presets, skipping the custom range
func nextPeriod(p stats.Period) stats.Period {
	presets := stats.Periods[:len(stats.Periods)-1]
	for i, candidate := range presets {
		if candidate == p {
			return presets[(i+1)%len(presets)]
		}
	}
	return stats.DefaultPeriod
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	switch m.tab {
	case TabToday:
		keys = append(keys, m.keys.Toggle, m.keys.TakeAll)
	case TabSummary:
		keys = append(keys, m.keys.Period)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	actions := []key.Binding{m.keys.Toggle, m.keys.TakeAll, m.keys.Period}
	return [][]key.Binding{global, navigation, actions}
}
