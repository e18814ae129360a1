package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carelog/internal/tui/components/medlist"
)

// chrome is the rows taken by tabs, status line and help
const chrome = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.meds.SetSize(msg.Width-4, max(msg.Height-chrome-6, 3))
		m.logs.SetSize(msg.Width-4, max(msg.Height-chrome, 3))
		return m, nil

	case loadedMsg:
		m.loaded = true
		m.err = nil
		m.locale = msg.locale
		m.today = msg.today
		m.dashboard = msg.dashboard
		m.summary = msg.summary
		m.meds.SetMedications(msg.today.Medications, msg.locale)
		m.logs.SetLogs(msg.dashboard.RecentLogs)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, m.load()

	case medlist.ToggleMsg:
		return m, m.toggle(msg)

	case medlist.TakeAllMsg:
		return m, m.takeAll(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % Tab(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab - 1 + Tab(len(tabTitles))) % Tab(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, m.load()
		case m.tab == TabSummary && key.Matches(msg, m.keys.Period):
			m.period = nextPeriod(m.period)
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabToday:
		m.meds, cmd = m.meds.Update(msg)
	case TabRecent:
		m.logs, cmd = m.logs.Update(msg)
	}
	return m, cmd
}
