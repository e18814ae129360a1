package logtable

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

const noteWidth = 32

var columns = []table.Column{
	{Title: "Date", Width: 10},
	{Title: "Mood", Width: 4},
	{Title: "Sleep", Width: 6},
	{Title: "Qual", Width: 4},
	{Title: "Doses", Width: 5},
	{Title: "Note", Width: noteWidth},
}

type Model struct {
	table table.Model
}

func New(logs []models.DailyLog, width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(Rows(logs)),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{table: t}
}

// Rows renders one table row per log. Missing values show as "-".
func Rows(logs []models.DailyLog) []table.Row {
	rows := make([]table.Row, len(logs))
	for i, l := range logs {
		mood, hours, quality := "-", "-", "-"
		if l.MoodScore != nil {
			mood = strconv.Itoa(*l.MoodScore)
		}
		if l.Sleep != nil {
			if l.Sleep.SleepHours != nil {
				hours = strconv.FormatFloat(*l.Sleep.SleepHours, 'f', -1, 64)
			}
			if l.Sleep.SleepQuality != nil {
				quality = strconv.Itoa(*l.Sleep.SleepQuality)
			}
		}
		doses := "-"
		if len(l.Medications) > 0 {
			taken := 0
			for _, m := range l.Medications {
				if m.Taken {
					taken++
				}
			}
			doses = fmt.Sprintf("%d/%d", taken, len(l.Medications))
		}
		note := ""
		if l.FreeNote != nil {
			note = utils.TruncateRunes(*l.FreeNote, noteWidth)
		}
		rows[i] = table.Row{l.Date, mood, hours, quality, doses, note}
	}
	return rows
}

func (m *Model) SetLogs(logs []models.DailyLog) {
	m.table.SetRows(Rows(logs))
}

// Selected returns the date of the highlighted row, or "" when the table is empty
func (m Model) Selected() string {
	row := m.table.SelectedRow()
	if row == nil {
		return ""
	}
	return row[0]
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.table.Rows()) == 0 {
		return "\n  No logs yet.\n  Record one with 'carelog log add'."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
