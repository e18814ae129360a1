package medlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carelog/internal/models"
)

// ToggleMsg asks the parent to flip a dose's taken flag
type ToggleMsg struct {
	ID    string
	Taken bool
}

// TakeAllMsg asks the parent to mark every dose of a timing as taken
type TakeAllMsg struct {
	Timing models.Timing
}

type Item struct {
	Med    models.MedicationLog
	Locale string
}

func (i Item) Title() string {
	if i.Med.Taken {
		return "[x] " + i.Med.MedicineName
	}
	return "[ ] " + i.Med.MedicineName
}
func (i Item) Description() string { return i.Med.Timing.Label(i.Locale) }
func (i Item) FilterValue() string { return i.Med.MedicineName }

type KeyMap struct {
	Toggle  key.Binding
	TakeAll key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle taken"),
		),
		TakeAll: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "take all in timing"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(meds []models.MedicationLog, locale string, width, height int) Model {
	l := list.New(items(meds, locale), list.NewDefaultDelegate(), width, height)
	l.Title = "Today's medications"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.TakeAll}
	}
	return Model{list: l, keys: keys}
}

func items(meds []models.MedicationLog, locale string) []list.Item {
	out := make([]list.Item, len(meds))
	for i, m := range meds {
		out[i] = Item{Med: m, Locale: locale}
	}
	return out
}

func (m *Model) SetMedications(meds []models.MedicationLog, locale string) {
	m.list.SetItems(items(meds, locale))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleMsg{ID: i.Med.ID, Taken: !i.Med.Taken} }
			}
		case key.Matches(msg, m.keys.TakeAll):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return TakeAllMsg{Timing: i.Med.Timing} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No medications recorded today."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
