package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case !m.loaded && m.err == nil:
		content = docStyle.Render("Loading...")
	case m.tab == TabToday:
		content = m.viewToday()
	case m.tab == TabRecent:
		content = docStyle.Render(m.logs.View())
	case m.tab == TabSummary:
		content = m.viewSummary()
	}

	footer := ""
	switch {
	case m.err != nil:
		footer = dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		footer,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func (m Model) viewToday() string {
	d := m.dashboard
	mood := "-"
	if d.Today != nil && d.Today.MoodScore != nil {
		mood = strconv.Itoa(*d.Today.MoodScore)
	}
	sleepText := d.AvgSleepText
	if sleepText == "" {
		sleepText = "-"
	}
	next := "none"
	if d.UpcomingAppointment != nil {
		next = d.UpcomingAppointment.AppointmentDate + " " + d.UpcomingAppointment.DoctorName
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today ("+m.today.Date+") mood", mood),
		card("Doses taken today", fmt.Sprintf("%.1f%%", d.TodayAdherence)),
		card("7-day avg mood", formatFloat(d.Weekly.AvgMood)),
		card("7-day avg sleep", sleepText),
		card("Next appointment", next),
	)
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cards, m.meds.View()))
}

func (m Model) viewSummary() string {
	r := m.summary
	st := r.Statistics

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s to %s\n\n", valueStyle.Render(r.Range.Period.Label(m.locale)), r.Range.From, r.Range.To)
	b.WriteString(r.Summary)
	b.WriteString("\n\n")
	rows := [][2]string{
		{"Entries", strconv.Itoa(st.TotalEntries)},
		{"Average mood", formatFloat(st.MoodAvg)},
		{"Average sleep (h)", formatFloat(st.SleepAvg)},
		{"Adherence", fmt.Sprintf("%.1f%%", st.AdherenceRate)},
		{"Mood trend", string(r.Trend)},
		{"Sleep pattern", string(r.SleepPattern)},
		{"Diary tone", string(r.Sentiment.Sentiment)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", row[0])), row[1])
	}
	return docStyle.Render(b.String())
}
