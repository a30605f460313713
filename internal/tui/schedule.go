package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/reminder"
	"github.com/sadopc/studytrack/internal/store"
)

// scheduleModel lists the quiet blocks of each weekday and edits the work
// window of the selected day.
type scheduleModel struct {
	store  *store.Store
	clock  func() time.Time
	width  int
	height int

	settings store.UserSettings
	cursor   int // weekday, 0 = Sunday

	formActive bool
	form       *huh.Form
	formStart  *string
	formEnd    *string
}

func newScheduleModel(s *store.Store) scheduleModel {
	start, end := "", ""
	return scheduleModel{
		store:     s,
		clock:     s.Today,
		settings:  store.DefaultSettings(),
		cursor:    int(s.Today().Weekday()),
		formStart: &start,
		formEnd:   &end,
	}
}

func (m *scheduleModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type scheduleDataMsg struct {
	settings store.UserSettings
}

func (m scheduleModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return scheduleDataMsg{settings: m.store.Settings()}
	}
}

func (m scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case scheduleDataMsg:
		m.settings = msg.settings
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < 6 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showForm()
		case key.Matches(msg, keys.Clear):
			return m, m.setWorkDay(time.Weekday(m.cursor), "", "")
		}
	}
	return m, nil
}

func (m scheduleModel) showForm() (scheduleModel, tea.Cmd) {
	day := time.Weekday(m.cursor)
	*m.formStart, *m.formEnd = "", ""
	if w, ok := m.settings.WorkDay(day); ok {
		*m.formStart, *m.formEnd = w.Start, w.End
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work starts (HH:MM, empty to clear)").Value(m.formStart).Validate(validateOptionalClock),
			huh.NewInput().Title("Work ends (HH:MM, empty to clear)").Value(m.formEnd).Validate(validateOptionalClock),
		).Title(day.String()),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m scheduleModel) updateForm(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.setWorkDay(time.Weekday(m.cursor),
			strings.TrimSpace(*m.formStart), strings.TrimSpace(*m.formEnd))
	}
	return m, cmd
}

func (m scheduleModel) setWorkDay(day time.Weekday, start, end string) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.store.SetWorkDay(day, start, end)
		if err != nil {
			return errStatus(err)
		}
		return settingsSavedMsg{settings: saved}
	}
}

func (m scheduleModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Weekly Schedule")

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	today := m.clock().Weekday()
	var rows []string
	rows = append(rows, title, "")
	for d := time.Sunday; d <= time.Saturday; d++ {
		cursor := "  "
		style := normalItemStyle
		if int(d) == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := d.String()
		if d == today {
			name += " *"
		}
		line := style.Render(fmt.Sprintf("%s%-12s", cursor, name))
		rows = append(rows, line+" "+renderBlocks(reminder.DayBlocks(m.settings, d)))
	}

	state := successStyle.Render("Reminders may fire now")
	if reminder.IsQuietNow(m.clock(), m.settings) {
		state = warningStyle.Render("Quiet hours now")
	}
	rows = append(rows, "", "  "+state, "",
		mutedStyle.Render("  enter: edit work hours  d: clear day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderBlocks(blocks []reminder.Block) string {
	if len(blocks) == 0 {
		return mutedStyle.Render("free")
	}
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		style := highlightStyle
		if b.Label == "Work" {
			style = accentStyle
		}
		parts[i] = style.Render(fmt.Sprintf("%s %s-%s", b.Label, b.Start, b.End))
	}
	return strings.Join(parts, mutedStyle.Render("  ·  "))
}

func validateOptionalClock(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return validateClock(v)
}
