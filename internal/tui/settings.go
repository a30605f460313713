package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/reminder"
	"github.com/sadopc/studytrack/internal/store"
)

type settingsModel struct {
	store      *store.Store
	dispatcher *reminder.Dispatcher
	width      int
	height     int

	kindCursor int

	settings   store.UserSettings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	studyMinutes *string
	breakMinutes *string
	dailyTarget  *string
	interval     *int
	enabled      *bool
	sleepStart   *string
	sleepEnd     *string
}

func newSettingsModel(s *store.Store, d *reminder.Dispatcher) settingsModel {
	sm, bm, dt := "", "", ""
	ss, se := "", ""
	iv, en := store.DefaultReminderInterval, true
	return settingsModel{
		store:        s,
		dispatcher:   d,
		settings:     store.DefaultSettings(),
		studyMinutes: &sm,
		breakMinutes: &bm,
		dailyTarget:  &dt,
		interval:     &iv,
		enabled:      &en,
		sleepStart:   &ss,
		sleepEnd:     &se,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.UserSettings
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{settings: s.store.Settings()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		case key.Matches(msg, keys.Up):
			if s.kindCursor > 0 {
				s.kindCursor--
			}
		case key.Matches(msg, keys.Down):
			if s.kindCursor < len(reminder.Kinds)-1 {
				s.kindCursor++
			}
		case key.Matches(msg, keys.Test):
			return s, s.testReminder(reminder.Kinds[s.kindCursor])
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.settings
	*s.studyMinutes = strconv.Itoa(cur.StudyTimerMinutes)
	*s.breakMinutes = strconv.Itoa(cur.BreakTimerMinutes)
	*s.dailyTarget = strconv.Itoa(cur.DailyTargetMinutes)
	*s.interval = cur.ReminderIntervalMinutes
	*s.enabled = cur.RemindersEnabled
	*s.sleepStart = cur.SleepStart
	*s.sleepEnd = cur.SleepEnd

	intervalOptions := make([]huh.Option[int], len(store.ReminderIntervals))
	for i, m := range store.ReminderIntervals {
		intervalOptions[i] = huh.NewOption(fmt.Sprintf("Every %d minutes", m), m)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Study timer (min)").Value(s.studyMinutes),
			huh.NewInput().Title("Break timer (min)").Value(s.breakMinutes),
			huh.NewInput().Title("Daily target (min, 0 = none)").Value(s.dailyTarget),
		).Title("Timers"),
		huh.NewGroup(
			huh.NewConfirm().Title("Wellness reminders").Affirmative("On").Negative("Off").Value(s.enabled),
			huh.NewSelect[int]().Title("Remind me").Options(intervalOptions...).Value(s.interval),
			huh.NewInput().Title("Sleep starts (HH:MM)").Value(s.sleepStart).Validate(validateClock),
			huh.NewInput().Title("Sleep ends (HH:MM)").Value(s.sleepEnd).Validate(validateClock),
		).Title("Reminders"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

// patch turns the raw form values into a settings patch. Unusable minute
// values fall back to fixed defaults rather than failing.
func (s settingsModel) patch() store.SettingsPatch {
	study := store.ParseMinutes(*s.studyMinutes, store.DefaultStudyMinutes)
	brk := store.ParseMinutes(*s.breakMinutes, store.DefaultBreakMinutes)
	target := store.ParseMinutes(*s.dailyTarget, 0)
	interval := *s.interval
	enabled := *s.enabled
	sleepStart := strings.TrimSpace(*s.sleepStart)
	sleepEnd := strings.TrimSpace(*s.sleepEnd)
	return store.SettingsPatch{
		StudyTimerMinutes:       &study,
		BreakTimerMinutes:       &brk,
		DailyTargetMinutes:      &target,
		ReminderIntervalMinutes: &interval,
		RemindersEnabled:        &enabled,
		SleepStart:              &sleepStart,
		SleepEnd:                &sleepEnd,
	}
}

func (s settingsModel) saveSettings() tea.Cmd {
	p := s.patch()
	return func() tea.Msg {
		saved, err := s.store.SaveSettings(p)
		if err != nil {
			return errStatus(err)
		}
		return settingsSavedMsg{settings: saved}
	}
}

// testReminder sends kind through the same gate scheduled reminders use.
func (s settingsModel) testReminder(kind reminder.Kind) tea.Cmd {
	d := s.dispatcher
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		if d.Permission() != reminder.PermissionGranted {
			return statusMsg{text: "Enable notifications first (n on Home)", isError: true}
		}
		if !d.Dispatch(kind) {
			return statusMsg{text: kind.Label() + " not sent: quiet hours or reminders off"}
		}
		return nil
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	for _, kv := range settingRows(s.settings) {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}

	rows = append(rows, "", subtitleStyle.Render("Reminder kinds"))
	for i, k := range reminder.Kinds {
		cursor := "  "
		label := fmt.Sprintf("%-14s", k.Label())
		if i == s.kindCursor {
			cursor = "> "
			label = selectedItemStyle.Render(label)
		}
		rows = append(rows, fmt.Sprintf("  %s%s %s", cursor, label, mutedStyle.Render(k.Message())))
	}
	rows = append(rows, "", mutedStyle.Render("enter to edit settings · t to send the selected reminder"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRows(u store.UserSettings) [][2]string {
	target := "none"
	if u.DailyTargetMinutes > 0 {
		target = fmt.Sprintf("%d min", u.DailyTargetMinutes)
	}
	reminders := "off"
	if u.RemindersEnabled {
		reminders = fmt.Sprintf("every %d min", u.ReminderIntervalMinutes)
	}
	return [][2]string{
		{"Study timer", fmt.Sprintf("%d min", u.StudyTimerMinutes)},
		{"Break timer", fmt.Sprintf("%d min", u.BreakTimerMinutes)},
		{"Daily target", target},
		{"Reminders", reminders},
		{"Sleep", u.SleepStart + " - " + u.SleepEnd},
		{"Work days", strconv.Itoa(len(u.WorkSchedule))},
	}
}

func validateClock(v string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(v)); err != nil {
		return errors.New("use HH:MM, e.g. 22:00")
	}
	return nil
}
