package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/store"
)

var onboardingPages = []struct {
	title string
	lines []string
}{
	{
		title: "Welcome to your DAT study tracker",
		lines: []string{
			"Track focused study time per DAT subject,",
			"keep a daily streak and hit your daily target.",
		},
	},
	{
		title: "Timers",
		lines: []string{
			"Pick a subject, then start the study timer with s.",
			"Ending early still counts every whole minute studied.",
			"Take a break with b. Starting one timer ends the other.",
		},
	},
	{
		title: "Reminders",
		lines: []string{
			"Short wellness reminders arrive while you study.",
			"They stay silent during your sleep and work hours.",
			"Set both on the Schedule and Settings tabs.",
		},
	},
}

// onboardingModel is shown once, before the tabs, until the user pages
// through it.
type onboardingModel struct {
	store *store.Store
	width int
	page  int
}

func newOnboardingModel(s *store.Store) onboardingModel {
	return onboardingModel{store: s}
}

func (o *onboardingModel) setSize(w, _ int) {
	o.width = w
}

func (o onboardingModel) update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Left), key.Matches(keyMsg, keys.Up):
		if o.page > 0 {
			o.page--
		}
	case key.Matches(keyMsg, keys.Enter), key.Matches(keyMsg, keys.Right), key.Matches(keyMsg, keys.Down):
		if o.page < len(onboardingPages)-1 {
			o.page++
			return o, nil
		}
		return o, o.finish()
	case key.Matches(keyMsg, keys.Back):
		return o, o.finish()
	}
	return o, nil
}

func (o onboardingModel) finish() tea.Cmd {
	return func() tea.Msg {
		if err := o.store.MarkOnboardingSeen(); err != nil {
			return errStatus(err)
		}
		return onboardingDoneMsg{}
	}
}

func (o onboardingModel) view() string {
	w := o.width - 4
	page := onboardingPages[o.page]

	var dots []string
	for i := range onboardingPages {
		if i == o.page {
			dots = append(dots, accentStyle.Render("●"))
		} else {
			dots = append(dots, mutedStyle.Render("○"))
		}
	}

	body := make([]string, len(page.lines))
	for i, l := range page.lines {
		body[i] = normalItemStyle.Render(l)
	}

	hint := "enter: next  esc: skip"
	if o.page == len(onboardingPages)-1 {
		hint = "enter: get started"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(page.title),
		"",
		strings.Join(body, "\n"),
		"",
		strings.Join(dots, " "),
		"",
		mutedStyle.Render(hint),
	)
	return activePanelStyle.Width(w).Align(lipgloss.Center).Render(content)
}
