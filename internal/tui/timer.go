package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/timer"
)

// timerModel drives the shared coordinator: a subject picker plus the study
// and break countdowns. Countdown state lives in the coordinator, so value
// copies of this model stay consistent.
type timerModel struct {
	timers *timer.Coordinator
	width  int
	height int

	cursor int // index into store.Subjects
}

func newTimerModel(c *timer.Coordinator) timerModel {
	return timerModel{timers: c}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

// tick advances the coordinator by one second.
func (t timerModel) tick() tea.Cmd {
	ev, expired := t.timers.Tick()
	if !expired {
		return nil
	}
	return func() tea.Msg { return timerDoneMsg{event: ev} }
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if t.cursor < len(store.Subjects)-1 {
			t.cursor++
		}
	case key.Matches(keyMsg, keys.Enter):
		subject := store.Subjects[t.cursor]
		t.timers.SelectSubject(subject)
		return t, func() tea.Msg {
			return statusMsg{text: "Subject: " + subject.String()}
		}
	case key.Matches(keyMsg, keys.Start):
		return t, t.start(timer.Study)
	case key.Matches(keyMsg, keys.Break):
		return t, t.start(timer.Break)
	case key.Matches(keyMsg, keys.Pause):
		if k, active := t.timers.Active(); active {
			t.timers.TogglePause(k)
		}
	case key.Matches(keyMsg, keys.Stop):
		if k, active := t.timers.Active(); active {
			return t, t.end(k)
		}
	}
	return t, nil
}

func (t timerModel) start(k timer.Kind) tea.Cmd {
	committed, err := t.timers.Start(k)
	if err != nil {
		if errors.Is(err, timer.ErrNoSubject) {
			return func() tea.Msg {
				return statusMsg{text: "Select a subject first (↑/↓ then enter)", isError: true}
			}
		}
		if errors.Is(err, timer.ErrTimerActive) {
			return nil
		}
		return func() tea.Msg { return errStatus(err) }
	}
	if committed != nil {
		return savedCmd(committed)
	}
	return nil
}

func (t timerModel) end(k timer.Kind) tea.Cmd {
	session, err := t.timers.End(k)
	if err != nil {
		return func() tea.Msg { return errStatus(err) }
	}
	if session != nil {
		return savedCmd(session)
	}
	text := "Study ended"
	if k == timer.Break {
		text = "Break ended"
	}
	return func() tea.Msg { return statusMsg{text: text} }
}

func savedCmd(s *store.StudySession) tea.Cmd {
	return func() tea.Msg { return sessionSavedMsg{session: s} }
}

func (t timerModel) isActive() bool {
	_, active := t.timers.Active()
	return active
}

func (t timerModel) view() string {
	w := t.width - 4
	if w < 20 {
		return "Terminal too small"
	}

	half := w / 2
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		t.renderCountdown(timer.Study, half),
		t.renderCountdown(timer.Break, w-half),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels, t.renderSubjectPicker(w))
}

func (t timerModel) renderCountdown(k timer.Kind, w int) string {
	st := t.timers.Status(k)
	label := "Study Timer"
	if k == timer.Break {
		label = "Break Timer"
	}
	title := titleStyle.Render(label)
	timeStr := formatCountdown(st.Remaining)

	var timeDisplay, indicator string
	switch st.State {
	case timer.StateRunning:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
		indicator = successStyle.Render("●  RUNNING")
	case timer.StatePaused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(timeStr)
		hint := "s to start"
		if k == timer.Break {
			hint = "b to start"
		}
		indicator = mutedStyle.Render("■  " + hint)
	}

	var detail string
	if k == timer.Study {
		if subject := t.timers.Subject(); subject.Valid() {
			detail = subjectStyle(subject).Render(subject.String())
		} else {
			detail = mutedStyle.Render("No subject selected")
		}
	} else {
		detail = mutedStyle.Render(fmt.Sprintf("%d min default", st.DefaultMinutes))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", timeDisplay, indicator, detail)
	if st.Active() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (t timerModel) renderSubjectPicker(w int) string {
	title := titleStyle.Render("Subject")
	selected := t.timers.Subject()

	var rows []string
	rows = append(rows, title)
	for i, s := range store.Subjects {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := " "
		if s == selected {
			mark = "✓"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s %s", cursor, mark, subjectDot(s), s)))
	}
	rows = append(rows, "")
	if t.isActive() {
		rows = append(rows, mutedStyle.Render("  enter: switch subject for this session  space: pause  x: end"))
	} else {
		rows = append(rows, mutedStyle.Render("  enter: select  s: study  b: break"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
