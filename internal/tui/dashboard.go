package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/reminder"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/streak"
)

// homeModel shows today's progress: total minutes against the target, the
// streak, the day's sessions and the reminder permission.
type homeModel struct {
	store      *store.Store
	streak     *streak.Calculator
	dispatcher *reminder.Dispatcher
	width      int
	height     int

	todayTotal       int
	target           int
	streakDays       int
	sessions         []store.StudySession
	remindersEnabled bool
	permission       reminder.Permission

	bar progress.Model
}

func newHomeModel(s *store.Store, calc *streak.Calculator, d *reminder.Dispatcher) homeModel {
	return homeModel{
		store:      s,
		streak:     calc,
		dispatcher: d,
		permission: reminder.PermissionDefault,
		bar:        progress.New(progress.WithGradient(string(colorPrimary), string(colorSuccess))),
	}
}

func (h homeModel) Init() tea.Cmd {
	return h.loadData()
}

func (h *homeModel) setSize(w, hh int) {
	h.width = w
	h.height = hh
	h.bar.Width = max(10, w-12)
}

type homeDataMsg struct {
	todayTotal       int
	target           int
	streakDays       int
	sessions         []store.StudySession
	remindersEnabled bool
}

func (h homeModel) loadData() tea.Cmd {
	return func() tea.Msg {
		settings := h.store.Settings()
		return homeDataMsg{
			todayTotal:       h.store.TodayTotal(),
			target:           settings.DailyTargetMinutes,
			streakDays:       h.streak.CurrentStreak(),
			sessions:         h.store.SessionsForDate(h.store.Today()),
			remindersEnabled: settings.RemindersEnabled,
		}
	}
}

// requestPermission asks the notification surface once; the dispatcher
// caches the answer.
func (h homeModel) requestPermission() tea.Cmd {
	if h.dispatcher == nil {
		return nil
	}
	d := h.dispatcher
	return func() tea.Msg {
		return permissionMsg{permission: d.RequestPermission(context.Background())}
	}
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeDataMsg:
		h.todayTotal = msg.todayTotal
		h.target = msg.target
		h.streakDays = msg.streakDays
		h.sessions = msg.sessions
		h.remindersEnabled = msg.remindersEnabled
		return h, nil

	case permissionMsg:
		h.permission = msg.permission
		return h, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Notify) && h.permission == reminder.PermissionDefault {
			return h, h.requestPermission()
		}
	}
	return h, nil
}

func (h homeModel) view() string {
	if h.width < 20 {
		return "Terminal too small"
	}

	contentWidth := h.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		h.renderProgressPanel(contentWidth),
		h.renderSessionsPanel(contentWidth),
		h.renderReminderPanel(contentWidth),
	)
}

func (h homeModel) renderProgressPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatMinutes(h.todayTotal))
	header := fmt.Sprintf("%s  %s", title, total)

	var goal string
	switch {
	case h.target <= 0:
		goal = mutedStyle.Render("No daily target set")
	case streak.TargetMet(h.todayTotal, h.target):
		goal = successStyle.Render(fmt.Sprintf("✓ Target of %s reached", formatMinutes(h.target)))
	default:
		goal = h.bar.ViewAs(streak.Progress(h.todayTotal, h.target)) +
			mutedStyle.Render(fmt.Sprintf("  %d / %d min", h.todayTotal, h.target))
	}

	streakLine := mutedStyle.Render("No streak yet. Study today to start one.")
	if h.streakDays > 0 {
		unit := "days"
		if h.streakDays == 1 {
			unit = "day"
		}
		streakLine = accentStyle.Render(fmt.Sprintf("🔥 %d %s streak", h.streakDays, unit))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", goal, "", streakLine)
	return activePanelStyle.Width(w).Render(content)
}

func (h homeModel) renderSessionsPanel(w int) string {
	title := titleStyle.Render("Today's Sessions")
	if len(h.sessions) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet. Press 2 to open the timer."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, s := range h.sessions {
		row := fmt.Sprintf("  %s %s  %-24s %s",
			subjectDot(s.Subject),
			s.StartedAt.Local().Format("15:04"),
			s.Subject,
			formatMinutes(s.DurationMinutes),
		)
		rows = append(rows, row)
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h homeModel) renderReminderPanel(w int) string {
	title := titleStyle.Render("Reminders")

	var line string
	switch {
	case !h.remindersEnabled:
		line = mutedStyle.Render("Reminders are off. Turn them on in Settings.")
	case h.permission == reminder.PermissionGranted:
		line = successStyle.Render("● Notifications enabled")
	case h.permission == reminder.PermissionDenied:
		line = errorStyle.Render("Notifications unavailable")
	default:
		line = warningStyle.Render("Press n to enable notifications")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, line))
}
