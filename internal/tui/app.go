package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytrack/internal/export"
	"github.com/sadopc/studytrack/internal/reminder"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/streak"
	"github.com/sadopc/studytrack/internal/timer"
)

// Services are the long-lived collaborators the UI drives. Scheduler may
// be nil when reminders are not wired.
type Services struct {
	Store      *store.Store
	Timers     *timer.Coordinator
	Dispatcher *reminder.Dispatcher
	Scheduler  *reminder.Scheduler
	Streak     *streak.Calculator
}

// App is the root Bubble Tea model.
type App struct {
	svc    Services
	width  int
	height int

	activeView     viewState
	showOnboarding bool
	showHelp       bool
	exportPicking  bool
	exportCursor   int

	home       homeModel
	timer      timerModel
	reports    reportsModel
	schedule   scheduleModel
	settings   settingsModel
	onboarding onboardingModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(svc Services) App {
	h := help.New()
	h.ShowAll = false

	if svc.Streak == nil {
		svc.Streak = streak.NewCalculator(svc.Store, storeClock{svc.Store})
	}

	home := newHomeModel(svc.Store, svc.Streak, svc.Dispatcher)
	if svc.Dispatcher != nil {
		home.permission = svc.Dispatcher.Permission()
	}

	return App{
		svc:            svc,
		activeView:     viewHome,
		showOnboarding: !svc.Store.OnboardingSeen(),
		home:           home,
		timer:          newTimerModel(svc.Timers),
		reports:        newReportsModel(svc.Store),
		schedule:       newScheduleModel(svc.Store),
		settings:       newSettingsModel(svc.Store, svc.Dispatcher),
		onboarding:     newOnboardingModel(svc.Store),
		help:           h,
	}
}

// storeClock reads "now" through the store so the streak and the session
// date keys agree.
type storeClock struct{ s *store.Store }

func (c storeClock) Now() time.Time { return c.s.Today() }

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.home.Init(),
		a.settings.refresh(),
		a.reconfigureReminders(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// reconfigureReminders re-arms the scheduler from current settings and
// permission.
func (a App) reconfigureReminders() tea.Cmd {
	sched := a.svc.Scheduler
	if sched == nil {
		return nil
	}
	return func() tea.Msg {
		sched.Reconfigure(context.Background())
		return nil
	}
}

// shutdown drops in-flight timers and cancels reminders. The reminder
// loop may be blocked sending to this program, so it is not waited for
// here; the owner calls Scheduler.Stop once the program has exited.
func (a App) shutdown() {
	a.svc.Timers.Discard()
	if a.svc.Scheduler != nil {
		a.svc.Scheduler.Cancel()
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.home.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.schedule.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.onboarding.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
			a.shutdown()
			return a, tea.Quit
		}

		if a.showOnboarding {
			var cmd tea.Cmd
			a.onboarding, cmd = a.onboarding.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.shutdown()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHome
			return a, a.home.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSchedule
			return a, a.schedule.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Timers count down regardless of the visible view.
		if cmd := a.timer.tick(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case timerDoneMsg:
		if msg.event.Err != nil {
			return a.setStatus(errStatus(msg.event.Err)), nil
		}
		if msg.event.Session != nil {
			a = a.setStatus(statusMsg{text: fmt.Sprintf("Study complete! %d min of %s saved",
				msg.event.Session.DurationMinutes, msg.event.Session.Subject)})
			return a, a.refreshData()
		}
		if msg.event.Timer == timer.Break {
			return a.setStatus(statusMsg{text: "Break over. Back to it!"}), nil
		}
		return a.setStatus(statusMsg{text: "Study timer finished"}), nil

	case sessionSavedMsg:
		a = a.setStatus(statusMsg{text: fmt.Sprintf("Saved %d min of %s",
			msg.session.DurationMinutes, msg.session.Subject)})
		return a, a.refreshData()

	case settingsSavedMsg:
		a.svc.Timers.SetDefaults(msg.settings.StudyTimerMinutes, msg.settings.BreakTimerMinutes)
		a.settings.settings = msg.settings
		a.schedule.settings = msg.settings
		a = a.setStatus(statusMsg{text: "Settings saved"})
		return a, tea.Batch(a.home.loadData(), a.reconfigureReminders())

	case settingsDataMsg:
		// Timer defaults follow the stored settings on every load.
		a.svc.Timers.SetDefaults(msg.settings.StudyTimerMinutes, msg.settings.BreakTimerMinutes)
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case permissionMsg:
		a.home, _ = a.home.update(msg)
		text := "Notifications enabled"
		if msg.permission != reminder.PermissionGranted {
			text = "Notifications unavailable"
		}
		a = a.setStatus(statusMsg{text: text, isError: msg.permission != reminder.PermissionGranted})
		return a, a.reconfigureReminders()

	case reminderMsg:
		a.status = reminderStyle.Render("🔔 "+msg.title+": ") + msg.body
		a.statusError = false
		return a, nil

	case onboardingDoneMsg:
		a.showOnboarding = false
		return a, a.home.loadData()

	case statusMsg:
		return a.setStatus(msg), nil

	case exportDoneMsg:
		a = a.setStatus(statusMsg{text: "Exported to " + msg.path})
		a.exportPicking = false
		return a, nil

	case homeDataMsg:
		a.home, _ = a.home.update(msg)
		return a, nil

	case reportsDataMsg:
		a.reports, _ = a.reports.update(msg)
		return a, nil

	case scheduleDataMsg:
		a.schedule, _ = a.schedule.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) setStatus(msg statusMsg) App {
	a.status = msg.text
	a.statusError = msg.isError
	return a
}

// refreshData reloads everything derived from the session log.
func (a App) refreshData() tea.Cmd {
	return tea.Batch(a.home.loadData(), a.reports.refresh())
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHome:
		a.home, cmd = a.home.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSchedule:
		a.schedule, cmd = a.schedule.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewSchedule:
		return a.schedule.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHome:
		return a.home.loadData()
	case viewReports:
		return a.reports.refresh()
	case viewSchedule:
		return a.schedule.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHome:
		content = a.home.view()
	case viewTimer:
		content = a.timer.view()
	case viewReports:
		content = a.reports.view()
	case viewSchedule:
		content = a.schedule.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.showOnboarding {
		content = a.onboarding.view()
	} else if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studytrack")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Active countdown in footer
	timerInfo := ""
	if k, active := a.svc.Timers.Active(); active {
		st := a.svc.Timers.Status(k)
		label := k.String() + " " + formatCountdown(st.Remaining)
		if st.State == timer.StatePaused {
			timerInfo = warningStyle.Render(" ⏸ " + label)
		} else {
			timerInfo = successStyle.Render(" ● " + label)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Sessions")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	s := a.svc.Store
	return func() tea.Msg {
		sessions := s.AllSessions()

		home, err := os.UserHomeDir()
		if err != nil {
			return errStatus(err)
		}
		dateStr := s.Today().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("studytrack-export-%s.csv", dateStr))
			if err := export.ToCSV(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("studytrack-export-%s.json", dateStr))
			if err := export.ToJSON(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
