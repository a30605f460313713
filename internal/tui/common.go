package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/studytrack/internal/reminder"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/sadopc/studytrack/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewTimer
	viewReports
	viewSchedule
	viewSettings
)

var viewNames = []string{"Home", "Timer", "Reports", "Schedule", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// timerDoneMsg is sent when a countdown reaches zero.
type timerDoneMsg struct {
	event timer.Event
}

// sessionSavedMsg follows any study commit so the views reload totals.
type sessionSavedMsg struct {
	session *store.StudySession
}

type settingsSavedMsg struct {
	settings store.UserSettings
}

type permissionMsg struct {
	permission reminder.Permission
}

// reminderMsg carries a reminder delivered through the status line.
type reminderMsg struct {
	title string
	body  string
}

type exportDoneMsg struct {
	path string
}

type onboardingDoneMsg struct{}

// --- Helpers ---

func errStatus(err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
}

// formatCountdown renders a remaining duration as MM:SS.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// formatMinutes renders a minute total as "1h 05m" or "45m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHours(mins int) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}
