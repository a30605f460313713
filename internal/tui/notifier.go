package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studytrack/internal/reminder"
)

var errNotAttached = errors.New("status notifier: no program attached")

// StatusNotifier is a reminder.Notifier that shows reminders in the app's
// status line. Attach the running program before reminders fire.
type StatusNotifier struct {
	mu      sync.Mutex
	program *tea.Program
}

var _ reminder.Notifier = (*StatusNotifier)(nil)

func (n *StatusNotifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// RequestPermission always grants: the terminal is the surface.
func (n *StatusNotifier) RequestPermission(context.Context) reminder.Permission {
	return reminder.PermissionGranted
}

func (n *StatusNotifier) Show(title, body string) error {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p == nil {
		return errNotAttached
	}
	p.Send(reminderMsg{title: title, body: body})
	return nil
}
