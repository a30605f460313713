package reminder

import (
	"context"
	"log"
	"sync"

	"github.com/sadopc/studytrack/internal/clock"
	"github.com/sadopc/studytrack/internal/store"
)

// SettingsSource is the part of the store the reminder logic reads.
type SettingsSource interface {
	Settings() store.UserSettings
}

// Dispatcher surfaces reminders through a Notifier when the current time
// and settings allow it.
type Dispatcher struct {
	settings SettingsSource
	clock    clock.Clock
	notifier Notifier

	mu         sync.Mutex
	permission Permission
}

func NewDispatcher(settings SettingsSource, c clock.Clock, n Notifier) *Dispatcher {
	return &Dispatcher{
		settings:   settings,
		clock:      c,
		notifier:   n,
		permission: PermissionDefault,
	}
}

// RequestPermission asks the notifier once; later calls return the cached
// answer.
func (d *Dispatcher) RequestPermission(ctx context.Context) Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.permission != PermissionDefault {
		return d.permission
	}
	d.permission = d.notifier.RequestPermission(ctx)
	if d.permission == PermissionDefault {
		d.permission = PermissionDenied
	}
	return d.permission
}

func (d *Dispatcher) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// CanRemindNow applies the quiet-hours rules to the current settings.
func (d *Dispatcher) CanRemindNow() bool {
	return CanRemindNow(d.clock.Now(), d.settings.Settings())
}

// Dispatch shows kind's message unless permission is missing or quiet
// hours apply. It reports whether a notification went out.
func (d *Dispatcher) Dispatch(kind Kind) bool {
	if d.Permission() != PermissionGranted {
		return false
	}
	if !d.CanRemindNow() {
		return false
	}
	if err := d.notifier.Show(Title, kind.Message()); err != nil {
		log.Printf("reminder %s: %v", kind, err)
		return false
	}
	return true
}
