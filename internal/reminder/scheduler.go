package reminder

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"
)

// RandomKind picks one of the four kinds uniformly.
func RandomKind() Kind {
	return Kinds[rand.IntN(len(Kinds))]
}

type armedConfig struct {
	enabled    bool
	interval   int
	permission Permission
}

// Scheduler fires a random reminder every reminderIntervalMinutes while
// reminders are enabled and permission is granted. At most one ticker
// loop is armed at a time.
type Scheduler struct {
	dispatcher *Dispatcher
	settings   SettingsSource
	pick       func() Kind
	unit       time.Duration

	life     context.Context
	shutdown context.CancelFunc

	mu      sync.Mutex
	current armedConfig
	cancel  context.CancelFunc
	done    chan struct{}
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPicker replaces the random kind picker.
func WithPicker(pick func() Kind) SchedulerOption {
	return func(s *Scheduler) { s.pick = pick }
}

// WithIntervalUnit changes what one interval "minute" lasts. Tests use it
// to run the loop in milliseconds.
func WithIntervalUnit(unit time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.unit = unit }
}

func NewScheduler(d *Dispatcher, settings SettingsSource, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		dispatcher: d,
		settings:   settings,
		pick:       RandomKind,
		unit:       time.Minute,
	}
	s.life, s.shutdown = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconfigure re-reads settings and permission. When the enabled flag,
// interval or permission changed, the previous loop is cancelled and
// waited for before a new one is armed.
func (s *Scheduler) Reconfigure(ctx context.Context) {
	settings := s.settings.Settings()
	next := armedConfig{
		enabled:    settings.RemindersEnabled,
		interval:   settings.ReminderIntervalMinutes,
		permission: s.dispatcher.Permission(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil && next == s.current {
		return
	}
	s.stopLocked()
	s.current = next

	if s.life.Err() != nil {
		return
	}
	if !next.enabled || next.permission != PermissionGranted || next.interval <= 0 {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(loopCtx, time.Duration(next.interval)*s.unit, done)
}

// Cancel tells the armed loop to exit and keeps any later Reconfigure from
// arming a new one. It does not wait and does not take the scheduler lock,
// so it is safe to call from a goroutine the loop may be blocked on.
func (s *Scheduler) Cancel() {
	s.shutdown()
}

// Stop cancels the armed loop, if any, and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.current = armedConfig{}
}

// Armed reports whether a reminder loop is currently running.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) run(ctx context.Context, every time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.life.Done():
			return
		case <-ticker.C:
			kind := s.pick()
			if s.dispatcher.Dispatch(kind) {
				log.Printf("reminder sent: %s", kind)
			}
		}
	}
}
