// Package timer runs the study and break countdowns. A single Coordinator
// owns both so that at most one is active at a time.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/studytrack/internal/chime"
	"github.com/sadopc/studytrack/internal/clock"
	"github.com/sadopc/studytrack/internal/store"
)

var (
	ErrNoSubject   = errors.New("select a subject before starting a study session")
	ErrTimerActive = errors.New("timer already active")
)

// SessionSink receives completed study sessions.
type SessionSink interface {
	AddSession(subject store.Subject, startedAt time.Time, durationMinutes int) (*store.StudySession, error)
}

// Event describes a timer that ran out on a tick.
type Event struct {
	Timer   Kind
	Session *store.StudySession // nil unless a study session was committed
	Err     error
}

type Coordinator struct {
	sessions SessionSink
	clock    clock.Clock
	cue      chime.Cue

	mu      sync.Mutex
	study   machine
	brk     machine
	subject store.Subject
}

func NewCoordinator(sessions SessionSink, c clock.Clock, cue chime.Cue, studyMinutes, breakMinutes int) *Coordinator {
	if cue == nil {
		cue = chime.Silent{}
	}
	return &Coordinator{
		sessions: sessions,
		clock:    c,
		cue:      cue,
		study:    newMachine(studyMinutes),
		brk:      newMachine(breakMinutes),
	}
}

func (c *Coordinator) machine(k Kind) *machine {
	if k == Break {
		return &c.brk
	}
	return &c.study
}

func other(k Kind) Kind {
	if k == Break {
		return Study
	}
	return Break
}

// SelectSubject sets the subject the next study commit is attributed to.
func (c *Coordinator) SelectSubject(s store.Subject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subject = s
}

func (c *Coordinator) Subject() store.Subject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject
}

// Start begins a countdown from the timer's default. Starting the study
// timer requires a subject. If the other timer is active it is ended
// first, committing any study progress.
func (c *Coordinator) Start(k Kind) (*store.StudySession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k == Study && !c.subject.Valid() {
		return nil, ErrNoSubject
	}
	m := c.machine(k)
	if m.state != StateIdle {
		return nil, fmt.Errorf("start %s: %w", k, ErrTimerActive)
	}

	var committed *store.StudySession
	if o := other(k); c.machine(o).state != StateIdle {
		var err error
		committed, err = c.endLocked(o)
		if err != nil {
			return nil, err
		}
	}
	m.start()
	return committed, nil
}

// TogglePause flips a running timer to paused and back. Idle timers are
// left alone.
func (c *Coordinator) TogglePause(k Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machine(k).togglePause()
}

// End stops k and returns it to idle. Ending the study timer commits the
// whole minutes elapsed, if any; ending an idle timer does nothing.
func (c *Coordinator) End(k Kind) (*store.StudySession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endLocked(k)
}

func (c *Coordinator) endLocked(k Kind) (*store.StudySession, error) {
	m := c.machine(k)
	if m.state == StateIdle {
		return nil, nil
	}
	elapsed := m.elapsedSeconds()
	m.reset()

	if k != Study {
		return nil, nil
	}
	minutes := elapsed / 60
	if minutes <= 0 || !c.subject.Valid() {
		return nil, nil
	}
	startedAt := c.clock.Now().Add(-time.Duration(elapsed) * time.Second)
	session, err := c.sessions.AddSession(c.subject, startedAt, minutes)
	if err != nil {
		return nil, fmt.Errorf("commit study session: %w", err)
	}
	return session, nil
}

// Tick advances whichever timer is running by one second. When it reaches
// zero the cue plays and the timer ends as if End had been called.
func (c *Coordinator) Tick() (Event, bool) {
	c.mu.Lock()
	var (
		ev      Event
		expired bool
	)
	for _, k := range []Kind{Study, Break} {
		if c.machine(k).tick() {
			expired = true
			ev.Timer = k
			ev.Session, ev.Err = c.endLocked(k)
			break
		}
	}
	c.mu.Unlock()

	if expired {
		c.cue.Play()
	}
	return ev, expired
}

// SetDefaults changes the default minutes of both timers. Idle timers are
// rebased at once; active ones pick the change up when they return to idle.
func (c *Coordinator) SetDefaults(studyMinutes, breakMinutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.study.setDefault(studyMinutes)
	c.brk.setDefault(breakMinutes)
}

// Discard drops in-flight progress of both timers without committing.
func (c *Coordinator) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.study.reset()
	c.brk.reset()
}

func (c *Coordinator) Status(k Kind) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.machine(k)
	return Status{
		Kind:           k,
		State:          m.state,
		Remaining:      time.Duration(m.remaining) * time.Second,
		DefaultMinutes: m.defaultMinutes,
	}
}

// Active returns the timer that is running or paused, if any.
func (c *Coordinator) Active() (Kind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range []Kind{Study, Break} {
		if c.machine(k).state != StateIdle {
			return k, true
		}
	}
	return Study, false
}
