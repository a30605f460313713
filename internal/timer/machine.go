package timer

import "time"

// Kind names one of the two timers.
type Kind int

const (
	Study Kind = iota
	Break
)

func (k Kind) String() string {
	if k == Break {
		return "break"
	}
	return "study"
}

// State is a timer's position in idle -> running <-> paused -> idle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

var stateNames = map[State]string{
	StateIdle:    "IDLE",
	StateRunning: "RUNNING",
	StatePaused:  "PAUSED",
}

func (s State) String() string {
	return stateNames[s]
}

// Status is a read-only view of one timer.
type Status struct {
	Kind           Kind
	State          State
	Remaining      time.Duration
	DefaultMinutes int
}

// Active reports whether the timer is running or paused.
func (s Status) Active() bool {
	return s.State != StateIdle
}

// machine is the countdown for one timer. Remaining and total are whole
// seconds; total is the default captured at start, the base for elapsed
// time.
type machine struct {
	state          State
	defaultMinutes int
	pendingMinutes int // deferred default change, 0 = none
	total          int
	remaining      int
}

func newMachine(minutes int) machine {
	return machine{
		state:          StateIdle,
		defaultMinutes: minutes,
		remaining:      minutes * 60,
	}
}

func (m *machine) start() {
	m.total = m.defaultMinutes * 60
	m.remaining = m.total
	m.state = StateRunning
}

func (m *machine) elapsedSeconds() int {
	if e := m.total - m.remaining; e > 0 {
		return e
	}
	return 0
}

// reset returns to idle, applying any deferred default.
func (m *machine) reset() {
	if m.pendingMinutes > 0 {
		m.defaultMinutes = m.pendingMinutes
		m.pendingMinutes = 0
	}
	m.state = StateIdle
	m.total = 0
	m.remaining = m.defaultMinutes * 60
}

func (m *machine) setDefault(minutes int) {
	if minutes <= 0 {
		return
	}
	if m.state == StateIdle {
		m.defaultMinutes = minutes
		m.pendingMinutes = 0
		m.remaining = minutes * 60
		return
	}
	m.pendingMinutes = minutes
}

func (m *machine) togglePause() {
	switch m.state {
	case StateRunning:
		m.state = StatePaused
	case StatePaused:
		m.state = StateRunning
	}
}

// tick advances a running timer by one second and reports expiry.
func (m *machine) tick() bool {
	if m.state != StateRunning {
		return false
	}
	if m.remaining > 0 {
		m.remaining--
	}
	return m.remaining == 0
}
