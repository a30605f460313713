package clock

import "time"

// Clock abstracts "now" so date keys and quiet hours are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns T. Tests move it forward by assigning T.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}

// DateKey formats t as the local calendar date used to bucket sessions.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
