// Package streak derives consecutive-day study streaks from the session log.
package streak

import (
	"time"

	"github.com/sadopc/studytrack/internal/clock"
	"github.com/sadopc/studytrack/internal/store"
)

// SessionSource is the part of the store the calculator reads.
type SessionSource interface {
	AllSessions() []store.StudySession
}

// Calculator computes the current streak against a clock.
type Calculator struct {
	sessions SessionSource
	clock    clock.Clock
}

func NewCalculator(sessions SessionSource, c clock.Clock) *Calculator {
	return &Calculator{sessions: sessions, clock: c}
}

// CurrentStreak is Compute over the full log as of now.
func (c *Calculator) CurrentStreak() int {
	return Compute(c.sessions.AllSessions(), c.clock.Now())
}

// Compute counts consecutive days with positive study minutes, walking
// back from today. A today without minutes neither counts nor breaks the
// run ending yesterday.
func Compute(sessions []store.StudySession, now time.Time) int {
	byDate := make(map[string]int)
	for _, s := range sessions {
		byDate[s.DateKey] += s.DurationMinutes
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if byDate[clock.DateKey(day)] <= 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for byDate[clock.DateKey(day)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// TargetMet reports whether today's total reaches a non-zero daily target.
func TargetMet(totalMinutesToday, targetMinutes int) bool {
	return targetMinutes > 0 && totalMinutesToday >= targetMinutes
}

// Progress is today's share of the target in [0, 1]. Zero target means 0.
func Progress(totalMinutesToday, targetMinutes int) float64 {
	if targetMinutes <= 0 {
		return 0
	}
	p := float64(totalMinutesToday) / float64(targetMinutes)
	if p > 1 {
		return 1
	}
	return p
}
