package streak

import (
	"testing"
	"time"

	"github.com/sadopc/studytrack/internal/clock"
	"github.com/sadopc/studytrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)

func session(daysAgo, minutes int) store.StudySession {
	return store.StudySession{
		Subject:         store.SubjectBiology,
		DurationMinutes: minutes,
		DateKey:         clock.DateKey(today.AddDate(0, 0, -daysAgo)),
	}
}

func TestComputeIncludesToday(t *testing.T) {
	sessions := []store.StudySession{session(0, 30), session(1, 10), session(2, 45)}
	assert.Equal(t, 3, Compute(sessions, today))
}

func TestComputeTodayEmptyKeepsYesterdayRun(t *testing.T) {
	sessions := []store.StudySession{session(1, 20), session(2, 20)}
	assert.Equal(t, 2, Compute(sessions, today))
}

func TestComputeStopsAtGap(t *testing.T) {
	sessions := []store.StudySession{session(0, 5), session(1, 5), session(3, 60), session(4, 60)}
	assert.Equal(t, 2, Compute(sessions, today))
}

func TestComputeNoActivity(t *testing.T) {
	assert.Equal(t, 0, Compute(nil, today))
	assert.Equal(t, 0, Compute([]store.StudySession{session(2, 30)}, today))
}

func TestComputeOneSessionCountsLikeMany(t *testing.T) {
	one := []store.StudySession{session(0, 1), session(1, 1)}
	many := []store.StudySession{session(0, 10), session(0, 20), session(0, 30), session(1, 5), session(1, 5)}
	assert.Equal(t, Compute(one, today), Compute(many, today))
}

func TestComputeAggregatesMinutesPerDay(t *testing.T) {
	// A zero-minute entry alongside a positive one still leaves the day positive.
	sessions := []store.StudySession{session(0, 0), session(0, 15)}
	assert.Equal(t, 1, Compute(sessions, today))
}

func TestComputeAcrossMonthBoundary(t *testing.T) {
	first := time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local)
	sessions := []store.StudySession{
		{DurationMinutes: 10, DateKey: "2026-04-01"},
		{DurationMinutes: 10, DateKey: "2026-03-31"},
		{DurationMinutes: 10, DateKey: "2026-03-30"},
	}
	assert.Equal(t, 3, Compute(sessions, first))
}

func TestCalculatorReadsStore(t *testing.T) {
	clk := &clock.Fixed{T: today}
	s, err := store.NewMemory(store.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	calc := NewCalculator(s, clk)
	assert.Equal(t, 0, calc.CurrentStreak())

	clk.T = today.AddDate(0, 0, -2)
	_, err = s.AddSession(store.SubjectBiology, clk.T, 30)
	require.NoError(t, err)
	clk.T = today.AddDate(0, 0, -1)
	_, err = s.AddSession(store.SubjectGeneralChem, clk.T, 30)
	require.NoError(t, err)

	clk.T = today
	assert.Equal(t, 2, calc.CurrentStreak())

	_, err = s.AddSession(store.SubjectOrganicChem, clk.T, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, calc.CurrentStreak())
}

func TestTargetMet(t *testing.T) {
	assert.False(t, TargetMet(500, 0), "zero target is never met")
	assert.False(t, TargetMet(119, 120))
	assert.True(t, TargetMet(120, 120))
	assert.True(t, TargetMet(200, 120))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(50, 0))
	assert.InDelta(t, 0.5, Progress(60, 120), 1e-9)
	assert.Equal(t, 1.0, Progress(300, 120))
}
