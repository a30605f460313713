package reminder

import (
	"time"

	"github.com/sadopc/studytrack/internal/store"
)

// minutesOfDay converts "HH:MM" to minutes since midnight.
func minutesOfDay(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// IsQuietNow reports whether now falls inside the nightly sleep window or
// the work window configured for now's weekday. Unparseable times never
// make a window quiet.
func IsQuietNow(now time.Time, settings store.UserSettings) bool {
	current := now.Hour()*60 + now.Minute()

	sleep, okSleep := minutesOfDay(settings.SleepStart)
	wake, okWake := minutesOfDay(settings.SleepEnd)
	if okSleep && okWake {
		if sleep > wake {
			if current >= sleep || current < wake {
				return true
			}
		} else if current >= sleep && current < wake {
			return true
		}
	}

	if work, ok := settings.WorkDay(now.Weekday()); ok {
		start, okStart := minutesOfDay(work.Start)
		end, okEnd := minutesOfDay(work.End)
		if okStart && okEnd && current >= start && current < end {
			return true
		}
	}
	return false
}

// CanRemindNow is false while reminders are disabled, otherwise the
// negation of IsQuietNow.
func CanRemindNow(now time.Time, settings store.UserSettings) bool {
	if !settings.RemindersEnabled {
		return false
	}
	return !IsQuietNow(now, settings)
}

// Block is one labelled window in a day's schedule.
type Block struct {
	Label string
	Start string
	End   string
}

// DayBlocks lists the work window for day (if any) followed by the sleep
// window, skipping blocks with an empty bound.
func DayBlocks(settings store.UserSettings, day time.Weekday) []Block {
	var blocks []Block
	for _, w := range settings.WorkSchedule {
		if w.Day == day && w.Start != "" && w.End != "" {
			blocks = append(blocks, Block{Label: "Work", Start: w.Start, End: w.End})
		}
	}
	if settings.SleepStart != "" && settings.SleepEnd != "" {
		blocks = append(blocks, Block{Label: "Sleep", Start: settings.SleepStart, End: settings.SleepEnd})
	}
	return blocks
}
