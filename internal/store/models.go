package store

import "time"

// StudySession is one completed study interval. Once appended it is never
// changed or removed.
type StudySession struct {
	ID              string    `json:"id"`
	Subject         Subject   `json:"subject"`
	StartedAt       time.Time `json:"startedAt"`
	DurationMinutes int       `json:"durationMinutes"`
	DateKey         string    `json:"dateKey"` // YYYY-MM-DD, local
}

// WorkDaySchedule is a quiet window for one weekday.
type WorkDaySchedule struct {
	Day   time.Weekday `json:"day"` // 0 = Sunday
	Start string       `json:"start"`
	End   string       `json:"end"`
}

// UserSettings is the singleton preference record. It is always fully
// populated; missing persisted fields fall back to DefaultSettings.
type UserSettings struct {
	StudyTimerMinutes       int               `json:"studyTimerMinutes"`
	BreakTimerMinutes       int               `json:"breakTimerMinutes"`
	DailyTargetMinutes      int               `json:"dailyTargetMinutes"` // 0 = no target
	ReminderIntervalMinutes int               `json:"reminderIntervalMinutes"`
	RemindersEnabled        bool              `json:"remindersEnabled"`
	WorkSchedule            []WorkDaySchedule `json:"workSchedule"`
	SleepStart              string            `json:"sleepStart"` // "22:00"
	SleepEnd                string            `json:"sleepEnd"`   // "06:00"
}

// SettingsPatch carries the fields to change in a SaveSettings call.
// Nil fields are left as they are.
type SettingsPatch struct {
	StudyTimerMinutes       *int
	BreakTimerMinutes       *int
	DailyTargetMinutes      *int
	ReminderIntervalMinutes *int
	RemindersEnabled        *bool
	WorkSchedule            []WorkDaySchedule // nil = unchanged
	SleepStart              *string
	SleepEnd                *string
}

// Fixed fallbacks used when user input is not a usable number.
const (
	DefaultStudyMinutes     = 45
	DefaultBreakMinutes     = 15
	DefaultTargetMinutes    = 120
	DefaultReminderInterval = 90
)

// ReminderIntervals are the selectable reminder intervals in minutes.
var ReminderIntervals = []int{60, 90, 120}

func DefaultSettings() UserSettings {
	return UserSettings{
		StudyTimerMinutes:       DefaultStudyMinutes,
		BreakTimerMinutes:       DefaultBreakMinutes,
		DailyTargetMinutes:      DefaultTargetMinutes,
		ReminderIntervalMinutes: DefaultReminderInterval,
		RemindersEnabled:        true,
		WorkSchedule:            []WorkDaySchedule{},
		SleepStart:              "22:00",
		SleepEnd:                "06:00",
	}
}

// WorkDay returns the work window for day, if one is configured.
func (u UserSettings) WorkDay(day time.Weekday) (WorkDaySchedule, bool) {
	for _, w := range u.WorkSchedule {
		if w.Day == day {
			return w, true
		}
	}
	return WorkDaySchedule{}, false
}
