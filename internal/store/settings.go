package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDay is returned for weekdays outside Sunday..Saturday.
var ErrInvalidDay = errors.New("invalid weekday")

// Settings returns the current settings, persisted overrides merged onto
// the defaults. Unreadable or malformed data counts as no overrides.
func (s *Store) Settings() UserSettings {
	raw, ok, err := s.getRaw(keySettings)
	if err != nil || !ok {
		return DefaultSettings()
	}
	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return DefaultSettings()
	}
	if settings.WorkSchedule == nil {
		settings.WorkSchedule = []WorkDaySchedule{}
	}
	return settings
}

// SaveSettings merges p over the current settings, persists the full
// result and returns it.
func (s *Store) SaveSettings(p SettingsPatch) (UserSettings, error) {
	next := s.Settings()
	if p.StudyTimerMinutes != nil {
		next.StudyTimerMinutes = *p.StudyTimerMinutes
	}
	if p.BreakTimerMinutes != nil {
		next.BreakTimerMinutes = *p.BreakTimerMinutes
	}
	if p.DailyTargetMinutes != nil {
		next.DailyTargetMinutes = *p.DailyTargetMinutes
	}
	if p.ReminderIntervalMinutes != nil {
		next.ReminderIntervalMinutes = *p.ReminderIntervalMinutes
	}
	if p.RemindersEnabled != nil {
		next.RemindersEnabled = *p.RemindersEnabled
	}
	if p.WorkSchedule != nil {
		next.WorkSchedule = dedupeWorkDays(p.WorkSchedule)
	}
	if p.SleepStart != nil {
		next.SleepStart = *p.SleepStart
	}
	if p.SleepEnd != nil {
		next.SleepEnd = *p.SleepEnd
	}

	data, err := json.Marshal(next)
	if err != nil {
		return next, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.putRaw(keySettings, string(data)); err != nil {
		return next, err
	}
	return next, nil
}

// SetWorkDay replaces the work window for day. An empty start or end
// removes the day's entry.
func (s *Store) SetWorkDay(day time.Weekday, start, end string) (UserSettings, error) {
	if day < time.Sunday || day > time.Saturday {
		return s.Settings(), fmt.Errorf("set work day %d: %w", int(day), ErrInvalidDay)
	}
	current := s.Settings()
	schedule := make([]WorkDaySchedule, 0, len(current.WorkSchedule)+1)
	for _, w := range current.WorkSchedule {
		if w.Day != day {
			schedule = append(schedule, w)
		}
	}
	if start != "" && end != "" {
		schedule = append(schedule, WorkDaySchedule{Day: day, Start: start, End: end})
	}
	return s.SaveSettings(SettingsPatch{WorkSchedule: schedule})
}

// dedupeWorkDays keeps the last entry given for each weekday.
func dedupeWorkDays(in []WorkDaySchedule) []WorkDaySchedule {
	out := make([]WorkDaySchedule, 0, len(in))
	index := make(map[time.Weekday]int, len(in))
	for _, w := range in {
		if i, ok := index[w.Day]; ok {
			out[i] = w
			continue
		}
		index[w.Day] = len(out)
		out = append(out, w)
	}
	return out
}

// ParseMinutes reads a minutes value typed by the user. Anything that is
// not a positive integer yields fallback.
func ParseMinutes(text string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
