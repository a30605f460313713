package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/studytrack/internal/clock"
)

// DailySummary is the study time for one subject on one day.
type DailySummary struct {
	Date         string
	Subject      Subject
	TotalMinutes int
	SessionCount int
}

func (s *Store) loadSessions() []StudySession {
	raw, ok, err := s.getRaw(keySessions)
	if err != nil || !ok {
		return nil
	}
	var sessions []StudySession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil
	}
	return sessions
}

func (s *Store) saveSessions(sessions []StudySession) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	return s.putRaw(keySessions, string(data))
}

// AddSession appends a completed session attributed to today's date.
// Non-positive durations are dropped and return (nil, nil).
func (s *Store) AddSession(subject Subject, startedAt time.Time, durationMinutes int) (*StudySession, error) {
	if durationMinutes <= 0 {
		return nil, nil
	}
	session := StudySession{
		ID:              uuid.NewString(),
		Subject:         subject,
		StartedAt:       startedAt,
		DurationMinutes: durationMinutes,
		DateKey:         clock.DateKey(s.clock.Now()),
	}
	sessions := append(s.loadSessions(), session)
	if err := s.saveSessions(sessions); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	return &session, nil
}

// AllSessions returns the full log in storage order.
func (s *Store) AllSessions() []StudySession {
	return s.loadSessions()
}

// SessionsForDate returns the sessions whose date key matches date.
func (s *Store) SessionsForDate(date time.Time) []StudySession {
	key := clock.DateKey(date)
	var out []StudySession
	for _, session := range s.loadSessions() {
		if session.DateKey == key {
			out = append(out, session)
		}
	}
	return out
}

// TotalMinutesForDate sums the minutes studied on date.
func (s *Store) TotalMinutesForDate(date time.Time) int {
	total := 0
	for _, session := range s.SessionsForDate(date) {
		total += session.DurationMinutes
	}
	return total
}

// TodayTotal is TotalMinutesForDate for the store clock's current date.
func (s *Store) TodayTotal() int {
	return s.TotalMinutesForDate(s.clock.Now())
}

// Today is the store clock's current instant.
func (s *Store) Today() time.Time {
	return s.clock.Now()
}

// GetDailySummary aggregates minutes per date and subject for date keys in
// [from, to), ordered by date then subject.
func (s *Store) GetDailySummary(from, to time.Time) []DailySummary {
	fromKey, toKey := clock.DateKey(from), clock.DateKey(to)

	type bucket struct {
		date    string
		subject Subject
	}
	totals := make(map[bucket]*DailySummary)
	for _, session := range s.loadSessions() {
		if session.DateKey < fromKey || session.DateKey >= toKey {
			continue
		}
		b := bucket{session.DateKey, session.Subject}
		ds, ok := totals[b]
		if !ok {
			ds = &DailySummary{Date: b.date, Subject: b.subject}
			totals[b] = ds
		}
		ds.TotalMinutes += session.DurationMinutes
		ds.SessionCount++
	}

	summaries := make([]DailySummary, 0, len(totals))
	for _, ds := range totals {
		summaries = append(summaries, *ds)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date < summaries[j].Date
		}
		return summaries[i].Subject < summaries[j].Subject
	})
	return summaries
}

// LastSession returns the most recently appended session, if any.
func (s *Store) LastSession() (StudySession, bool) {
	sessions := s.loadSessions()
	if len(sessions) == 0 {
		return StudySession{}, false
	}
	return sessions[len(sessions)-1], true
}
