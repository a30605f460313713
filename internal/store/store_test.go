package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/studytrack/internal/clock"
)

func newTestStore(t *testing.T) (*Store, *clock.Fixed) {
	t.Helper()
	clk := &clock.Fixed{T: time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)}
	s, err := NewMemory(WithClock(clk))
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clk
}

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(v string) *string { return &v }

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/studytrack.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSession(SubjectBiology, time.Now(), 5); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration is not re-run destructively.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if got := len(s2.AllSessions()); got != 1 {
		t.Fatalf("expected 1 session after reopen, got %d", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	got := s.Settings()
	want := DefaultSettings()
	if got.StudyTimerMinutes != 45 || got.BreakTimerMinutes != 15 ||
		got.DailyTargetMinutes != 120 || got.ReminderIntervalMinutes != 90 ||
		!got.RemindersEnabled || got.SleepStart != "22:00" || got.SleepEnd != "06:00" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.WorkSchedule == nil || len(got.WorkSchedule) != 0 {
		t.Fatalf("expected empty non-nil work schedule, got %#v", got.WorkSchedule)
	}
	if got.SleepStart != want.SleepStart {
		t.Fatal("defaults mismatch")
	}
}

func TestSaveSettingsMergesPartial(t *testing.T) {
	s, _ := newTestStore(t)

	next, err := s.SaveSettings(SettingsPatch{StudyTimerMinutes: intPtr(50)})
	if err != nil {
		t.Fatal(err)
	}
	if next.StudyTimerMinutes != 50 || next.BreakTimerMinutes != 15 {
		t.Fatalf("unexpected result: %+v", next)
	}

	next, err = s.SaveSettings(SettingsPatch{
		RemindersEnabled: boolPtr(false),
		SleepEnd:         strPtr("07:30"),
	})
	if err != nil {
		t.Fatal(err)
	}
	got := s.Settings()
	if got.StudyTimerMinutes != 50 {
		t.Fatalf("earlier field lost: %d", got.StudyTimerMinutes)
	}
	if got.RemindersEnabled || got.SleepEnd != "07:30" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.SleepStart != "22:00" || got.DailyTargetMinutes != 120 {
		t.Fatalf("unspecified fields changed: %+v", got)
	}
	if next.SleepEnd != got.SleepEnd {
		t.Fatal("returned settings differ from persisted settings")
	}
}

func TestSettingsPartialPersistedRecord(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.putRaw(keySettings, `{"dailyTargetMinutes": 0}`); err != nil {
		t.Fatal(err)
	}
	got := s.Settings()
	if got.DailyTargetMinutes != 0 {
		t.Fatalf("expected override 0, got %d", got.DailyTargetMinutes)
	}
	if got.StudyTimerMinutes != 45 || !got.RemindersEnabled {
		t.Fatalf("missing fields should default: %+v", got)
	}
}

func TestSettingsMalformedFallsBackToDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.putRaw(keySettings, `{"studyTimerMinutes": "lots"`); err != nil {
		t.Fatal(err)
	}
	got := s.Settings()
	if got.StudyTimerMinutes != 45 {
		t.Fatalf("expected default after malformed data, got %d", got.StudyTimerMinutes)
	}
}

func TestSetWorkDayReplacesExisting(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.SetWorkDay(time.Monday, "09:00", "17:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetWorkDay(time.Tuesday, "10:00", "12:00"); err != nil {
		t.Fatal(err)
	}
	got, err := s.SetWorkDay(time.Monday, "08:00", "16:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.WorkSchedule) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.WorkSchedule))
	}
	mon, ok := got.WorkDay(time.Monday)
	if !ok || mon.Start != "08:00" || mon.End != "16:00" {
		t.Fatalf("monday not replaced: %+v", mon)
	}
}

func TestSetWorkDayRemove(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetWorkDay(time.Friday, "09:00", "17:00")
	got, err := s.SetWorkDay(time.Friday, "", "17:00")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.WorkDay(time.Friday); ok {
		t.Fatal("friday should be removed")
	}
}

func TestSetWorkDayInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.SetWorkDay(time.Weekday(7), "09:00", "17:00"); err == nil {
		t.Fatal("expected error for invalid day")
	}
}

func TestSaveSettingsDedupesWorkDays(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.SaveSettings(SettingsPatch{WorkSchedule: []WorkDaySchedule{
		{Day: time.Wednesday, Start: "09:00", End: "10:00"},
		{Day: time.Wednesday, Start: "11:00", End: "12:00"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.WorkSchedule) != 1 || got.WorkSchedule[0].Start != "11:00" {
		t.Fatalf("expected last entry to win, got %+v", got.WorkSchedule)
	}
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in       string
		fallback int
		want     int
	}{
		{"30", 45, 30},
		{" 25 ", 45, 25},
		{"abc", 45, 45},
		{"", 15, 15},
		{"0", 45, 45},
		{"-5", 45, 45},
		{"0", 0, 0},
	}
	for _, c := range cases {
		if got := ParseMinutes(c.in, c.fallback); got != c.want {
			t.Errorf("ParseMinutes(%q, %d) = %d, want %d", c.in, c.fallback, got, c.want)
		}
	}
}

// ============================================================
// Sessions
// ============================================================

func TestAddSessionRejectsNonPositive(t *testing.T) {
	s, _ := newTestStore(t)
	for _, d := range []int{0, -3} {
		got, err := s.AddSession(SubjectBiology, time.Now(), d)
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Fatalf("duration %d should not be stored", d)
		}
	}
	if n := len(s.AllSessions()); n != 0 {
		t.Fatalf("expected empty log, got %d", n)
	}
}

func TestAddSessionUsesTodayDateKey(t *testing.T) {
	s, clk := newTestStore(t)
	started := clk.T.AddDate(0, 0, -3) // started days ago, still attributed to today
	got, err := s.AddSession(SubjectOrganicChem, started, 25)
	if err != nil {
		t.Fatal(err)
	}
	if got.DateKey != "2026-03-10" {
		t.Fatalf("expected today's date key, got %q", got.DateKey)
	}
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Fatalf("id %q is not a uuid: %v", got.ID, err)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatal("startedAt not kept")
	}
	all := s.AllSessions()
	if len(all) != 1 || all[0].Subject != SubjectOrganicChem {
		t.Fatalf("unexpected log: %+v", all)
	}
}

func TestAllSessionsStorageOrder(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddSession(SubjectBiology, time.Now(), 10)
	s.AddSession(SubjectGeneralChem, time.Now(), 20)
	s.AddSession(SubjectBiology, time.Now(), 30)
	all := s.AllSessions()
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	for i, want := range []int{10, 20, 30} {
		if all[i].DurationMinutes != want {
			t.Fatalf("session %d = %d minutes, want %d", i, all[i].DurationMinutes, want)
		}
	}
}

func TestSessionsForDateAndTotal(t *testing.T) {
	s, clk := newTestStore(t)
	s.AddSession(SubjectBiology, clk.T, 15)
	s.AddSession(SubjectBiology, clk.T, 20)
	clk.Advance(24 * time.Hour)
	s.AddSession(SubjectGeneralChem, clk.T, 40)

	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	if got := len(s.SessionsForDate(day1)); got != 2 {
		t.Fatalf("expected 2 sessions on day 1, got %d", got)
	}
	if got := s.TotalMinutesForDate(day1); got != 35 {
		t.Fatalf("expected 35 minutes, got %d", got)
	}
	if got := s.TodayTotal(); got != 40 {
		t.Fatalf("expected 40 minutes today, got %d", got)
	}
	if got := s.TotalMinutesForDate(day1.AddDate(0, 0, -1)); got != 0 {
		t.Fatalf("expected 0 minutes on empty day, got %d", got)
	}
}

func TestSessionsMalformedIsEmptyLog(t *testing.T) {
	s, _ := newTestStore(t)
	s.putRaw(keySessions, `not json`)
	if n := len(s.AllSessions()); n != 0 {
		t.Fatalf("expected empty log, got %d", n)
	}
	// Appending over a malformed log starts a fresh one.
	if _, err := s.AddSession(SubjectBiology, time.Now(), 5); err != nil {
		t.Fatal(err)
	}
	if n := len(s.AllSessions()); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}
}

func TestGetDailySummary(t *testing.T) {
	s, clk := newTestStore(t)
	s.AddSession(SubjectBiology, clk.T, 15)
	s.AddSession(SubjectGeneralChem, clk.T, 10)
	s.AddSession(SubjectBiology, clk.T, 5)
	clk.Advance(24 * time.Hour)
	s.AddSession(SubjectBiology, clk.T, 30)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	summaries := s.GetDailySummary(from, from.AddDate(0, 0, 1))
	if len(summaries) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(summaries), summaries)
	}
	if summaries[0].Subject != SubjectGeneralChem || summaries[0].TotalMinutes != 10 {
		t.Fatalf("unexpected first row: %+v", summaries[0])
	}
	if summaries[1].Subject != SubjectBiology || summaries[1].TotalMinutes != 20 || summaries[1].SessionCount != 2 {
		t.Fatalf("unexpected second row: %+v", summaries[1])
	}

	all := s.GetDailySummary(from, from.AddDate(0, 0, 7))
	if len(all) != 3 {
		t.Fatalf("expected 3 rows over the week, got %d", len(all))
	}
}

func TestLastSession(t *testing.T) {
	s, _ := newTestStore(t)
	if _, ok := s.LastSession(); ok {
		t.Fatal("expected no last session")
	}
	s.AddSession(SubjectBiology, time.Now(), 5)
	s.AddSession(SubjectOrganicChem, time.Now(), 7)
	last, ok := s.LastSession()
	if !ok || last.Subject != SubjectOrganicChem {
		t.Fatalf("unexpected last session: %+v", last)
	}
}

// ============================================================
// Subjects
// ============================================================

func TestSubjectRoundTrip(t *testing.T) {
	for _, sub := range Subjects {
		text, err := sub.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Subject
		if err := back.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if back != sub {
			t.Fatalf("round trip %v -> %v", sub, back)
		}
	}
}

func TestSubjectInvalid(t *testing.T) {
	if SubjectNone.Valid() {
		t.Fatal("none should not be valid")
	}
	if _, err := SubjectNone.MarshalText(); err == nil {
		t.Fatal("expected error marshalling none")
	}
	if _, err := ParseSubject("Astrology"); err == nil {
		t.Fatal("expected error for unknown subject")
	}
}

// ============================================================
// Onboarding
// ============================================================

func TestOnboardingFlag(t *testing.T) {
	s, _ := newTestStore(t)
	if s.OnboardingSeen() {
		t.Fatal("fresh store should not have seen onboarding")
	}
	if err := s.MarkOnboardingSeen(); err != nil {
		t.Fatal(err)
	}
	if !s.OnboardingSeen() {
		t.Fatal("onboarding flag not persisted")
	}
}
