package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/studytrack/internal/store"
)

func sampleSessions() []store.StudySession {
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local)
	return []store.StudySession{
		{
			ID:              "a1",
			Subject:         store.SubjectBiology,
			StartedAt:       start,
			DurationMinutes: 60,
			DateKey:         "2026-03-09",
		},
		{
			ID:              "b2",
			Subject:         store.SubjectOrganicChem,
			StartedAt:       start.Add(2 * time.Hour),
			DurationMinutes: 25,
			DateKey:         "2026-03-09",
		},
		{
			ID:              "c3",
			Subject:         store.SubjectQuantitativeReasoning,
			StartedAt:       start.AddDate(0, 0, 1),
			DurationMinutes: 135,
			DateKey:         "2026-03-10",
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(sampleSessions(), path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "a1" {
		t.Fatalf("ID = %q, want a1", row[0])
	}
	if row[1] != "Biology" {
		t.Fatalf("Subject = %q, want Biology", row[1])
	}
	if row[2] != "2026-03-09" {
		t.Fatalf("Date = %q", row[2])
	}
	if row[4] != "60" {
		t.Fatalf("Minutes = %q, want 60", row[4])
	}
	if row[5] != "1:00" {
		t.Fatalf("Duration = %q, want 1:00", row[5])
	}

	if records[3][1] != "Quantitative Reasoning" {
		t.Fatalf("multi-word subject mangled: %q", records[3][1])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestWriteCSVUnknownSubject(t *testing.T) {
	var buf bytes.Buffer
	sessions := []store.StudySession{{ID: "x", Subject: store.SubjectNone, DurationMinutes: 5}}

	if err := WriteCSV(&buf, sessions); err != nil {
		t.Fatal(err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if records[1][1] != "Unknown" {
		t.Fatalf("expected 'Unknown' for missing subject, got %q", records[1][1])
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleSessions(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if result.TotalMinutes != 220 {
		t.Fatalf("total_minutes = %d, want 220", result.TotalMinutes)
	}
	if len(result.Sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(result.Sessions))
	}

	e := result.Sessions[2]
	if e.ID != "c3" {
		t.Fatalf("ID = %q, want c3", e.ID)
	}
	if e.Subject != "Quantitative Reasoning" {
		t.Fatalf("Subject = %q", e.Subject)
	}
	if e.DurationMinutes != 135 || e.Duration != "2:15" {
		t.Fatalf("duration = %d / %q, want 135 / 2:15", e.DurationMinutes, e.Duration)
	}
	if e.Date != "2026-03-10" {
		t.Fatalf("Date = %q", e.Date)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Sessions != nil {
		t.Fatal("sessions should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestWriteJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	WriteJSON(&buf, nil)

	if !strings.Contains(buf.String(), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(buf.String(), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	var buf bytes.Buffer
	WriteJSON(&buf, sampleSessions())

	var result jsonExport
	json.Unmarshal(buf.Bytes(), &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	for _, e := range result.Sessions {
		if _, err := time.Parse(time.RFC3339, e.StartedAt); err != nil {
			t.Fatalf("started_at is not valid RFC3339: %q", e.StartedAt)
		}
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "0:00"},
		{1, "0:01"},
		{59, "0:59"},
		{60, "1:00"},
		{135, "2:15"},
		{600, "10:00"},
	}

	for _, tt := range tests {
		got := formatMinutes(tt.mins)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
