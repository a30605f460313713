// Package export writes the study session log to CSV or JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/studytrack/internal/store"
)

var csvHeader = []string{"ID", "Subject", "Date", "Started", "Minutes", "Duration"}

func ToCSV(sessions []store.StudySession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, sessions)
}

// WriteCSV writes a header row followed by one row per session.
func WriteCSV(out io.Writer, sessions []store.StudySession) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sessions {
		row := []string{
			s.ID,
			subjectName(s.Subject),
			s.DateKey,
			s.StartedAt.Local().Format(time.RFC3339),
			strconv.Itoa(s.DurationMinutes),
			formatMinutes(s.DurationMinutes),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func subjectName(s store.Subject) string {
	if !s.Valid() {
		return "Unknown"
	}
	return s.String()
}

// formatMinutes renders minutes as H:MM.
func formatMinutes(mins int) string {
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}
