package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/studytrack/internal/store"
)

type jsonExport struct {
	ExportedAt   string      `json:"exported_at"`
	Count        int         `json:"count"`
	TotalMinutes int         `json:"total_minutes"`
	Sessions     []jsonEntry `json:"sessions"`
}

type jsonEntry struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	Date            string `json:"date"`
	StartedAt       string `json:"started_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
}

func ToJSON(sessions []store.StudySession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, sessions)
}

// WriteJSON writes sessions as one indented JSON document.
func WriteJSON(out io.Writer, sessions []store.StudySession) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		export.TotalMinutes += s.DurationMinutes
		export.Sessions = append(export.Sessions, jsonEntry{
			ID:              s.ID,
			Subject:         subjectName(s.Subject),
			Date:            s.DateKey,
			StartedAt:       s.StartedAt.Local().Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
			Duration:        formatMinutes(s.DurationMinutes),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
