package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// getRaw returns the stored value for key. A missing key is not an error.
func (s *Store) getRaw(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) putRaw(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// OnboardingSeen reports whether first-run onboarding was completed.
func (s *Store) OnboardingSeen() bool {
	v, ok, err := s.getRaw(keyOnboarding)
	return err == nil && ok && v == "true"
}

// MarkOnboardingSeen records that the user finished onboarding.
func (s *Store) MarkOnboardingSeen() error {
	return s.putRaw(keyOnboarding, "true")
}
