// Package calendar declares the hook for importing work blocks from an
// external calendar. No provider is wired up yet.
package calendar

import (
	"context"
	"time"
)

// Event is one calendar entry that could become a quiet-hours block.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// Provider lists calendar events for an access token.
type Provider interface {
	FetchEvents(ctx context.Context, accessToken string) ([]Event, error)
}

// Stub is the provider used until OAuth is set up; it never returns events.
type Stub struct{}

// TODO: call the Google Calendar API (calendar.events.readonly) once an OAuth client ID is configured.
func (Stub) FetchEvents(context.Context, string) ([]Event, error) {
	return nil, nil
}
