package reminder

import (
	"context"
	"fmt"
	"io"
)

// Permission is the cached answer to "may we show notifications".
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier is a surface that can show a titled message.
type Notifier interface {
	// RequestPermission asks the surface whether notifications may be
	// shown. Failures are reported as PermissionDenied.
	RequestPermission(ctx context.Context) Permission
	Show(title, body string) error
}

// WriterNotifier prints reminders as lines on W. It is always permitted.
type WriterNotifier struct {
	W io.Writer
}

func (WriterNotifier) RequestPermission(context.Context) Permission {
	return PermissionGranted
}

func (n WriterNotifier) Show(title, body string) error {
	_, err := fmt.Fprintf(n.W, "%s: %s\n", title, body)
	return err
}
