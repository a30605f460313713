package reminder

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notifyService = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
)

// DBusNotifier shows reminders through the desktop notification daemon on
// the user's session bus.
type DBusNotifier struct {
	AppName string

	mu   sync.Mutex
	conn *dbus.Conn
}

func NewDBusNotifier(appName string) *DBusNotifier {
	return &DBusNotifier{AppName: appName}
}

func (n *DBusNotifier) connect() (*dbus.Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn != nil && n.conn.Connected() {
		return n.conn, nil
	}

	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send hello: %w", err)
	}
	n.conn = conn
	return conn, nil
}

// RequestPermission is granted when a notification daemon answers on the
// session bus.
func (n *DBusNotifier) RequestPermission(ctx context.Context) Permission {
	conn, err := n.connect()
	if err != nil {
		return PermissionDenied
	}
	call := conn.Object(notifyService, notifyPath).
		CallWithContext(ctx, notifyService+".GetServerInformation", 0)
	if call.Err != nil {
		return PermissionDenied
	}
	return PermissionGranted
}

func (n *DBusNotifier) Show(title, body string) error {
	conn, err := n.connect()
	if err != nil {
		return err
	}
	call := conn.Object(notifyService, notifyPath).Call(notifyService+".Notify", 0,
		n.AppName,          // app_name
		uint32(0),          // replaces_id
		"appointment-soon", // app_icon
		title,              // summary
		body,               // body
		[]string{},         // actions
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		int32(10000), // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("failed to send notification: %w", call.Err)
	}
	return nil
}

func (n *DBusNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}
