package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busName          = "org.freedesktop.Notifications"
	objectPath       = "/org/freedesktop/Notifications"
	notifyMethod     = busName + ".Notify"
	actionInvokedSig = busName + ".ActionInvoked"
	closedSig        = busName + ".NotificationClosed"

	// How long to wait for the notification daemon to claim its bus name.
	// Matters at login, where upkeep can start before the shell does.
	serviceWait = 10 * time.Second
)

// DBusService talks to the desktop notification daemon on the session bus.
type DBusService struct {
	conn       *dbus.Conn
	appName    string
	actionWait time.Duration
	expire     time.Duration
}

// NewDBus connects to the session bus and waits for the notification daemon
// to be available. actionWait bounds how long Notify blocks for a user
// response; zero disables waiting even when an action is attached. expire
// is how long the notification stays on screen; zero defers to the daemon
// default.
func NewDBus(ctx context.Context, appName string, actionWait, expire time.Duration) (*DBusService, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	if err := waitForOwner(ctx, conn); err != nil {
		return nil, err
	}
	return &DBusService{conn: conn, appName: appName, actionWait: actionWait, expire: expire}, nil
}

func waitForOwner(ctx context.Context, conn *dbus.Conn) error {
	deadline := time.Now().Add(serviceWait)
	for {
		var owned bool
		if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, busName).Store(&owned); err != nil {
			return fmt.Errorf("query notification service: %w", err)
		}
		if owned {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("notification service did not appear on the session bus")
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *DBusService) Transport() string { return "dbus" }

// Notify sends the notification and, when an action is attached, waits up to
// the configured window for the user to invoke it.
func (s *DBusService) Notify(ctx context.Context, n Notification) (Response, error) {
	var actions []string
	if n.ActionLabel != "" {
		actions = []string{"default", n.ActionLabel}
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}

	obj := s.conn.Object(busName, objectPath)
	var id uint32
	// Argument order follows the org.freedesktop.Notifications Notify
	// signature: app_name, replaces_id, app_icon, summary, body, actions,
	// hints, expire_timeout.
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		s.appName, uint32(0), n.Icon, n.Summary, n.Body, actions, hints, expireMillis(s.expire))
	if err := call.Store(&id); err != nil {
		return Response{}, fmt.Errorf("send notification: %w", err)
	}

	if n.ActionLabel == "" || s.actionWait <= 0 {
		return Response{}, nil
	}
	return s.waitForResponse(ctx, id)
}

// expireMillis converts the configured on-screen duration to the Notify
// expire_timeout argument. Zero means the daemon decides.
func expireMillis(expire time.Duration) int32 {
	if expire <= 0 {
		return -1
	}
	return int32(expire / time.Millisecond)
}

func (s *DBusService) waitForResponse(ctx context.Context, id uint32) (Response, error) {
	matchOpts := []dbus.MatchOption{
		dbus.WithMatchInterface(busName),
		dbus.WithMatchObjectPath(objectPath),
	}
	if err := s.conn.AddMatchSignalContext(ctx, matchOpts...); err != nil {
		return Response{}, fmt.Errorf("subscribe to notification signals: %w", err)
	}
	defer s.conn.RemoveMatchSignal(matchOpts...) //nolint:errcheck

	signals := make(chan *dbus.Signal, 16)
	s.conn.Signal(signals)
	defer s.conn.RemoveSignal(signals)

	timer := time.NewTimer(s.actionWait)
	defer timer.Stop()

	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				return Response{}, errors.New("session bus connection lost")
			}
			switch sig.Name {
			case actionInvokedSig:
				if len(sig.Body) != 2 {
					continue
				}
				sigID, idOK := sig.Body[0].(uint32)
				key, keyOK := sig.Body[1].(string)
				if idOK && keyOK && sigID == id {
					return Response{ActionInvoked: key == "default"}, nil
				}
			case closedSig:
				if len(sig.Body) >= 1 {
					if sigID, ok := sig.Body[0].(uint32); ok && sigID == id {
						return Response{}, nil
					}
				}
			}
		case <-timer.C:
			return Response{}, nil
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
}
