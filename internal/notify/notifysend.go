package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"upkeep/internal/services"
)

// notifySendService shells out to notify-send. Used when the session bus is
// unreachable directly; actions are not supported on this path.
type notifySendService struct {
	appName string
	expire  time.Duration
	exec    services.Executor
}

// NewNotifySend builds the notify-send fallback service. expire is how long
// the notification stays on screen; zero defers to the daemon default.
func NewNotifySend(appName string, expire time.Duration) Service {
	return &notifySendService{appName: appName, expire: expire, exec: services.NewExecutor()}
}

// newNotifySendWithExecutor is the test seam.
func newNotifySendWithExecutor(appName string, expire time.Duration, exec services.Executor) Service {
	return &notifySendService{appName: appName, expire: expire, exec: exec}
}

func (s *notifySendService) Transport() string { return "notify-send" }

func (s *notifySendService) Notify(ctx context.Context, n Notification) (Response, error) {
	args := []string{"--app-name", s.appName, "--urgency", urgencyName(n.Urgency)}
	if s.expire > 0 {
		args = append(args, "--expire-time", strconv.FormatInt(s.expire.Milliseconds(), 10))
	}
	if n.Icon != "" {
		args = append(args, "--icon", n.Icon)
	}
	args = append(args, n.Summary, n.Body)

	if _, err := s.exec.Output(ctx, "notify-send", args...); err != nil {
		return Response{}, fmt.Errorf("notify-send: %w", err)
	}
	return Response{}, nil
}

func urgencyName(u Urgency) string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}
