package notify

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"upkeep/internal/config"
	"upkeep/internal/logging"
)

// Urgency levels as defined by org.freedesktop.Notifications.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification payload.
type Notification struct {
	Summary string
	Body    string
	Icon    string
	Urgency Urgency
	// ActionLabel attaches a default action with the given label. Empty
	// sends a plain notification with no action.
	ActionLabel string
}

// Response reports what happened to a delivered notification.
type Response struct {
	// ActionInvoked is true when the user clicked the default action
	// within the wait window.
	ActionInvoked bool
}

// Service delivers desktop notifications.
type Service interface {
	Notify(ctx context.Context, n Notification) (Response, error)
	// Transport names the delivery mechanism: dbus, notify-send, or noop.
	Transport() string
}

// NewService builds the best available notification service for the
// configuration: the session bus when reachable, notify-send as a fallback,
// and a noop otherwise. Construction never fails; degradation is logged.
func NewService(ctx context.Context, cfg *config.Config, logger *slog.Logger) Service {
	log := logging.NewComponentLogger(logger, "notify")
	if cfg == nil || !cfg.Notify.Enabled {
		return noopService{}
	}

	wait := time.Duration(cfg.Notify.ActionWaitSeconds) * time.Second
	if !cfg.Notify.Actions {
		wait = 0
	}
	expire := time.Duration(cfg.Notify.TimeoutSeconds) * time.Second

	svc, err := NewDBus(ctx, cfg.Notify.AppName, wait, expire)
	if err == nil {
		return svc
	}
	log.Warn("session bus unavailable", slog.String("error", err.Error()))

	if cfg.Notify.FallbackNotifySend {
		if _, lookErr := exec.LookPath("notify-send"); lookErr == nil {
			return NewNotifySend(cfg.Notify.AppName, expire)
		}
		log.Warn("notify-send not found; notifications disabled for this run")
	}
	return noopService{}
}

// NewNoop returns a service that drops every notification.
func NewNoop() Service { return noopService{} }

type noopService struct{}

func (noopService) Notify(context.Context, Notification) (Response, error) {
	return Response{}, nil
}

func (noopService) Transport() string { return "noop" }
