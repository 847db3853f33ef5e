// Package notify delivers desktop notifications via pluggable transports.
//
// The default implementation speaks to org.freedesktop.Notifications on the
// session bus, carrying urgency hints and an optional invokable action whose
// response the caller can wait on. When the bus is unreachable it degrades to
// notify-send, and finally to a no-op, so a headless or stripped-down session
// never breaks the run.
//
// All workflow code depends only on the Service interface.
package notify
