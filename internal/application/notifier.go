package application

import (
	"context"
	"log/slog"
)

// Notifier surfaces user-facing notifications (toasts in the UI).
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}

// LogNotifier writes notifications to the structured log; the websocket
// stream carries the state itself, so this is the default sink.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, message string) error {
	n.Logger.Info("notification", "message", message)
	return nil
}
