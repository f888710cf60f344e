package usecase

import (
	"context"
	"log/slog"

	"github.com/papermart/papermart/internal/domain/model"
)

// Notifier dispatches a notification to a recipient. Implementations are
// best-effort; use cases log failures and never let them affect an already
// committed transition.
type Notifier interface {
	Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]string) error
}

func notifyBestEffort(ctx context.Context, n Notifier, logger *slog.Logger, kind model.NotificationKind, recipient string, payload map[string]string) {
	if n == nil || recipient == "" {
		return
	}
	if err := n.Notify(ctx, kind, recipient, payload); err != nil {
		logger.Warn("notification dispatch failed",
			slog.String("kind", string(kind)),
			slog.String("recipient", recipient),
			slog.String("error", err.Error()),
		)
	}
}
