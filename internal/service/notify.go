package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/events"
)

// notifier publishes domain events on a best-effort basis. A failed publish
// is logged and never fails the operation that triggered it.
type notifier struct {
	pub    events.Publisher
	logger *slog.Logger
}

func newNotifier(pub events.Publisher, logger *slog.Logger) notifier {
	if pub == nil {
		pub = events.Nop{}
	}
	return notifier{pub: pub, logger: logger}
}

func (n notifier) emit(ctx context.Context, action, entity, id string, at time.Time) {
	evt := events.Event{Action: action, Entity: entity, ID: id, OccurredAt: at.UTC()}
	if err := n.pub.Publish(ctx, evt); err != nil {
		n.logger.Warn("publish event failed", "entity", entity, "action", action, "id", id, "error", err)
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
