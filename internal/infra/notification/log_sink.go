package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSink writes notifications to the structured log. Delivery is best
// effort; coordinators call it after their transaction commits and ignore
// failures.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Notify(ctx context.Context, userID uuid.UUID, event string, payload map[string]any) error {
	slog.InfoContext(ctx, "notification", "user_id", userID, "event", event, "payload", payload)
	return nil
}
