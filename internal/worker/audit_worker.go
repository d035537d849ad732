package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/edge-fabric/api-gateway/internal/events"
)

// StartAuditWorker subscribes a structured audit log to security events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		audit.Info(string(event.Type),
			zap.String("event_id", event.ID),
			zap.String("subject_id", event.SubjectID),
			zap.String("method", event.Method),
			zap.String("path", event.Path),
			zap.String("reason", event.Reason),
			zap.Time("timestamp", event.Timestamp),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventAccessDenied,
		events.EventUpstreamError,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
