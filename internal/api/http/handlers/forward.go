package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/observability"
	"github.com/edge-fabric/api-gateway/internal/proxy"
)

// forwardHeaders builds the propagation headers for a backend call. A nil
// identity produces an unscoped call carrying only the correlation id.
func forwardHeaders(c *fiber.Ctx, identity *domain.Identity) map[string]string {
	headers := map[string]string{
		observability.HeaderRequestID: observability.RequestIDFromContext(c),
	}
	if identity != nil {
		headers[proxy.HeaderUserID] = identity.SubjectID
	}
	return headers
}

// relayJSON writes a backend payload through unchanged.
func relayJSON(c *fiber.Ctx, status int, payload json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(payload)
}

// publishEvent emits a security event, tolerating a nil dispatcher.
func publishEvent(c *fiber.Ctx, dispatcher events.Dispatcher, eventType events.EventType, subjectID, reason string) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(c.UserContext(), events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Method:    c.Method(),
		Path:      c.Path(),
		Reason:    reason,
		Timestamp: time.Now(),
	})
}
