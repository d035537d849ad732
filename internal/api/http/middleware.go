package http

import (
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/observability"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and
// logging. A nil dispatcher disables security event publication, which is how
// the backend services run.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) {
	app.Use(observability.RequestID())
	app.Use(errorHandlingMiddleware(logger, metrics, dispatcher))
	app.Use(observability.RequestLogger(logger, metrics))
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.Code == apperrors.CodeUpstreamError {
					publishUpstreamError(c, dispatcher, domainErr.Message)
				}
				// detail duplicates the message for clients that
				// only read the flat field.
				response := fiber.Map{
					"detail": domainErr.Message,
					"error": fiber.Map{
						"code":    domainErr.Code,
						"message": domainErr.Message,
					},
				}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus == fiber.StatusUnauthorized {
					c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

func publishUpstreamError(c *fiber.Ctx, dispatcher events.Dispatcher, reason string) {
	if dispatcher == nil {
		return
	}
	subjectID := ""
	if identity, ok := auth.IdentityFromContext(c); ok {
		subjectID = identity.SubjectID
	}
	_ = dispatcher.Publish(c.UserContext(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUpstreamError,
		SubjectID: subjectID,
		Method:    c.Method(),
		Path:      c.Path(),
		Reason:    reason,
		Timestamp: time.Now(),
	})
}
