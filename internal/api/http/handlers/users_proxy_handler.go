package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	gwauth "github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/proxy"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// UsersProxyHandler forwards user routes to the users service, applying the
// role-escalation and admin-target guards before any mutation leaves the
// gateway.
type UsersProxyHandler struct {
	users      *proxy.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUsersProxyHandler constructs handler.
func NewUsersProxyHandler(users *proxy.Client, dispatcher events.Dispatcher, logger *zap.Logger) *UsersProxyHandler {
	return &UsersProxyHandler{users: users, dispatcher: dispatcher, logger: logger}
}

// List handles GET /api/users for any authenticated caller.
func (h *UsersProxyHandler) List(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodGet, "/users", nil, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// ListAll handles the admin-only GET /api/admin/users, forwarded unscoped.
func (h *UsersProxyHandler) ListAll(c *fiber.Ctx) error {
	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodGet, "/users", nil, forwardHeaders(c, nil))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Get handles GET /api/users/:id.
func (h *UsersProxyHandler) Get(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodGet, "/users/"+c.Params("id"), nil, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Create handles POST /api/users. The body is forwarded as-is once the
// role-escalation guard passes.
func (h *UsersProxyHandler) Create(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	requestedRole, _ := body["role"].(string)
	if err := gwauth.GuardRoleAssignment(*identity, requestedRole); err != nil {
		publishEvent(c, h.dispatcher, events.EventAccessDenied, identity.SubjectID, apperrors.ToDomainError(err).Message)
		return err
	}

	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodPost, "/users", body, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Update handles PUT /api/users/:id. Non-admin callers go through the
// two-step admin-target check: the target is fetched first and the mutation
// is only forwarded when the guard allows it.
func (h *UsersProxyHandler) Update(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	targetID := c.Params("id")

	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	requestedRole, _ := body["role"].(string)
	if err := gwauth.GuardRoleAssignment(*identity, requestedRole); err != nil {
		publishEvent(c, h.dispatcher, events.EventAccessDenied, identity.SubjectID, apperrors.ToDomainError(err).Message)
		return err
	}

	if !identity.IsAdmin() && !identity.Owns(targetID) {
		targetRole, err := h.fetchTargetRole(c, targetID)
		if err != nil {
			return err
		}
		if err := gwauth.GuardUpdateTarget(*identity, targetID, targetRole); err != nil {
			publishEvent(c, h.dispatcher, events.EventAccessDenied, identity.SubjectID, apperrors.ToDomainError(err).Message)
			return err
		}
	}

	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodPut, "/users/"+targetID, body, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Delete handles DELETE /api/users/:id. A non-admin may only delete itself.
func (h *UsersProxyHandler) Delete(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	targetID := c.Params("id")

	if err := gwauth.GuardDeleteSelf(*identity, targetID); err != nil {
		publishEvent(c, h.dispatcher, events.EventAccessDenied, identity.SubjectID, apperrors.ToDomainError(err).Message)
		return err
	}

	if !identity.IsAdmin() {
		targetRole, err := h.fetchTargetRole(c, targetID)
		if err != nil {
			return err
		}
		if err := gwauth.GuardDeleteTarget(*identity, targetID, targetRole); err != nil {
			publishEvent(c, h.dispatcher, events.EventAccessDenied, identity.SubjectID, apperrors.ToDomainError(err).Message)
			return err
		}
	}

	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodDelete, "/users/"+targetID, nil, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// fetchTargetRole reads the target user before a mutation. A missing target
// falls through as the plain user role so the forwarded mutation surfaces
// the backend's 404; any other failure aborts the request.
func (h *UsersProxyHandler) fetchTargetRole(c *fiber.Ctx, targetID string) (domain.Role, error) {
	payload, status, err := h.users.Do(c.UserContext(), fiber.MethodGet, "/users/"+targetID, nil, forwardHeaders(c, nil))
	if err != nil {
		if status == fiber.StatusNotFound {
			return domain.RoleUser, nil
		}
		return "", err
	}

	var target struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(payload, &target); err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return domain.Role(target.Role), nil
}
