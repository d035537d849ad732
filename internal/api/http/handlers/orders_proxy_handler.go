package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	gwauth "github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/proxy"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// OrdersProxyHandler forwards order routes to the orders service, scoping
// visibility to the caller unless the caller is an admin.
type OrdersProxyHandler struct {
	orders     *proxy.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewOrdersProxyHandler constructs handler.
func NewOrdersProxyHandler(orders *proxy.Client, dispatcher events.Dispatcher, logger *zap.Logger) *OrdersProxyHandler {
	return &OrdersProxyHandler{orders: orders, dispatcher: dispatcher, logger: logger}
}

// List handles GET /api/orders. Admins receive the unfiltered list; everyone
// else gets a scoped call and the gateway re-filters the response by owner
// rather than trusting the backend's filtering.
func (h *OrdersProxyHandler) List(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if identity.IsAdmin() {
		payload, status, err := h.orders.Do(c.UserContext(), fiber.MethodGet, "/orders", nil, forwardHeaders(c, nil))
		if err != nil {
			return err
		}
		return relayJSON(c, status, payload)
	}

	payload, _, err := h.orders.Do(c.UserContext(), fiber.MethodGet, "/orders", nil, forwardHeaders(c, identity))
	if err != nil {
		return err
	}

	callerID, err := strconv.Atoi(identity.SubjectID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	var orders []map[string]any
	if err := json.Unmarshal(payload, &orders); err != nil {
		return apperrors.NewInternalError(err)
	}
	owned := make([]map[string]any, 0, len(orders))
	for _, order := range orders {
		if ownerID, ok := order["user_id"].(float64); ok && int(ownerID) == callerID {
			owned = append(owned, order)
		}
	}
	return c.JSON(owned)
}

// Get handles GET /api/orders/:id, always scoped to the caller.
func (h *OrdersProxyHandler) Get(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	payload, status, err := h.orders.Do(c.UserContext(), fiber.MethodGet, "/orders/"+c.Params("id"), nil, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Create handles POST /api/orders. The order's owner is always the caller:
// any client-supplied user_id is overwritten before forwarding.
func (h *OrdersProxyHandler) Create(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	callerID, err := strconv.Atoi(identity.SubjectID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	body["user_id"] = callerID

	payload, status, err := h.orders.Do(c.UserContext(), fiber.MethodPost, "/orders", body, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Update handles PUT /api/orders/:id; ownership is enforced by the scoped call.
func (h *OrdersProxyHandler) Update(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payload, status, err := h.orders.Do(c.UserContext(), fiber.MethodPut, "/orders/"+c.Params("id"), body, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}

// Delete handles DELETE /api/orders/:id; ownership is enforced by the scoped call.
func (h *OrdersProxyHandler) Delete(c *fiber.Ctx) error {
	identity, ok := gwauth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	payload, status, err := h.orders.Do(c.UserContext(), fiber.MethodDelete, "/orders/"+c.Params("id"), nil, forwardHeaders(c, identity))
	if err != nil {
		return err
	}
	return relayJSON(c, status, payload)
}
