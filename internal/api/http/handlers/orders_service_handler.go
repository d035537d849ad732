package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/edge-fabric/api-gateway/internal/api/dto"
	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/proxy"
	"github.com/edge-fabric/api-gateway/internal/service"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// OrdersServiceHandler exposes the orders backend CRUD surface. The identity
// propagation header scopes visibility: when present, only the named owner's
// orders are visible or mutable.
type OrdersServiceHandler struct {
	svc *service.OrderService
}

// NewOrdersServiceHandler constructs handler.
func NewOrdersServiceHandler(svc *service.OrderService) *OrdersServiceHandler {
	return &OrdersServiceHandler{svc: svc}
}

// List handles GET /api/orders.
func (h *OrdersServiceHandler) List(c *fiber.Ctx) error {
	scope, err := scopeFromHeader(c)
	if err != nil {
		return err
	}
	orders, err := h.svc.List(c.Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// Get handles GET /api/orders/:id.
func (h *OrdersServiceHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "order id")
	if err != nil {
		return err
	}
	scope, err := scopeFromHeader(c)
	if err != nil {
		return err
	}
	order, err := h.svc.Get(c.Context(), id, scope)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// Create handles POST /api/orders.
func (h *OrdersServiceHandler) Create(c *fiber.Ctx) error {
	var req dto.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == 0 {
		return apperrors.NewValidationError("user_id required", nil)
	}
	scope, err := scopeFromHeader(c)
	if err != nil {
		return err
	}

	order, err := h.svc.Create(c.Context(), service.OrderInput{
		UserID:      req.UserID,
		Products:    req.Products,
		TotalAmount: req.TotalAmount,
		Status:      domain.OrderStatus(req.Status),
	}, scope)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Update handles PUT /api/orders/:id.
func (h *OrdersServiceHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "order id")
	if err != nil {
		return err
	}
	var req dto.OrderUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	scope, err := scopeFromHeader(c)
	if err != nil {
		return err
	}

	order, err := h.svc.Update(c.Context(), id, service.OrderInput{
		Products:    req.Products,
		TotalAmount: req.TotalAmount,
		Status:      domain.OrderStatus(req.Status),
	}, scope)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// Delete handles DELETE /api/orders/:id.
func (h *OrdersServiceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "order id")
	if err != nil {
		return err
	}
	scope, err := scopeFromHeader(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id, scope); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "order deleted successfully"})
}

// scopeFromHeader parses the identity propagation header. An absent header
// means an unscoped (trusted) call.
func scopeFromHeader(c *fiber.Ctx) (*int, error) {
	raw := c.Get(proxy.HeaderUserID)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+proxy.HeaderUserID+" header", nil)
	}
	return &id, nil
}
