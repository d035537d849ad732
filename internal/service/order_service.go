package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/repository"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// OrderService owns order CRUD for the orders backend. A nil scope means the
// call is unscoped (trusted, typically an admin-originated request); a non-nil
// scope restricts visibility to that owner id.
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// OrderInput carries fields accepted when creating or updating an order.
type OrderInput struct {
	UserID      int
	Products    []domain.ProductItem
	TotalAmount float64
	Status      domain.OrderStatus
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

// List returns orders, filtered to the scope owner when scoped.
func (s *OrderService) List(ctx context.Context, scope *int) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return orders, nil
	}
	scoped := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.UserID == *scope {
			scoped = append(scoped, order)
		}
	}
	return scoped, nil
}

// Get returns one order, denying scoped callers that do not own it.
func (s *OrderService) Get(ctx context.Context, id int, scope *int) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}
	if scope != nil && order.UserID != *scope {
		return nil, apperrors.NewForbidden("access denied")
	}
	return order, nil
}

// Create stores a new order, rejecting scoped callers creating for another owner.
func (s *OrderService) Create(ctx context.Context, input OrderInput, scope *int) (*domain.Order, error) {
	if scope != nil && input.UserID != *scope {
		return nil, apperrors.NewForbidden("cannot create order for another user")
	}

	status := input.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	order := &domain.Order{
		UserID:      input.UserID,
		Products:    input.Products,
		TotalAmount: input.TotalAmount,
		Status:      status,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Update rewrites an existing order after the scope check.
func (s *OrderService) Update(ctx context.Context, id int, input OrderInput, scope *int) (*domain.Order, error) {
	order, err := s.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	order.Products = input.Products
	order.TotalAmount = input.TotalAmount
	if input.Status != "" {
		order.Status = input.Status
	}

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}
	return order, nil
}

// Delete removes an order after the scope check.
func (s *OrderService) Delete(ctx context.Context, id int, scope *int) error {
	if _, err := s.Get(ctx, id, scope); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("order")
		}
		return err
	}
	return nil
}
