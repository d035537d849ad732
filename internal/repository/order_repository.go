package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/persistence"
)

// OrderRepository defines persistence access for orders.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int) error
}

type ordersDocument struct {
	Orders []domain.Order `json:"orders"`
}

type orderRepository struct {
	store  *persistence.Store
	logger *zap.Logger
}

// NewOrderRepository returns a JSON-file backed implementation. The document
// is seeded with two starter orders on first access.
func NewOrderRepository(store *persistence.Store, logger *zap.Logger) OrderRepository {
	return &orderRepository{store: store, logger: logger}
}

func (r *orderRepository) load() (*ordersDocument, error) {
	var doc ordersDocument
	if err := r.store.Load(&doc, seedOrders); err != nil {
		return nil, err
	}
	return &doc, nil
}

func seedOrders() any {
	now := time.Now()
	return ordersDocument{Orders: []domain.Order{
		{
			ID:     1,
			UserID: 1,
			Products: []domain.ProductItem{
				{ID: 1, Name: "Product 1", Price: 10.99, Quantity: 2},
			},
			TotalAmount: 21.98,
			Status:      domain.OrderStatusCompleted,
			CreatedAt:   now,
		},
		{
			ID:     2,
			UserID: 2,
			Products: []domain.ProductItem{
				{ID: 2, Name: "Product 2", Price: 15.99, Quantity: 1},
			},
			TotalAmount: 15.99,
			Status:      domain.OrderStatusPending,
			CreatedAt:   now,
		},
	}}
}

func (r *orderRepository) List(_ context.Context) ([]domain.Order, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Orders, nil
}

func (r *orderRepository) GetByID(_ context.Context, id int) (*domain.Order, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Orders {
		if doc.Orders[i].ID == id {
			order := doc.Orders[i]
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

func (r *orderRepository) Create(_ context.Context, order *domain.Order) error {
	doc, err := r.load()
	if err != nil {
		return err
	}
	order.ID = nextOrderID(doc.Orders)
	order.CreatedAt = time.Now()
	doc.Orders = append(doc.Orders, *order)
	return r.store.Save(doc)
}

func (r *orderRepository) Update(_ context.Context, order *domain.Order) error {
	doc, err := r.load()
	if err != nil {
		return err
	}
	for i := range doc.Orders {
		if doc.Orders[i].ID == order.ID {
			doc.Orders[i] = *order
			return r.store.Save(doc)
		}
	}
	return ErrNotFound
}

func (r *orderRepository) Delete(_ context.Context, id int) error {
	doc, err := r.load()
	if err != nil {
		return err
	}
	for i := range doc.Orders {
		if doc.Orders[i].ID == id {
			doc.Orders = append(doc.Orders[:i], doc.Orders[i+1:]...)
			return r.store.Save(doc)
		}
	}
	return ErrNotFound
}

func nextOrderID(orders []domain.Order) int {
	next := 1
	for _, o := range orders {
		if o.ID >= next {
			next = o.ID + 1
		}
	}
	return next
}
