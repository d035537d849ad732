package domain

import "time"

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// ProductItem is a single line item within an order.
type ProductItem struct {
	ID       int     `json:"id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is the record owned by the orders service.
type Order struct {
	ID          int           `json:"id"`
	UserID      int           `json:"user_id"`
	Products    []ProductItem `json:"products"`
	TotalAmount float64       `json:"total_amount"`
	Status      OrderStatus   `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
