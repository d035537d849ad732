package dto

import "github.com/edge-fabric/api-gateway/internal/domain"

// OrderCreateRequest payload for new orders at the orders service. The
// gateway forces user_id to the caller's id before forwarding.
type OrderCreateRequest struct {
	UserID      int                  `json:"user_id"`
	Products    []domain.ProductItem `json:"products"`
	TotalAmount float64              `json:"total_amount"`
	Status      string               `json:"status"`
}

// OrderUpdateRequest payload for order updates.
type OrderUpdateRequest struct {
	Products    []domain.ProductItem `json:"products"`
	TotalAmount float64              `json:"total_amount"`
	Status      string               `json:"status"`
}
