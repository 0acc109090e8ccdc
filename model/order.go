package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// cancelled is terminal and reachable from every other state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == OrderStatusCancelled {
		return false
	}
	switch next {
	case OrderStatusCancelled:
		return true
	case OrderStatusShipped:
		return s == OrderStatusPending
	case OrderStatusDelivered:
		return s == OrderStatusShipped
	}
	return false
}

// Order is the record appended by a successful checkout. Items and Total
// are snapshots taken at placement time; later catalog edits do not touch
// an existing order.
type Order struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"user_id"`
	UserEmail       string         `json:"user_email"`
	ShippingAddress string         `json:"shipping_address"`
	Items           map[string]int `json:"items"`
	Total           float64        `json:"total_price"`
	Status          OrderStatus    `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
