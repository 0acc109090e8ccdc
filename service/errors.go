package service

import (
	"errors"
	"fmt"
)

// Checkout failures form a closed set. The orchestrator returns exactly one
// of these per attempt; mapping to HTTP status codes happens only in the
// handler package.
var (
	ErrInvalidAddress       = errors.New("shipping address is too short")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrUserMissing          = errors.New("user not found")
	ErrPaymentDeclined      = errors.New("payment was declined")
)

// ProductMissingError reports a cart line whose product no longer exists.
type ProductMissingError struct {
	ProductID string
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// OutOfStockError reports a cart line whose quantity exceeds available stock.
type OutOfStockError struct {
	ProductID string
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s is out of stock (available %d)", e.ProductID, e.Available)
}

// OrderCreationError carries the order store's validation message.
type OrderCreationError struct {
	Detail string
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %s", e.Detail)
}

// InventoryAdjustError reports a stock underflow discovered after the order
// was already appended; the order has been cancelled and prior adjustments
// reversed by the time the caller sees this.
type InventoryAdjustError struct {
	ProductID string
}

func (e *InventoryAdjustError) Error() string {
	return fmt.Sprintf("inventory adjustment failed for product %s", e.ProductID)
}

// InvalidTransitionError reports a disallowed order-status transition.
type InvalidTransitionError struct {
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
