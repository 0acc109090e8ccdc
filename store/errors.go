package store

import "errors"

var (
	// ErrNotFound is returned when a product, user or order lookup misses.
	ErrNotFound = errors.New("resource not found")

	// ErrInsufficientStock is returned when an adjustment would take a
	// product's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidOrder wraps order-store validation failures on append.
	ErrInvalidOrder = errors.New("invalid order")
)
