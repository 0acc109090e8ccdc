package service

import (
	"errors"
	"strings"

	"github.com/Furniture-Final-Project/Furniture-sub000/logging"
	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
	"github.com/Furniture-Final-Project/Furniture-sub000/store"
)

func (s *Service) GetOrder(id int64) (*models.Order, error) {
	return s.orders.GetOrder(id)
}

func (s *Service) ListOrders(userID int64) ([]models.Order, error) {
	return s.orders.ListOrders(userID)
}

// UpdateOrderStatus moves an order through the admin state machine:
// pending -> shipped -> delivered, with cancelled reachable from any
// non-terminal state. Cancelling restores the inventory the order held.
func (s *Service) UpdateOrderStatus(id int64, next models.OrderStatus) error {
	if !next.Valid() {
		return &InvalidTransitionError{From: "?", To: string(next)}
	}
	order, err := s.orders.GetOrder(id)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: string(order.Status), To: string(next)}
	}

	if next == models.OrderStatusCancelled {
		ids := sortedIDs(order.Items)
		unlock := s.lockProducts(ids)
		defer unlock()
		for _, pid := range ids {
			if _, err := s.catalog.AdjustStock(pid, order.Items[pid]); err != nil {
				// A product deleted since placement cannot take its stock
				// back; the cancellation still proceeds.
				logging.Log(logging.Fields{
					Component: "orders", OrderID: id, ProductID: pid,
					Step: "restore_stock", Status: "error", Message: err.Error(),
				})
			}
		}
	}

	return s.orders.UpdateOrderStatus(id, next)
}

// RegisterUser creates a user account with the default role.
func (s *Service) RegisterUser(name, email, address string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, errors.New("name required")
	}
	if !strings.Contains(email, "@") {
		return 0, errors.New("valid email required")
	}
	return s.users.CreateUser(&models.User{
		Name:    name,
		Email:   email,
		Address: address,
		Role:    models.RoleUser,
	})
}

func (s *Service) GetUser(id int64) (*models.User, error) {
	u, err := s.users.GetUser(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserMissing
	}
	return u, err
}
