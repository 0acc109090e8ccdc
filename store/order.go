package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

// AppendOrder validates the draft, persists the order header and its items
// in one transaction, and returns the assigned id. The draft's ID and
// CreatedAt are filled in on success. Orders are append-only; nothing here
// ever rewrites an existing record.
func (s *PostgresStore) AppendOrder(draft *models.Order) (int64, error) {
	if err := s.validateDraft(draft); err != nil {
		return 0, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var orderID int64
	var createdAt time.Time
	if err := tx.QueryRow(
		`INSERT INTO orders (user_id, user_email, shipping_address, total, status) VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
		draft.UserID, draft.UserEmail, draft.ShippingAddress, draft.Total, string(models.OrderStatusPending),
	).Scan(&orderID, &createdAt); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1,$2,$3)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, pid := range sortedItemIDs(draft.Items) {
		if _, err := stmt.Exec(orderID, pid, draft.Items[pid]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	draft.ID = orderID
	draft.Status = models.OrderStatusPending
	draft.CreatedAt = createdAt
	return orderID, nil
}

func (s *PostgresStore) validateDraft(draft *models.Order) error {
	if len(draft.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}
	if draft.Total <= 0 {
		return fmt.Errorf("%w: total must be positive", ErrInvalidOrder)
	}
	for _, pid := range sortedItemIDs(draft.Items) {
		if draft.Items[pid] <= 0 {
			return fmt.Errorf("%w: non-positive quantity for product %s", ErrInvalidOrder, pid)
		}
		var exists bool
		if err := s.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, pid).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: unknown product %s", ErrInvalidOrder, pid)
		}
	}
	var exists bool
	if err := s.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, draft.UserID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: unknown user %d", ErrInvalidOrder, draft.UserID)
	}
	return nil
}

func (s *PostgresStore) GetOrder(id int64) (*models.Order, error) {
	var o models.Order
	var status string
	err := s.DB.QueryRow(
		`SELECT id, user_id, user_email, shipping_address, total, status, created_at FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.UserID, &o.UserEmail, &o.ShippingAddress, &o.Total, &status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	o.Status = models.OrderStatus(status)

	o.Items, err = s.orderItems(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresStore) ListOrders(userID int64) ([]models.Order, error) {
	rows, err := s.DB.Query(
		`SELECT id, user_id, user_email, shipping_address, total, status, created_at FROM orders WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Order{}
	for rows.Next() {
		var o models.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.ShippingAddress, &o.Total, &status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(status)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = s.orderItems(out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) UpdateOrderStatus(id int64, status models.OrderStatus) error {
	res, err := s.DB.Exec(`UPDATE orders SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) orderItems(orderID int64) (map[string]int, error) {
	rows, err := s.DB.Query(
		`SELECT product_id, quantity FROM order_items WHERE order_id=$1 ORDER BY product_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := map[string]int{}
	for rows.Next() {
		var pid string
		var qty int
		if err := rows.Scan(&pid, &qty); err != nil {
			return nil, err
		}
		items[pid] = qty
	}
	return items, rows.Err()
}

func sortedItemIDs(items map[string]int) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
