package store

import (
	"errors"

	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

func (s *PostgresStore) ListLines(userID int64) ([]models.CartLine, error) {
	rows, err := s.DB.Query(
		`SELECT user_id, product_id, quantity FROM cart_items WHERE user_id=$1 ORDER BY product_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.UserID, &l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpsertLine adds qty to an existing line or creates one. The upsert is a
// single statement so concurrent adds to the same line cannot race.
func (s *PostgresStore) UpsertLine(userID int64, productID string, qty int) error {
	if qty <= 0 {
		return errors.New("quantity must be > 0")
	}
	_, err := s.DB.Exec(`
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, userID, productID, qty)
	return err
}

func (s *PostgresStore) DeleteLine(userID int64, productID string) error {
	res, err := s.DB.Exec(
		`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
