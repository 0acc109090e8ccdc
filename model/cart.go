package models

// CartLine is a single (user, product, quantity) row in a user's cart.
// The (UserID, ProductID) pair is the primary key; Quantity is always > 0.
type CartLine struct {
	UserID    int64  `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
