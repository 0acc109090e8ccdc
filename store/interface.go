package store

import (
	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

// Narrow per-concern contracts consumed by the checkout core. All four are
// implemented by *PostgresStore; tests substitute fakes per interface.

type CatalogStore interface {
	CreateProduct(p *models.Product) error
	UpdateProduct(p *models.Product) error
	DeleteProduct(id string) error
	GetProduct(id string) (*models.Product, error)
	ListProducts() ([]models.Product, error)

	// AdjustStock atomically applies delta to a product's stock and returns
	// the new quantity. It fails with ErrInsufficientStock rather than
	// committing a negative quantity.
	AdjustStock(id string, delta int) (int, error)
}

type CartStore interface {
	ListLines(userID int64) ([]models.CartLine, error)
	UpsertLine(userID int64, productID string, qty int) error
	DeleteLine(userID int64, productID string) error
}

type UserStore interface {
	CreateUser(u *models.User) (int64, error)
	GetUser(id int64) (*models.User, error)
}

type OrderStore interface {
	// AppendOrder validates the draft and persists it, returning the
	// assigned order id. Validation failures wrap ErrInvalidOrder.
	AppendOrder(draft *models.Order) (int64, error)
	GetOrder(id int64) (*models.Order, error)
	ListOrders(userID int64) ([]models.Order, error)
	UpdateOrderStatus(id int64, status models.OrderStatus) error
}
