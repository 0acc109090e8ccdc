package service

import (
	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

type ServiceInterface interface {
	Checkout(userID int64, shippingAddress, paymentMethod string) (CheckoutResult, error)

	AddToCart(userID int64, productID string, qty int) error
	RemoveFromCart(userID int64, productID string) error
	GetCart(userID int64) ([]CartLineDTO, float64, error)

	CreateProduct(p *models.Product) error
	UpdateProduct(p *models.Product) error
	DeleteProduct(id string) error
	GetProduct(id string) (*models.Product, error)
	ListProducts() ([]models.Product, error)

	RegisterUser(name, email, address string) (int64, error)
	GetUser(id int64) (*models.User, error)

	GetOrder(id int64) (*models.Order, error)
	ListOrders(userID int64) ([]models.Order, error)
	UpdateOrderStatus(id int64, next models.OrderStatus) error
}
