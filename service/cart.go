package service

import (
	"errors"
	"fmt"

	"github.com/Furniture-Final-Project/Furniture-sub000/store"
)

// CartLineDTO is a priced view of one cart line.
type CartLineDTO struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

func (s *Service) AddToCart(userID int64, productID string, qty int) error {
	if userID <= 0 {
		return errors.New("user_id required")
	}
	if qty <= 0 {
		return errors.New("quantity must be > 0")
	}
	if _, err := s.catalog.GetProduct(productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &ProductMissingError{ProductID: productID}
		}
		return err
	}
	return s.cart.UpsertLine(userID, productID, qty)
}

func (s *Service) RemoveFromCart(userID int64, productID string) error {
	if userID <= 0 {
		return errors.New("user_id required")
	}
	return s.cart.DeleteLine(userID, productID)
}

// GetCart returns the user's cart priced with the same function checkout
// uses, so the total shown matches the total charged.
func (s *Service) GetCart(userID int64) ([]CartLineDTO, float64, error) {
	if userID <= 0 {
		return nil, 0, errors.New("user_id required")
	}
	lines, err := s.cart.ListLines(userID)
	if err != nil {
		return nil, 0, err
	}

	var total float64
	out := make([]CartLineDTO, 0, len(lines))
	for _, l := range lines {
		p, err := s.catalog.GetProduct(l.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, &ProductMissingError{ProductID: l.ProductID}
		}
		if err != nil {
			return nil, 0, fmt.Errorf("get product %s: %w", l.ProductID, err)
		}
		unit := FinalUnitPrice(p.Price, p.DiscountPercent, s.taxRate)
		line := LinePrice(unit, l.Quantity)
		out = append(out, CartLineDTO{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			LineTotal: line,
		})
		total += line
	}
	return out, round1(total), nil
}
