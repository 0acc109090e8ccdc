package service

import (
	"errors"
	"fmt"

	models "github.com/Furniture-Final-Project/Furniture-sub000/model"
)

// Catalog admin operations. These validate the record, including the
// per-category attribute bag; checkout itself never looks at Details.

func (s *Service) CreateProduct(p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.catalog.CreateProduct(p)
}

func (s *Service) UpdateProduct(p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.catalog.UpdateProduct(p)
}

func (s *Service) DeleteProduct(id string) error {
	if id == "" {
		return errors.New("product id required")
	}
	return s.catalog.DeleteProduct(id)
}

func (s *Service) GetProduct(id string) (*models.Product, error) {
	return s.catalog.GetProduct(id)
}

func (s *Service) ListProducts() ([]models.Product, error) {
	return s.catalog.ListProducts()
}

func validateProduct(p *models.Product) error {
	if p.ID == "" {
		return errors.New("product id required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if p.Price < 0 {
		return errors.New("price must be >= 0")
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return errors.New("discount percent must be in [0,100]")
	}
	if p.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return models.ValidateDetails(p.Category, p.Details)
}
