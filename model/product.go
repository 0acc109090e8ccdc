package models

import "encoding/json"

// Category is the product family a catalog entry belongs to.
type Category string

const (
	CategoryBed       Category = "bed"
	CategoryChair     Category = "chair"
	CategoryBookShelf Category = "bookshelf"
	CategorySofa      Category = "sofa"
	CategoryTable     Category = "table"
)

// Valid reports whether c is one of the known furniture categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBed, CategoryChair, CategoryBookShelf, CategorySofa, CategoryTable:
		return true
	}
	return false
}

// Product is a catalog entry. Details carries the per-category attribute
// bag; checkout never inspects it, only the catalog admin surface does.
type Product struct {
	ID              string          `json:"id"`
	Category        Category        `json:"category"`
	Price           float64         `json:"price"`
	DiscountPercent float64         `json:"discount_percent"`
	Stock           int             `json:"stock_quantity"`
	Details         json.RawMessage `json:"details,omitempty"`
}
