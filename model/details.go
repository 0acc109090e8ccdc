package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Per-category attribute records. These are owned by the catalog admin
// surface; the checkout path treats Product.Details as opaque bytes.

type BedDetails struct {
	Size         string `json:"size" validate:"required,oneof=single double queen king"`
	Material     string `json:"material" validate:"required"`
	HasStorage   bool   `json:"has_storage"`
	MattressType string `json:"mattress_type,omitempty"`
}

type ChairDetails struct {
	Material   string `json:"material" validate:"required"`
	Color      string `json:"color" validate:"required"`
	IsSwivel   bool   `json:"is_swivel"`
	MaxWeight  int    `json:"max_weight_kg,omitempty" validate:"omitempty,gt=0"`
	HasArmrest bool   `json:"has_armrest"`
}

type BookShelfDetails struct {
	ShelfCount int    `json:"shelf_count" validate:"required,gt=0"`
	Material   string `json:"material" validate:"required"`
	HeightCM   int    `json:"height_cm,omitempty" validate:"omitempty,gt=0"`
}

type SofaDetails struct {
	Seats      int    `json:"seats" validate:"required,gt=0"`
	Upholstery string `json:"upholstery" validate:"required"`
	IsSleeper  bool   `json:"is_sleeper"`
}

type TableDetails struct {
	Shape      string `json:"shape" validate:"required,oneof=round square rectangular oval"`
	Material   string `json:"material" validate:"required"`
	SeatsCount int    `json:"seats_count,omitempty" validate:"omitempty,gt=0"`
	Extendable bool   `json:"extendable"`
}

var validate = validator.New()

// ValidateDetails unmarshals raw into the attribute record for category and
// runs struct validation on it. A nil raw is rejected: every product carries
// its category attributes.
func ValidateDetails(category Category, raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("details required for category %q", category)
	}

	var rec any
	switch category {
	case CategoryBed:
		rec = &BedDetails{}
	case CategoryChair:
		rec = &ChairDetails{}
	case CategoryBookShelf:
		rec = &BookShelfDetails{}
	case CategorySofa:
		rec = &SofaDetails{}
	case CategoryTable:
		rec = &TableDetails{}
	default:
		return fmt.Errorf("unknown category %q", category)
	}

	if err := json.Unmarshal(raw, rec); err != nil {
		return fmt.Errorf("invalid details for category %q: %w", category, err)
	}
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("invalid details for category %q: %w", category, err)
	}
	return nil
}
