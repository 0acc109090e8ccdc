package service

import "math"

// DefaultTaxRatePercent is applied to every sale unless overridden in config.
const DefaultTaxRatePercent = 18.0

// FinalUnitPrice maps a product's base price and discount to the price a
// single unit sells for: discount first, then tax, rounded half-up to one
// decimal place.
func FinalUnitPrice(basePrice, discountPercent, taxRatePercent float64) float64 {
	discounted := basePrice
	if discountPercent > 0 {
		discounted = basePrice * (1 - discountPercent/100)
	}
	return round1(discounted * (1 + taxRatePercent/100))
}

// LinePrice is the extended price of a cart line, rounded to one decimal.
func LinePrice(unitPrice float64, quantity int) float64 {
	return round1(unitPrice * float64(quantity))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
