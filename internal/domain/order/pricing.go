package order

import (
	"github.com/shopspring/decimal"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/catalog"
)

// All monetary math goes through decimal with half-up rounding to the
// cent, so totals come out identical on every platform.

// RoundCents rounds a monetary amount half-up to two decimals.
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// BasePrice decomposes a tax-inclusive price into its tax-exclusive base
// given a percentage tax rate, rounded to the cent.
func BasePrice(priceInclTax, taxRate float64) float64 {
	price := decimal.NewFromFloat(priceInclTax)
	divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(taxRate).Div(decimal.NewFromInt(100)))
	f, _ := price.Div(divisor).Round(2).Float64()
	return f
}

// TaxAmount is the tax portion of a tax-inclusive price. By construction
// BasePrice + TaxAmount always equals the original price to the cent.
func TaxAmount(priceInclTax, taxRate float64) float64 {
	return RoundCents(priceInclTax - BasePrice(priceInclTax, taxRate))
}

// ProductBasePrice is BasePrice for a catalog product; a nil product
// yields 0 rather than an error.
func ProductBasePrice(p *catalog.Product) float64 {
	if p == nil {
		return 0
	}
	return BasePrice(p.Price, p.Tax)
}

// ProductTaxAmount is TaxAmount for a catalog product; nil yields 0.
func ProductTaxAmount(p *catalog.Product) float64 {
	if p == nil {
		return 0
	}
	return TaxAmount(p.Price, p.Tax)
}

// LineTotal prices one line: per-unit base, tax, variant delta and
// complement sum, multiplied by quantity.
func LineTotal(base, tax, variantPrice, complementsSum float64, quantity int) float64 {
	unit := decimal.NewFromFloat(base).
		Add(decimal.NewFromFloat(tax)).
		Add(decimal.NewFromFloat(variantPrice)).
		Add(decimal.NewFromFloat(complementsSum))
	f, _ := unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2).Float64()
	return f
}

// ItemTotal recomputes a line's total from its stored fields. Menu lines
// only carry their variant and complement extras; the bundle base price
// is accounted for at group level.
func ItemTotal(it *OrderItem) float64 {
	if it.InMenu() {
		return LineTotal(0, 0, it.VariantPrice, it.ComplementsSum(), it.Quantity)
	}
	unit := decimal.NewFromFloat(it.ProductPrice).
		Add(decimal.NewFromFloat(it.ProductTax)).
		Sub(decimal.NewFromFloat(it.ProductDiscount)).
		Add(decimal.NewFromFloat(it.VariantPrice)).
		Add(decimal.NewFromFloat(it.ComplementsSum()))
	f, _ := unit.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2).Float64()
	return f
}
