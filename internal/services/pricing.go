package services

import "github.com/shopspring/decimal"

var (
	taxRate           = decimal.RequireFromString("0.08")
	flatDeliveryFee   = decimal.RequireFromString("5.99")
	freeDeliveryAbove = decimal.NewFromInt(50)
)

// PricedLine is the price and quantity of one order line.
type PricedLine struct {
	Price    float64
	Quantity int
}

// Totals is the money breakdown of an order, rounded to cents.
type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals prices an order: 8% tax, a 5.99 delivery fee that is waived
// when the subtotal exceeds 50.
func ComputeTotals(lines []PricedLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	fee := flatDeliveryFee
	if subtotal.GreaterThan(freeDeliveryAbove) {
		fee = decimal.Zero
	}

	tax := subtotal.Mul(taxRate).Round(2)

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal.Add(tax).Add(fee),
	}
}

// Floats returns the totals in the representation stored on orders.
func (t Totals) Floats() (subtotal, tax, deliveryFee, total float64) {
	return t.Subtotal.InexactFloat64(), t.Tax.InexactFloat64(), t.DeliveryFee.InexactFloat64(), t.Total.InexactFloat64()
}
