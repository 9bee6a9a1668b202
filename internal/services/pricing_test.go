package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name                      string
		lines                     []PricedLine
		subtotal, tax, fee, total string
	}{
		{
			name:     "small order pays delivery",
			lines:    []PricedLine{{Price: 10, Quantity: 2}, {Price: 5, Quantity: 1}},
			subtotal: "25", tax: "2", fee: "5.99", total: "32.99",
		},
		{
			name:     "exactly fifty still pays delivery",
			lines:    []PricedLine{{Price: 12.5, Quantity: 4}},
			subtotal: "50", tax: "4", fee: "5.99", total: "59.99",
		},
		{
			name:     "above fifty is free",
			lines:    []PricedLine{{Price: 50.01, Quantity: 1}},
			subtotal: "50.01", tax: "4", fee: "0", total: "54.01",
		},
		{
			name:     "tax rounds to cents",
			lines:    []PricedLine{{Price: 9.99, Quantity: 3}},
			subtotal: "29.97", tax: "2.4", fee: "5.99", total: "38.36",
		},
		{
			name:     "float noise does not leak",
			lines:    []PricedLine{{Price: 0.1, Quantity: 3}, {Price: 0.2, Quantity: 1}},
			subtotal: "0.5", tax: "0.04", fee: "5.99", total: "6.53",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotals(tc.lines)
			assert.Equal(t, tc.subtotal, got.Subtotal.String())
			assert.Equal(t, tc.tax, got.Tax.String())
			assert.Equal(t, tc.fee, got.DeliveryFee.String())
			assert.Equal(t, tc.total, got.Total.String())
			assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Add(got.DeliveryFee)))
		})
	}
}

func TestTotalsFloats(t *testing.T) {
	sub, tax, fee, total := ComputeTotals([]PricedLine{{Price: 10, Quantity: 2}, {Price: 5, Quantity: 1}}).Floats()
	assert.Equal(t, 25.0, sub)
	assert.Equal(t, 2.0, tax)
	assert.Equal(t, 5.99, fee)
	assert.Equal(t, 32.99, total)
}
