// Package pricing holds the one pricing policy every payment path uses.
package pricing

import "github.com/shopspring/decimal"

var (
	TaxRate               = decimal.RequireFromString("0.18")
	FreeShippingThreshold = decimal.NewFromInt(1000)
	FlatShipping          = decimal.NewFromInt(50)
)

type Breakdown struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute applies tax on the subtotal and flat shipping unless the subtotal
// is strictly above the free-shipping threshold.
func Compute(subtotal decimal.Decimal) Breakdown {
	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)
	return Breakdown{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

func (b Breakdown) FreeShipping() bool {
	return b.Shipping.IsZero()
}
