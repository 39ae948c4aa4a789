package calc

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(499)
	ShippingFee           = decimal.NewFromInt(49)
)

// Shipping is free strictly above the threshold.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

type CheckoutTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

func CalculateCheckoutTotals(subtotal decimal.Decimal) CheckoutTotals {
	shipping := Shipping(subtotal)
	return CheckoutTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}
