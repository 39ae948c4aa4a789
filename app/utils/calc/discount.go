package calc

import (
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

func Subtotal(items []models.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type CartSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Coupon   *models.Coupon  `json:"coupon,omitempty"`
}

// Summarize derives the cart totals; total = subtotal - discount. A nil
// coupon means no discount.
func Summarize(items []models.CartLineItem, coupon *models.Coupon) CartSummary {
	subtotal := Subtotal(items)
	discount := decimal.Zero
	if coupon != nil {
		discount = CalculateDiscount(subtotal, coupon.PercentOff)
	}
	return CartSummary{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
		Coupon:   coupon,
	}
}
