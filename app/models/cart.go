package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLineItem is one product entry in a cart. ItemID is only set on lines
// owned by the remote storefront API.
type CartLineItem struct {
	ProductID string          `json:"productId" validate:"required"`
	ItemID    string          `json:"itemId,omitempty"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"min=1"`
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineID is the identifier mutations address the line by.
func (i CartLineItem) LineID() string {
	if i.ItemID != "" {
		return i.ItemID
	}
	return i.ProductID
}

func (i CartLineItem) Equal(o CartLineItem) bool {
	return i.ProductID == o.ProductID &&
		i.ItemID == o.ItemID &&
		i.Name == o.Name &&
		i.Image == o.Image &&
		i.UnitPrice.Equal(o.UnitPrice) &&
		i.Quantity == o.Quantity
}

type Coupon struct {
	Code       string          `json:"code"`
	PercentOff decimal.Decimal `json:"percentOff"`
}

const CouponSave10 = "SAVE10"

var coupons = map[string]Coupon{
	CouponSave10: {Code: CouponSave10, PercentOff: decimal.NewFromInt(10)},
}

// LookupCoupon resolves a code case-insensitively.
func LookupCoupon(code string) (Coupon, bool) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}
