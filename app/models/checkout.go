package models

import "github.com/shopspring/decimal"

type Address struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Line1      string `json:"addressLine1"`
	Line2      string `json:"addressLine2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

const (
	PaymentCOD        = "cod"
	PaymentUPI        = "upi"
	PaymentCard       = "card"
	PaymentNetBanking = "netbanking"
)

type PaymentMethod struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// DefaultPaymentMethods lists what checkout offers. Unavailable methods are
// shown but cannot be selected.
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{Code: PaymentCOD, Label: "Cash on Delivery", Available: true},
		{Code: PaymentUPI, Label: "UPI", Available: false},
		{Code: PaymentCard, Label: "Credit / Debit Card", Available: false},
		{Code: PaymentNetBanking, Label: "Net Banking", Available: false},
	}
}

// OrderDraft is the body of the order-creation request.
type OrderDraft struct {
	ShippingAddressID string `json:"shippingAddressId" validate:"required"`
	PaymentMethod     string `json:"paymentMethod" validate:"required"`
	CouponCode        string `json:"couponCode,omitempty"`
}

type PlacedOrder struct {
	OrderID string          `json:"order_id"`
	Status  string          `json:"status,omitempty"`
	Total   decimal.Decimal `json:"total"`
}
