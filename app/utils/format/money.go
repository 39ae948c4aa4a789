package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupee = accounting.Accounting{Symbol: "₹", Precision: 0, Thousand: ",", Decimal: "."}

// Rupee formats whole-rupee amounts, e.g. ₹1,299. Paise are shown only when
// the amount has them.
func Rupee(amount decimal.Decimal) string {
	if amount.Equal(amount.Truncate(0)) {
		return rupee.FormatMoneyFloat64(amount.InexactFloat64())
	}
	withPaise := rupee
	withPaise.Precision = 2
	return withPaise.FormatMoneyFloat64(amount.InexactFloat64())
}
