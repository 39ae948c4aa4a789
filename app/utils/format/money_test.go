package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupee(t *testing.T) {
	assert.Equal(t, "₹550", Rupee(decimal.NewFromInt(550)))
	assert.Equal(t, "₹1,299", Rupee(decimal.NewFromInt(1299)))
	assert.Equal(t, "₹49.50", Rupee(decimal.RequireFromString("49.5")))
	assert.Equal(t, "₹0", Rupee(decimal.Zero))
}
