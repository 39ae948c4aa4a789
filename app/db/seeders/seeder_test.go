package seeders

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCart(t *testing.T) {
	cart := services.NewLocalCartStore(storage.NewMemory(), nil, logging.Discard())
	ctx := context.Background()

	items, err := SeedCart(ctx, cart, 4)

	require.NoError(t, err)
	assert.Len(t, items, 4)
	for _, item := range items {
		assert.GreaterOrEqual(t, item.Quantity, 1)
		assert.LessOrEqual(t, item.Quantity, 3)
	}
	assert.Len(t, cart.GetCart(ctx), 4)
}

func TestSeedCart_RejectsZero(t *testing.T) {
	cart := services.NewLocalCartStore(storage.NewMemory(), nil, logging.Discard())

	_, err := SeedCart(context.Background(), cart, 0)

	assert.Error(t, err)
}
