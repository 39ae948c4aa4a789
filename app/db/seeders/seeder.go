package seeders

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/go-storefront/app/db/fakers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/services"
)

// SeedCart adds n fake products to cart, one to three units each, and
// returns the resulting cart.
func SeedCart(ctx context.Context, cart *services.LocalCartStore, n int) ([]models.CartLineItem, error) {
	if n < 1 {
		return nil, fmt.Errorf("item count must be at least 1, got %d", n)
	}

	before := len(cart.GetCart(ctx))
	var items []models.CartLineItem
	for i := 0; i < n; i++ {
		items = cart.AddItem(ctx, fakers.ProductFaker(), 1+rand.Intn(3))
	}

	if len(items) != before+n {
		return items, fmt.Errorf("cart storage did not accept all items: have %d lines, want %d", len(items), before+n)
	}
	return items, nil
}
