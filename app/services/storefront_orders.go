package services

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/models"
)

func (a *StorefrontAPI) ListAddresses(ctx context.Context) ([]models.Address, error) {
	addresses := []models.Address{}
	if _, err := a.doRequest(ctx, "ListAddresses", http.MethodGet, "/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// PlaceOrder submits the draft. The server applies the coupon and computes the
// charged total.
func (a *StorefrontAPI) PlaceOrder(ctx context.Context, draft models.OrderDraft) (*models.PlacedOrder, error) {
	order := &models.PlacedOrder{}
	if _, err := a.doRequest(ctx, "PlaceOrder", http.MethodPost, "/orders", draft, order); err != nil {
		return nil, err
	}
	return order, nil
}
