package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
)

type RemoteCartItem struct {
	ID        string          `json:"_id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type RemoteCart struct {
	Items []RemoteCartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// LineItems converts the server cart to the shared line shape; ItemID carries
// the server's line id.
func (c *RemoteCart) LineItems() []models.CartLineItem {
	lines := make([]models.CartLineItem, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, models.CartLineItem{
			ProductID: item.ProductID,
			ItemID:    item.ID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func (c *RemoteCart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// RemoteCartClient is the server-side cart of a logged-in shopper. Mutations
// return a Result and never a bare error.
type RemoteCartClient struct {
	api    *StorefrontAPI
	bus    *events.Bus
	logger *slog.Logger
}

func NewRemoteCartClient(api *StorefrontAPI, bus *events.Bus, logger *slog.Logger) *RemoteCartClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteCartClient{api: api, bus: bus, logger: logger}
}

func (c *RemoteCartClient) AddToCart(ctx context.Context, productID string, qty int) Result {
	if qty < 1 {
		qty = 1
	}

	var data json.RawMessage
	msg, err := c.api.doRequest(ctx, "AddToCart", http.MethodPost, "/cart", addToCartRequest{ProductID: productID, Quantity: qty}, &data)
	if err != nil {
		if isUnauthenticated(err) {
			return Result{Success: false, Message: MsgLoginToAddToCart, Err: err}
		}
		c.logger.Warn("RemoteCartClient.AddToCart: failed", "product_id", productID, "err", err)
		return failed(err)
	}

	c.publish()
	return ok(msg, data)
}

func (c *RemoteCartClient) GetCart(ctx context.Context) (*RemoteCart, error) {
	cart := &RemoteCart{}
	if _, err := c.api.doRequest(ctx, "GetCart", http.MethodGet, "/cart", nil, cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []RemoteCartItem{}
	}
	return cart, nil
}

func (c *RemoteCartClient) RemoveFromCart(ctx context.Context, itemID string) Result {
	var data json.RawMessage
	msg, err := c.api.doRequest(ctx, "RemoveFromCart", http.MethodDelete, "/cart/"+url.PathEscape(itemID), nil, &data)
	if err != nil {
		c.logger.Warn("RemoteCartClient.RemoveFromCart: failed", "item_id", itemID, "err", err)
		return failed(err)
	}

	c.publish()
	return ok(msg, data)
}

func (c *RemoteCartClient) UpdateCartQuantity(ctx context.Context, itemID string, qty int) Result {
	if qty < 1 {
		return failed(ErrInvalidQuantity)
	}

	var data json.RawMessage
	msg, err := c.api.doRequest(ctx, "UpdateCartQuantity", http.MethodPut, "/cart/"+url.PathEscape(itemID), updateQuantityRequest{Quantity: qty}, &data)
	if err != nil {
		c.logger.Warn("RemoteCartClient.UpdateCartQuantity: failed", "item_id", itemID, "quantity", qty, "err", err)
		return failed(err)
	}

	c.publish()
	return ok(msg, data)
}

func (c *RemoteCartClient) ClearCart(ctx context.Context) Result {
	msg, err := c.api.doRequest(ctx, "ClearCart", http.MethodDelete, "/cart", nil, nil)
	if err != nil {
		c.logger.Warn("RemoteCartClient.ClearCart: failed", "err", err)
		return failed(err)
	}

	c.publish()
	return ok(msg, nil)
}

func (c *RemoteCartClient) publish() {
	if c.bus != nil {
		c.bus.Publish(events.CartChanged)
	}
}
