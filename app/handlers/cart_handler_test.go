package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_GuestAddThenGet(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{
		"productId": "P1", "name": "Mug", "unitPrice": 100, "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode(t, rec).Success)

	rec = e.do(e.cart.GetCart, http.MethodGet, "guest", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view CartView
	decodeData(t, rec, &view)
	assert.Equal(t, services.BackendLocal, view.Backend)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "200", view.Summary.Subtotal.String())
	assert.Equal(t, int32(0), e.apiCalls.Load())
}

func TestCart_AddValidatesBody(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"quantity": 1}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Errors, "productId")

	rec = e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"productId": "P1", "unitPrice": -5}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Errors, "unitPrice")

	rec = e.do(e.cart.AddItem, http.MethodPost, "guest", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_UpdateToZeroRemovesLine(t *testing.T) {
	e := newTestEnv(t, nil)
	e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"productId": "P1", "unitPrice": 10}, nil)

	rec := e.do(e.cart.UpdateItem, http.MethodPut, "guest", map[string]any{"quantity": 0}, map[string]string{"lineID": "P1"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, e.hub.Get("guest").Cart.Count(context.Background()))

	rec = e.do(e.cart.UpdateItem, http.MethodPut, "guest", map[string]any{}, map[string]string{"lineID": "P1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCart_RemoveAndClear(t *testing.T) {
	e := newTestEnv(t, nil)
	e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"productId": "P1", "unitPrice": 10}, nil)
	e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"productId": "P2", "unitPrice": 10}, nil)

	rec := e.do(e.cart.RemoveItem, http.MethodDelete, "guest", nil, map[string]string{"lineID": "P1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, e.hub.Get("guest").Cart.Count(context.Background()))

	rec = e.do(e.cart.ClearCart, http.MethodDelete, "guest", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.hub.Get("guest").Cart.GetCart(context.Background()))
}

func TestCart_CouponLifecycle(t *testing.T) {
	e := newTestEnv(t, nil)
	e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"productId": "P1", "unitPrice": 200}, nil)

	rec := e.do(e.cart.ApplyCoupon, http.MethodPost, "guest", map[string]string{"code": "save10"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary struct {
		Discount json.Number `json:"discount"`
		Total    json.Number `json:"total"`
	}
	decodeData(t, rec, &summary)
	assert.Equal(t, "20", summary.Discount.String())
	assert.Equal(t, "180", summary.Total.String())

	rec = e.do(e.cart.ApplyCoupon, http.MethodPost, "guest", map[string]string{"code": "BOGUS"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(e.cart.RemoveCoupon, http.MethodDelete, "guest", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, e.hub.Get("guest").Cart.AppliedCoupon(context.Background()))
}

func TestCart_Count(t *testing.T) {
	e := newTestEnv(t, nil)
	e.do(e.cart.AddItem, http.MethodPost, "guest", map[string]any{"productId": "P1", "unitPrice": 10, "quantity": 3}, nil)

	rec := e.do(e.cart.Count, http.MethodGet, "guest", nil, nil)

	var body map[string]int
	decodeData(t, rec, &body)
	assert.Equal(t, 3, body["count"])
}

func TestCart_LoggedInShopperUsesRemoteCart(t *testing.T) {
	var posted map[string]any
	e := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"success":true,"data":{"items":[{"_id":"l1","productId":"P9","price":250,"quantity":2}],"total":500}}`))
		case http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &posted)
			_, _ = w.Write([]byte(`{"success":true,"message":"Item added to cart"}`))
		}
	})
	e.login(t, "member")

	rec := e.do(e.cart.AddItem, http.MethodPost, "member", map[string]any{"productId": "P9", "quantity": 2}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Item added to cart", decode(t, rec).Message)
	assert.Equal(t, "P9", posted["productId"])

	rec = e.do(e.cart.GetCart, http.MethodGet, "member", nil, nil)
	var view CartView
	decodeData(t, rec, &view)
	assert.Equal(t, services.BackendRemote, view.Backend)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "l1", view.Items[0].LineID())
	assert.Equal(t, "500", view.Summary.Total.String())
}

func TestCart_RemoteRejectionKeepsServerMessage(t *testing.T) {
	e := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Product is out of stock"}`))
	})
	e.login(t, "member")

	rec := e.do(e.cart.AddItem, http.MethodPost, "member", map[string]any{"productId": "P9"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product is out of stock", decode(t, rec).Message)
}

func TestCart_NoShopperInContext(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(e.cart.GetCart, http.MethodGet, "", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
