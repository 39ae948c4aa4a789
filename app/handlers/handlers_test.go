package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/storage"
	"github.com/Rakhulsr/go-storefront/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	hub       *services.ShopperHub
	checkouts *services.CheckoutRegistry
	cart      *CartHandler
	wishlist  *WishlistHandler
	auth      *AuthHandler
	checkout  *CheckoutHandler
	apiCalls  *atomic.Int32
}

// newTestEnv wires handlers against an in-memory storage and a fake
// storefront API answering with api.
func newTestEnv(t *testing.T, api http.HandlerFunc) *testEnv {
	t.Helper()

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if api == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"not found"}`))
			return
		}
		api(w, r)
	}))
	t.Cleanup(server.Close)

	client := services.NewStorefrontAPI(server.URL, services.NewHTTPClient(2*time.Second), nil, logging.Discard())
	hub := services.NewShopperHub(storage.NewMemory(), client, logging.Discard())
	checkouts := services.NewCheckoutRegistry()
	rnd := renderer.New(false)
	validate := helpers.NewValidator()

	return &testEnv{
		hub:       hub,
		checkouts: checkouts,
		cart:      NewCartHandler(rnd, validate),
		wishlist:  NewWishlistHandler(rnd),
		auth:      NewAuthHandler(rnd, validate, checkouts),
		checkout:  NewCheckoutHandler(rnd, validate, checkouts, logging.Discard()),
		apiCalls:  calls,
	}
}

func (e *testEnv) login(t *testing.T, shopperID string) {
	t.Helper()
	require.NoError(t, e.hub.Get(shopperID).Session.Login(context.Background(), "tok", false))
}

// do runs h for shopperID with an optional JSON body and mux vars.
func (e *testEnv) do(h http.HandlerFunc, method, shopperID string, body any, vars map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, "/api/test", &buf)
	req.Header.Set("Content-Type", "application/json")
	if shopperID != "" {
		req = req.WithContext(helpers.WithShopper(req.Context(), e.hub.Get(shopperID)))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type envelope struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Errors   map[string]string `json:"errors"`
	Redirect string            `json:"redirect"`
	Data     json.RawMessage   `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, v), rec.Body.String())
}
