package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/storage"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *services.ShopperHub) {
	t.Helper()

	api := services.NewStorefrontAPI("http://127.0.0.1:0", nil, nil, logging.Discard())
	hub := services.NewShopperHub(storage.NewMemory(), api, logging.Discard())
	router := NewRouter(Deps{
		Env: configs.ENV{AppEnv: "development", StorageDriver: configs.StorageDriverMemory},
		Keys: &configs.SessionKeys{
			AuthKey: securecookie.GenerateRandomKey(64),
			EncKey:  securecookie.GenerateRandomKey(32),
		},
		Hub:       hub,
		Checkouts: services.NewCheckoutRegistry(),
		Ping:      func(context.Context) error { return nil },
		Logger:    logging.Discard(),
	})
	return router, hub
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "memory", body["driver"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPI_GetIssuesTokenAndSession(t *testing.T) {
	router, hub := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.NotEmpty(t, rec.Header().Get(helpers.CSRFHeader))
	assert.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, 1, hub.Len())
}

func TestAPI_MutationWithoutCSRFTokenIsForbidden(t *testing.T) {
	router, hub := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"productId":"P1","unitPrice":10}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSRF")
	assert.Equal(t, 0, hub.Len())
}

func TestAPI_MutationWithCSRFToken(t *testing.T) {
	router, _ := newTestRouter(t)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, first.Code)
	token := first.Header().Get(helpers.CSRFHeader)
	cookies := first.Result().Cookies()

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"productId":"P1","name":"Mug","unitPrice":10,"quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(helpers.CSRFHeader, token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	count := httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
	for _, c := range cookies {
		count.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, count)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Count)
}

func TestAPI_CheckoutRequiresLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checkout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
