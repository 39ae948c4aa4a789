package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *CookieShopperStore {
	return NewCookieShopperStore(false, securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
}

func TestShopperID_MintsThenReuses(t *testing.T) {
	store := newStore()

	first := httptest.NewRecorder()
	id, created, err := store.ShopperID(first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)

	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again, created, err := store.ShopperID(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)
}

func TestShopperID_ForeignCookieGetsFreshID(t *testing.T) {
	issued := httptest.NewRecorder()
	_, _, err := newStore().ShopperID(issued, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(issued.Result().Cookies()[0])
	_, created, err := newStore().ShopperID(httptest.NewRecorder(), req)

	require.NoError(t, err)
	assert.True(t, created)
}
