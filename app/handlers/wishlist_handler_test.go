package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_ToggleAndCount(t *testing.T) {
	e := newTestEnv(t, nil)
	vars := map[string]string{"productID": "P1"}

	rec := e.do(e.wishlist.Toggle, http.MethodPost, "guest", nil, vars)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled struct {
		InWishlist bool `json:"inWishlist"`
		Count      int  `json:"count"`
	}
	decodeData(t, rec, &toggled)
	assert.True(t, toggled.InWishlist)
	assert.Equal(t, 1, toggled.Count)

	rec = e.do(e.wishlist.List, http.MethodGet, "guest", nil, nil)
	var list struct {
		Items []string `json:"items"`
	}
	decodeData(t, rec, &list)
	assert.Equal(t, []string{"P1"}, list.Items)

	rec = e.do(e.wishlist.Toggle, http.MethodPost, "guest", nil, vars)
	decodeData(t, rec, &toggled)
	assert.False(t, toggled.InWishlist)

	rec = e.do(e.wishlist.Count, http.MethodGet, "guest", nil, nil)
	var count map[string]int
	decodeData(t, rec, &count)
	assert.Equal(t, 0, count["count"])
}
