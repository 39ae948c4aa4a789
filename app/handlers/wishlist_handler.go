package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type WishlistHandler struct {
	render *render.Render
}

func NewWishlistHandler(render *render.Render) *WishlistHandler {
	return &WishlistHandler{render: render}
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "", map[string][]string{"items": shopper.Wishlist.Items(r.Context())})
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	productID := mux.Vars(r)["productID"]
	added := shopper.Wishlist.Toggle(r.Context(), productID)

	message := "Removed from wishlist"
	if added {
		message = "Added to wishlist"
	}
	helpers.RespondData(h.render, w, http.StatusOK, message, map[string]any{
		"productId":  productID,
		"inWishlist": added,
		"count":      shopper.WishlistBadge.Count(r.Context()),
	})
}

func (h *WishlistHandler) Count(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "", map[string]int{"count": shopper.WishlistBadge.Count(r.Context())})
}
