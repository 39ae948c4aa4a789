package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type AddToCartRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type CouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type CartView struct {
	Backend string                `json:"backend"`
	Items   []models.CartLineItem `json:"items"`
	Count   int                   `json:"count"`
	Summary calc.CartSummary      `json:"summary"`
}

type CartHandler struct {
	render   *render.Render
	validate *validator.Validate
}

func NewCartHandler(render *render.Render, validate *validator.Validate) *CartHandler {
	return &CartHandler{render: render, validate: validate}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	backend := shopper.Backends.For(ctx)
	items, err := backend.Items(ctx)
	if err != nil {
		logging.FromCtx(ctx).Warn("CartHandler.GetCart: failed to load cart", "backend", backend.Name(), "err", err)
		helpers.RespondError(h.render, w, err)
		return
	}

	var coupon *models.Coupon
	if backend.Name() == services.BackendLocal {
		coupon = shopper.Cart.AppliedCoupon(ctx)
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	helpers.RespondData(h.render, w, http.StatusOK, "", CartView{
		Backend: backend.Name(),
		Items:   items,
		Count:   count,
		Summary: calc.Summarize(items, coupon),
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := helpers.DecodeJSONBody(w, r, &req); err != nil {
		logging.FromCtx(r.Context()).Info("CartHandler.AddItem: bad body", "err", err)
		helpers.RespondValidation(h.render, w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}
	if req.UnitPrice.IsNegative() {
		h.render.JSON(w, http.StatusUnprocessableEntity, helpers.ErrorResponse{
			Message: "Please check the highlighted fields.",
			Errors:  map[string]string{"unitPrice": "unitPrice must not be negative."},
		})
		return
	}

	product := models.CartLineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		UnitPrice: req.UnitPrice,
	}
	res := shopper.Backends.For(r.Context()).Add(r.Context(), product, req.Quantity)
	helpers.RespondResult(h.render, w, res)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := helpers.DecodeJSONBody(w, r, &req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}

	lineID := mux.Vars(r)["lineID"]
	res := shopper.Backends.For(r.Context()).UpdateQuantity(r.Context(), lineID, *req.Quantity)
	helpers.RespondResult(h.render, w, res)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	lineID := mux.Vars(r)["lineID"]
	res := shopper.Backends.For(r.Context()).Remove(r.Context(), lineID)
	helpers.RespondResult(h.render, w, res)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	helpers.RespondResult(h.render, w, shopper.Backends.For(r.Context()).Clear(r.Context()))
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "", map[string]int{"count": shopper.CartBadge.Count(r.Context())})
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	var req CouponRequest
	if err := helpers.DecodeJSONBody(w, r, &req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}

	if _, err := shopper.Cart.ApplyCoupon(r.Context(), req.Code); err != nil {
		logging.FromCtx(r.Context()).Info("CartHandler.ApplyCoupon: rejected", "code", req.Code, "err", err)
		helpers.RespondError(h.render, w, err)
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "Coupon applied", shopper.Cart.Summary(r.Context()))
}

func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	if err := shopper.Cart.RemoveCoupon(r.Context()); err != nil {
		logging.FromCtx(r.Context()).Error("CartHandler.RemoveCoupon: failed", "err", err)
		helpers.RespondError(h.render, w, err)
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "Coupon removed", shopper.Cart.Summary(r.Context()))
}

// requireShopper fetches the request's shopper and answers 500 when the
// session middleware did not run.
func requireShopper(rnd *render.Render, w http.ResponseWriter, r *http.Request) (*services.Shopper, bool) {
	shopper := helpers.ShopperFromContext(r.Context())
	if shopper == nil {
		logging.FromCtx(r.Context()).Error("handlers: no shopper in request context", "path", r.URL.Path)
		helpers.RespondMessage(rnd, w, http.StatusInternalServerError, "Shopping session unavailable.")
		return nil, false
	}
	return shopper, true
}
