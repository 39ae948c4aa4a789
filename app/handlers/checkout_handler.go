package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

// ProductsPath is where shoppers are sent when there is nothing to check out.
const ProductsPath = "/products"

type SelectAddressRequest struct {
	AddressID string `json:"addressId" validate:"required"`
}

type SelectPaymentRequest struct {
	Method string `json:"method" validate:"required"`
}

type CheckoutHandler struct {
	render    *render.Render
	validate  *validator.Validate
	checkouts *services.CheckoutRegistry
	logger    *slog.Logger
}

// NewCheckoutHandler builds the handler. logger is handed to each checkout and
// outlives the request that started it; nil uses the "checkout" component.
func NewCheckoutHandler(render *render.Render, validate *validator.Validate, checkouts *services.CheckoutRegistry, logger *slog.Logger) *CheckoutHandler {
	if logger == nil {
		logger = logging.New("checkout")
	}
	return &CheckoutHandler{render: render, validate: validate, checkouts: checkouts, logger: logger}
}

// Start begins a fresh checkout over the shopper's server cart, replacing any
// unfinished one.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	logger := logging.FromCtx(ctx)

	flow := services.NewOrchestrator(shopper.Remote, shopper.API, shopper.Cart, shopper.Bus,
		h.logger.With("shopper_id", shopper.ID))
	if err := flow.Start(ctx); err != nil {
		h.checkouts.Drop(shopper.ID)
		if errors.Is(err, services.ErrEmptyCart) {
			h.render.JSON(w, http.StatusConflict, helpers.ErrorResponse{
				Message:  "Your cart is empty.",
				Redirect: ProductsPath,
			})
			return
		}
		logger.Warn("CheckoutHandler.Start: failed to start checkout", "err", err)
		helpers.RespondError(h.render, w, err)
		return
	}

	h.checkouts.Begin(shopper.ID, flow)
	helpers.RespondData(h.render, w, http.StatusCreated, "", flow.Snapshot())
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(flow *services.Orchestrator) error { return nil })
}

func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	var req SelectAddressRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(flow *services.Orchestrator) error {
		return flow.SelectAddress(req.AddressID)
	})
}

func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req SelectPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(flow *services.Orchestrator) error {
		return flow.SelectPaymentMethod(req.Method)
	})
}

func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(flow *services.Orchestrator) error {
		_, err := flow.ApplyCoupon(req.Code)
		return err
	})
}

func (h *CheckoutHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(flow *services.Orchestrator) error {
		return flow.RemoveCoupon()
	})
}

// Next advances the checkout. Once the order is confirmed the flow is
// released; the response still carries the confirmation.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(flow *services.Orchestrator) error {
		if err := flow.Next(r.Context()); err != nil {
			return err
		}
		if flow.Stage() == services.StageConfirmation {
			if shopper := helpers.ShopperFromContext(r.Context()); shopper != nil {
				h.checkouts.Drop(shopper.ID)
			}
		}
		return nil
	})
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(flow *services.Orchestrator) error {
		return flow.Back()
	})
}

func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	h.checkouts.Drop(shopper.ID)
	helpers.RespondData(h.render, w, http.StatusOK, "Checkout abandoned", nil)
}

func (h *CheckoutHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := helpers.DecodeJSONBody(w, r, dst); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return false
	}
	return true
}

// withFlow runs fn against the shopper's checkout and answers with the
// resulting state, or with the error fn returned.
func (h *CheckoutHandler) withFlow(w http.ResponseWriter, r *http.Request, fn func(*services.Orchestrator) error) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	flow, found := h.checkouts.Get(shopper.ID)
	if !found {
		helpers.RespondError(h.render, w, services.ErrCheckoutNotStarted)
		return
	}

	if err := fn(flow); err != nil {
		logging.FromCtx(r.Context()).Info("CheckoutHandler: step rejected", "stage", flow.Stage().String(), "err", err)
		h.render.JSON(w, helpers.StatusForError(err), map[string]any{
			"success": false,
			"message": services.UserMessage(err),
			"data":    flow.Snapshot(),
		})
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "", flow.Snapshot())
}
