package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type LoginRequest struct {
	Token    string `json:"token" validate:"required"`
	Remember bool   `json:"remember"`
}

// AuthHandler stores the bearer token the storefront API issued to the
// shopper. Credentials themselves never pass through this server.
type AuthHandler struct {
	render    *render.Render
	validate  *validator.Validate
	checkouts *services.CheckoutRegistry
}

func NewAuthHandler(render *render.Render, validate *validator.Validate, checkouts *services.CheckoutRegistry) *AuthHandler {
	return &AuthHandler{render: render, validate: validate, checkouts: checkouts}
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "", map[string]bool{"authenticated": shopper.Session.Authenticated(r.Context())})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	var req LoginRequest
	if err := helpers.DecodeJSONBody(w, r, &req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		helpers.RespondValidation(h.render, w, err)
		return
	}

	if err := shopper.Session.Login(r.Context(), req.Token, req.Remember); err != nil {
		logging.FromCtx(r.Context()).Error("AuthHandler.Login: failed to store token", "err", err)
		helpers.RespondError(h.render, w, err)
		return
	}

	logging.FromCtx(r.Context()).Info("AuthHandler.Login: shopper logged in", "remember", req.Remember)
	helpers.RespondData(h.render, w, http.StatusOK, "Logged in", map[string]bool{"authenticated": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	shopper, ok := requireShopper(h.render, w, r)
	if !ok {
		return
	}

	h.checkouts.Drop(shopper.ID)
	if err := shopper.Session.Logout(r.Context()); err != nil {
		logging.FromCtx(r.Context()).Error("AuthHandler.Logout: failed to clear token", "err", err)
		helpers.RespondError(h.render, w, err)
		return
	}
	helpers.RespondData(h.render, w, http.StatusOK, "Logged out", map[string]bool{"authenticated": false})
}
