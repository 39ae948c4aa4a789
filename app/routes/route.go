package routes

import (
	"log/slog"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/renderer"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
)

type Deps struct {
	Env       configs.ENV
	Keys      *configs.SessionKeys
	Hub       *services.ShopperHub
	Checkouts *services.CheckoutRegistry
	Ping      handlers.StoragePinger
	Logger    *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	production := d.Env.IsProduction()
	rnd := renderer.New(production)
	validate := helpers.NewValidator()

	home := handlers.NewHomeHandler(rnd, d.Env.StorageDriver, d.Ping, d.Hub)
	cart := handlers.NewCartHandler(rnd, validate)
	wishlist := handlers.NewWishlistHandler(rnd)
	auth := handlers.NewAuthHandler(rnd, validate, d.Checkouts)
	checkout := handlers.NewCheckoutHandler(rnd, validate, d.Checkouts, logging.New("checkout"))

	router := mux.NewRouter()
	router.HandleFunc("/healthz", home.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(csrf.Protect(d.Keys.CSRFKey(),
		csrf.Secure(production),
		csrf.Path("/"),
		csrf.RequestHeader(helpers.CSRFHeader),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logging.FromCtx(r.Context()).Warn("csrf: request rejected", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			helpers.RespondMessage(rnd, w, http.StatusForbidden, "Invalid or missing CSRF token.")
		})),
	))
	api.Use(middlewares.CSRFTokenHeader)
	api.Use(middlewares.ShopperMiddleware(sessions.NewCookieShopperStore(production, d.Keys.AuthKey, d.Keys.EncKey), d.Hub, rnd))

	api.HandleFunc("/cart", cart.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", cart.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart", cart.ClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/count", cart.Count).Methods(http.MethodGet)
	api.HandleFunc("/cart/coupon", cart.ApplyCoupon).Methods(http.MethodPost)
	api.HandleFunc("/cart/coupon", cart.RemoveCoupon).Methods(http.MethodDelete)
	api.HandleFunc("/cart/{lineID}", cart.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/{lineID}", cart.RemoveItem).Methods(http.MethodDelete)

	api.HandleFunc("/wishlist", wishlist.List).Methods(http.MethodGet)
	api.HandleFunc("/wishlist/count", wishlist.Count).Methods(http.MethodGet)
	api.HandleFunc("/wishlist/{productID}", wishlist.Toggle).Methods(http.MethodPost)

	api.HandleFunc("/session", auth.Status).Methods(http.MethodGet)
	api.HandleFunc("/session", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/session", auth.Logout).Methods(http.MethodDelete)

	checkoutRoutes := api.PathPrefix("/checkout").Subrouter()
	checkoutRoutes.Use(middlewares.RequireLogin(rnd))
	checkoutRoutes.HandleFunc("", checkout.Start).Methods(http.MethodPost)
	checkoutRoutes.HandleFunc("", checkout.Get).Methods(http.MethodGet)
	checkoutRoutes.HandleFunc("", checkout.Abandon).Methods(http.MethodDelete)
	checkoutRoutes.HandleFunc("/address", checkout.SelectAddress).Methods(http.MethodPost)
	checkoutRoutes.HandleFunc("/payment", checkout.SelectPayment).Methods(http.MethodPost)
	checkoutRoutes.HandleFunc("/coupon", checkout.ApplyCoupon).Methods(http.MethodPost)
	checkoutRoutes.HandleFunc("/coupon", checkout.RemoveCoupon).Methods(http.MethodDelete)
	checkoutRoutes.HandleFunc("/next", checkout.Next).Methods(http.MethodPost)
	checkoutRoutes.HandleFunc("/back", checkout.Back).Methods(http.MethodPost)

	logger := d.Logger
	if logger == nil {
		logger = logging.Base()
	}
	return middlewares.RequestLogger(logger)(middlewares.MethodOverrideMiddleware(router))
}
