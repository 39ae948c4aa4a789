package middlewares

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/unrolled/render"
)

// ShopperMiddleware resolves the browser's shopper id from its session cookie
// and attaches that shopper's carts to the request context.
func ShopperMiddleware(store sessions.ShopperStore, hub *services.ShopperHub, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.FromCtx(r.Context())

			shopperID, created, err := store.ShopperID(w, r)
			if err != nil {
				logger.Error("ShopperMiddleware: failed to save shopper session", "err", err)
				helpers.RespondMessage(rnd, w, http.StatusInternalServerError, "Could not start a shopping session.")
				return
			}
			if created {
				logger.Info("ShopperMiddleware: new shopper session", "shopper_id", shopperID)
			}

			ctx := helpers.WithShopper(r.Context(), hub.Get(shopperID))
			ctx = logging.WithCtx(ctx, logger.With("shopper_id", shopperID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CSRFTokenHeader exposes the request's CSRF token so the SPA can echo it on
// mutating calls. It must run inside csrf.Protect.
func CSRFTokenHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(helpers.CSRFHeader, csrf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// MethodOverrideMiddleware lets clients that can only POST tunnel PUT and
// DELETE through the X-HTTP-Method-Override header or a _method form field.
func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.Header.Get("X-HTTP-Method-Override")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				_ = r.ParseForm()
				override = r.Form.Get("_method")
			}
			switch strings.ToUpper(override) {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
