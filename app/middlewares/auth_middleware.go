package middlewares

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/unrolled/render"
)

// RequireLogin rejects requests whose shopper has no auth token. It must run
// after ShopperMiddleware.
func RequireLogin(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopper := helpers.ShopperFromContext(r.Context())
			if shopper == nil || !shopper.Session.Authenticated(r.Context()) {
				logging.FromCtx(r.Context()).Info("RequireLogin: no auth token, rejecting", "path", r.URL.Path)
				helpers.RespondError(rnd, w, services.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
