package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/unrolled/render"
)

// StoragePinger checks that the persistent cart storage is reachable.
type StoragePinger func(ctx context.Context) error

type HomeHandler struct {
	render *render.Render
	driver string
	ping   StoragePinger
	hub    *services.ShopperHub
}

func NewHomeHandler(r *render.Render, driver string, ping StoragePinger, hub *services.ShopperHub) *HomeHandler {
	return &HomeHandler{render: r, driver: driver, ping: ping, hub: hub}
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	storage := "ok"

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logging.FromCtx(r.Context()).Error("HomeHandler.Health: storage unreachable", "driver", h.driver, "err", err)
			status = http.StatusServiceUnavailable
			storage = "unreachable"
		}
	}

	_ = h.render.JSON(w, status, map[string]any{
		"success":  status == http.StatusOK,
		"storage":  storage,
		"driver":   h.driver,
		"shoppers": h.hub.Len(),
	})
}
