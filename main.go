package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-storefront/app/cmd"
	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/routes"
	"github.com/Rakhulsr/go-storefront/app/services"
)

const (
	shopperIdleTimeout = 2 * time.Hour
	sweepInterval      = 10 * time.Minute
)

func main() {
	env := configs.LoadEnv()
	logger := logging.Init("storefront", env.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		if err := cmd.RunCli(ctx, env, os.Args); err != nil {
			logger.Error("cli failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, env, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, env configs.ENV, logger *slog.Logger) error {
	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}

	handle, err := cmd.OpenStorage(ctx, env)
	if err != nil {
		return err
	}
	defer handle.Close()
	logger.Info("storage ready", "driver", handle.Driver)

	api := services.NewStorefrontAPI(env.StorefrontAPIURL, services.NewHTTPClient(env.APITimeout), nil, logging.New("storefront-api"))
	hub := services.NewShopperHub(handle.Storage, api, logging.New("shoppers"))
	checkouts := services.NewCheckoutRegistry()
	hub.OnEvict(checkouts.Drop)

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				hub.Sweep(shopperIdleTimeout)
			}
		}
	}()

	server := &http.Server{
		Addr: env.Port,
		Handler: routes.NewRouter(routes.Deps{
			Env:       env,
			Keys:      keys,
			Hub:       hub,
			Checkouts: checkouts,
			Ping:      handle.Ping,
			Logger:    logging.New("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "api", env.StorefrontAPIURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
