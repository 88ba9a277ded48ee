package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/payment"
	"github.com/fjod/storefront/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront pages",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	var hosts []string
	if host, _, err := net.SplitHostPort(cfg.HTTP.Addr); err == nil && host != "" {
		hosts = append(hosts, host)
	}
	gateway := payment.NewHosted(a.client, cfg.Payment.KeyID, cfg.Payment.MerchantName, a.log.Named("payment"))
	server, err := web.NewServer(web.Config{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxUploadSize:  cfg.HTTP.MaxUploadSize,
		Merchant:       cfg.Payment.MerchantName,
		AllowedHosts:   hosts,
	}, a.client, a.sessions, a.cart, gateway, a.log.Named("web"))
	if err != nil {
		return err
	}
	orchestrator := checkout.New(a.client, a.sessions, a.cart, gateway, server, a.log.Named("checkout"),
		checkout.WithRedirectDelay(cfg.Checkout.RedirectDelay))
	defer orchestrator.Close()
	server.AttachCheckout(orchestrator)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("storefront starting", zap.String("addr", cfg.HTTP.Addr), zap.String("api", cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	a.log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	a.log.Info("server exited")
	return nil
}
