// Command storefront runs the local storefront client: the web pages on a
// loopback address plus a few commands to inspect the persisted records.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/logger"
	"github.com/fjod/storefront/internal/session"
	"github.com/fjod/storefront/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Local storefront client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, sessionCmd, cartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the process-scoped stores every command works with.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	kv       storage.KV
	client   *api.Client
	sessions *session.Store
	cart     *cart.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	client := api.NewFromConfig(cfg.API, log.Named("api"))
	sessions, err := session.Open(ctx, kv, client, log.Named("session"))
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	c, err := cart.Open(ctx, kv, log.Named("cart"))
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, kv: kv, client: client, sessions: sessions, cart: c}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Error("close storage failed", zap.Error(err))
	}
	_ = a.log.Sync()
}
