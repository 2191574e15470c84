package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand creates the storefront command tree.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront state service",
		Long:          "Serves the storefront catalog, carts, sessions, orders and address books over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSeedCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.AppPort = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen address, overrides APP_PORT")
	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the catalog and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog seeded")
			return nil
		},
	}
}

// setup loads configuration and initializes the process logger.
func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return config.Config{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	defer logger.Sync()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Logger.Warn("error during shutdown", zap.Error(err))
		}
	}()

	if cfg.SeedCatalog {
		if err := a.Seed(ctx); err != nil {
			return err
		}
	}
	if err := a.ConsumeEvents(); err != nil {
		logger.Logger.Warn("failed to start event consumer", zap.Error(err))
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		logger.Logger.Info("starting server", zap.String("port", cfg.AppPort))
		listenErr <- a.Fiber.Listen(cfg.AppPort)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	logger.Logger.Info("shutting down server")

	if err := a.Fiber.Shutdown(); err != nil {
		logger.Logger.Warn("error during Fiber shutdown", zap.Error(err))
	}
	logger.Logger.Info("server gracefully stopped")
	return nil
}
