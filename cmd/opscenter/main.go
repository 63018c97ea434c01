package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vbrevik/plan-targeting-assessment-sub003/config"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Default().ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.IsDev)

	if err := run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	logger.InfoContext(ctx, "starting opscenter shell",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.Auth.BackendURL,
		"dev", cfg.IsDev,
	)

	shell, err := bootstrap.BuildShell(ctx, bootstrap.ShellOptions{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := shell.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close shell failed", "error", cerr)
		}
	}()

	server := bootstrap.NewHTTPServer(cfg.HTTP.Addr, shell.Handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bootstrap.ServeHTTP(gctx, server, logger)
	})
	g.Go(func() error {
		return shell.Provider.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.InfoContext(ctx, "opscenter shell stopped")
	return nil
}
