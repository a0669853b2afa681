package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/routes"
	"github.com/MavuriAlekhya2005/docverify/internal/server"
	"github.com/MavuriAlekhya2005/docverify/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	runtime, err := NewRuntime(cfg, logger)
	if err != nil {
		logger.Error("runtime init failed", "error", err)
		os.Exit(1)
	}

	domain := NewDomain(runtime, cfg)

	routeSys := routes.New(logger)
	if err := registerRoutes(routeSys, runtime, domain, cfg); err != nil {
		logger.Error("route registration failed", "error", err)
		os.Exit(1)
	}

	handler := buildMiddleware(cfg, logger).Wrap(routeSys.Build())
	srv := server.New(&cfg.Server, handler, logger)

	if err := runtime.Start(); err != nil {
		logger.Error("runtime start failed", "error", err)
		os.Exit(1)
	}
	if err := domain.Start(runtime.Lifecycle); err != nil {
		logger.Error("domain start failed", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(runtime.Lifecycle); err != nil {
		logger.Error("server start failed", "error", err)
		os.Exit(1)
	}

	runtime.Lifecycle.WaitForStartup()
	logger.Info("service ready", "env", cfg.Env(), "addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")
	if err := runtime.Lifecycle.Shutdown(cfg.Server.ShutdownTimeoutDuration()); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("service stopped")
}
