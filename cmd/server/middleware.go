package main

import (
	"log/slog"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/middleware"
)

// buildMiddleware assembles the outer middleware stack applied to every
// request.
func buildMiddleware(cfg *config.Config, logger *slog.Logger) middleware.System {
	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.Logger(logger))
	mw.Use(middleware.CORS(&cfg.CORS))
	return mw
}
