package main

import (
	"fmt"
	"log/slog"

	"github.com/MavuriAlekhya2005/docverify/internal/anchor"
	"github.com/MavuriAlekhya2005/docverify/internal/auth"
	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/database"
	"github.com/MavuriAlekhya2005/docverify/internal/lifecycle"
	"github.com/MavuriAlekhya2005/docverify/internal/storage"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

// Runtime holds the infrastructure subsystems shared across the domain.
type Runtime struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	Anchors    anchor.System
	Tokens     *auth.Tokens
	Pagination pagination.Config
}

// NewRuntime wires the infrastructure subsystems from configuration.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	dbSys, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	storageSys, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	anchorSys, err := anchor.New(cfg.Anchor, logger)
	if err != nil {
		return nil, fmt.Errorf("anchor init failed: %w", err)
	}

	return &Runtime{
		Lifecycle:  lifecycle.New(),
		Logger:     logger,
		Database:   dbSys,
		Storage:    storageSys,
		Anchors:    anchorSys,
		Tokens:     auth.NewTokens(&cfg.Auth),
		Pagination: cfg.Pagination,
	}, nil
}

// Start registers the infrastructure subsystems with the lifecycle
// coordinator.
func (r *Runtime) Start() error {
	if err := r.Database.Start(r.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := r.Storage.Start(r.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
