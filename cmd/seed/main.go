// Command seed provisions an administrator account. It is intended for
// first-time setup and idempotent re-runs: an existing account with the
// same email is left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
	"github.com/MavuriAlekhya2005/docverify/internal/database"
	"github.com/MavuriAlekhya2005/docverify/internal/users"
	"github.com/MavuriAlekhya2005/docverify/pkg/logging"
)

func main() {
	email := flag.String("email", "", "administrator email")
	name := flag.String("name", "Administrator", "administrator display name")
	password := flag.String("password", "", "administrator password; defaults to DOCVERIFY_SEED_PASSWORD")
	flag.Parse()

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

	if *password == "" {
		*password = os.Getenv("DOCVERIFY_SEED_PASSWORD")
	}
	if *email == "" || *password == "" {
		logger.Error("email and password are required")
		os.Exit(1)
	}

	dbSys, err := database.New(&cfg.Database, logger)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer dbSys.Connection().Close()

	if err := dbSys.Migrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sys := users.New(dbSys.Connection(), logger, cfg.Pagination)
	admin, err := sys.Create(ctx, users.CreateCommand{
		Email:    *email,
		Name:     *name,
		Password: *password,
		Role:     users.RoleAdmin,
	})

	switch {
	case errors.Is(err, users.ErrDuplicateEmail):
		logger.Info("administrator already exists", "email", *email)
	case err != nil:
		logger.Error("failed to create administrator", "error", err)
		os.Exit(1)
	default:
		logger.Info("administrator created", "id", admin.ID, "email", admin.Email)
	}
}
