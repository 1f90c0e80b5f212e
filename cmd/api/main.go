package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gcouto/patrimonio/internal/config"
	"github.com/gcouto/patrimonio/internal/database"
	"github.com/gcouto/patrimonio/internal/holdings"
	holdingsStore "github.com/gcouto/patrimonio/internal/holdings/store"
	patrimonioHttp "github.com/gcouto/patrimonio/internal/http"
	authHandler "github.com/gcouto/patrimonio/internal/http/auth"
	dashboardHandler "github.com/gcouto/patrimonio/internal/http/dashboard"
	uploadHandler "github.com/gcouto/patrimonio/internal/http/upload"
	"github.com/gcouto/patrimonio/internal/source"
	"github.com/gcouto/patrimonio/internal/source/sheets"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	credentials, err := cfg.Credentials()
	if err != nil {
		slog.Error("failed to read service-account credentials", "error", err)
		os.Exit(1)
	}

	// One authenticated client for the process lifetime.
	client, err := sheets.New(context.Background(), credentials)
	if err != nil {
		slog.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}

	// Mapping persistence is optional: without a reachable database the
	// service falls back to inferred mappings only.
	var mappings holdings.MappingRepository

	if db, err := database.New(cfg.ConnectionString()); err != nil {
		slog.Warn("database unavailable, mapping overrides disabled", "error", err)
	} else {
		defer db.Close()
		mappings = holdingsStore.New(db)
	}

	svc := holdings.NewService(source.NewCache(client), mappings)

	var (
		authH      = authHandler.NewHandler(cfg.App.Password, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		dashboardH = dashboardHandler.NewHandler(svc, cfg.Sheets.Workbook, cfg.Sheets.Tab)
		uploadH    = uploadHandler.NewHandler(svc)
	)

	router := patrimonioHttp.New(authH, dashboardH, uploadH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "workbook", cfg.Sheets.Workbook, "tab", cfg.Sheets.Tab)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
