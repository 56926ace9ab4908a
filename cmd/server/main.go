package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/logging"
	"github.com/JonMunkholm/tablekeeper/internal/sources"
	"github.com/JonMunkholm/tablekeeper/internal/storage/postgres"
	"github.com/JonMunkholm/tablekeeper/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"sheets_enabled", cfg.Google.SheetsEnabled(),
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	store := postgres.New(pool)
	tables := core.NewService(store, cfg.Import)
	authn := auth.NewService(store, cfg.Auth)

	// A nil *GoogleSheets must not reach the server as a non-nil interface.
	var sheets web.SheetSource
	if cfg.Google.SheetsEnabled() {
		gs, err := sources.NewGoogleSheets(ctx, cfg.Google)
		if err != nil {
			slog.Error("failed to create google sheets client", "error", err)
			os.Exit(1)
		}
		sheets = gs
	}

	server := web.NewServer(tables, authn, sheets, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go authn.StartSessionSweeper(jobCtx, cfg.Auth.SweepInterval)

	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := tables.ImportLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := tables.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
