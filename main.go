package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/db"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/router"
	"github.com/danielhkuo/ballot-box/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	svc, err := router.NewServices(dbConn, cfg)
	if err != nil {
		slog.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	if err := seedAdmin(ctx, svc.Credentials, cfg.Admin); err != nil {
		slog.Error("admin seeding failed", "error", err)
		os.Exit(1)
	}

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(svc, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		closeAndExit(dbConn)
	}
	slog.Info("Server closed")
}

// seedAdmin creates the configured administrator if it does not exist yet.
// Public signup only ever creates voters.
func seedAdmin(ctx context.Context, creds *store.Credentials, seed cliparse.AdminSeed) error {
	if !seed.Enabled() {
		slog.Info("no admin seed configured")
		return nil
	}

	admin, created, err := creds.CreateAdmin(ctx, models.IdentityDraft{
		Name:          seed.Name,
		Address:       seed.Address,
		CredentialKey: seed.CredentialKey,
		Password:      seed.Password,
	})
	if err != nil {
		return err
	}

	slog.Info("admin ready",
		"identity_id", admin.ID,
		"credential_key", auth.MaskCredentialKey(admin.CredentialKey),
		"created", created,
	)
	return nil
}

func closeAndExit(conn *sql.DB) {
	conn.Close()
	os.Exit(1)
}
