package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/credvault/internal/adapter/driven/codec"
	sqliteadapter "github.com/ericfisherdev/credvault/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/credvault/internal/adapter/driving/http"
	"github.com/ericfisherdev/credvault/internal/application"
	"github.com/ericfisherdev/credvault/internal/config"
	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values). A .env file in the
	// working directory, if present, fills in unset variables.
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"codec", cfg.Codec,
		"secret_key_set", cfg.HasSecretKey(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", db.Path())

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer.DB); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db)
	secretCodec, err := newSecretCodec(cfg)
	if err != nil {
		return err
	}
	if !codec.RequiresKey(secretCodec.Name()) {
		slog.Warn("secrets are stored base64-encoded, not encrypted; set CREDVAULT_CODEC and CREDVAULT_SECRET_KEY to encrypt")
	}

	// 6. Create services.
	credentialSvc := application.NewCredentialService(credentialStore, secretCodec, slog.Default())
	healthSvc := application.NewHealthService(credentialStore, secretCodec)

	// 7. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(credentialSvc, healthSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown; in-flight requests finish before the database closes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newSecretCodec builds the configured codec, rejecting an encrypting codec
// that has no passphrase before any key derivation happens.
func newSecretCodec(cfg *config.Config) (driven.SecretCodec, error) {
	if codec.RequiresKey(cfg.Codec) && !cfg.HasSecretKey() {
		return nil, fmt.Errorf("CREDVAULT_SECRET_KEY is required when CREDVAULT_CODEC=%s", cfg.Codec)
	}

	c, err := codec.New(cfg.Codec, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("CREDVAULT_CODEC: %w", err)
	}
	return c, nil
}
