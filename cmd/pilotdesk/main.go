package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/mb3rlab/pilotdesk/internal/adapter/driven/mail"
	postgresadapter "github.com/mb3rlab/pilotdesk/internal/adapter/driven/postgres"
	sqliteadapter "github.com/mb3rlab/pilotdesk/internal/adapter/driven/sqlite"
	httphandler "github.com/mb3rlab/pilotdesk/internal/adapter/driving/http"
	webhandler "github.com/mb3rlab/pilotdesk/internal/adapter/driving/web"
	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/config"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on a missing admin password).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"postgres", cfg.UsePostgres(),
		"db_path", cfg.DBPath,
		"default_lang", cfg.DefaultLang,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open storage and run migrations.
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// 4. Wire services.
	verifier, err := application.NewPasswordVerifier(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return err
	}
	mailer := mail.New(mail.Settings{
		From:           cfg.MailFrom,
		MailgunAPIKey:  cfg.MailgunAPIKey,
		MailgunDomain:  cfg.MailgunDomain,
		MailgunBaseURL: cfg.MailgunBaseURL,
		OutboxDir:      cfg.MailOutboxDir,
	}, slog.Default())

	intakeSvc := application.NewIntakeService(store, mailer, slog.Default())
	adminSvc := application.NewAdminService(store, verifier)

	// 5. Register API and HTML routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(intakeSvc, adminSvc, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(intakeSvc, adminSvc, slog.Default()))

	handler := httphandler.ApplyMiddleware(mux, slog.Default(), httphandler.MiddlewareOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultLang:    cfg.DefaultLang,
	})

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

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 7. Let confirmation emails already queued finish.
	intakeSvc.Wait()

	slog.Info("shutdown complete")
	return nil
}

// openStore opens PostgreSQL when a database URL is configured and SQLite
// otherwise, and brings the schema up to date.
func openStore(ctx context.Context, cfg *config.Config) (driven.SubmissionStore, io.Closer, error) {
	if cfg.UsePostgres() {
		db, err := postgresadapter.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgresadapter.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		slog.Info("postgres ready")
		return postgresadapter.NewSubmissionRepo(db), db, nil
	}

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	slog.Info("sqlite ready", "path", db.Path())
	return sqliteadapter.NewSubmissionRepo(db), db, nil
}
