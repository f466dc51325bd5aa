package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/legitsystems/askari-relay/internal/adapter/driven/gemini"
	"github.com/legitsystems/askari-relay/internal/adapter/driven/guardtour"
	sqliteadapter "github.com/legitsystems/askari-relay/internal/adapter/driven/sqlite"
	"github.com/legitsystems/askari-relay/internal/adapter/driven/tokenfile"
	httphandler "github.com/legitsystems/askari-relay/internal/adapter/driving/http"
	"github.com/legitsystems/askari-relay/internal/application"
	"github.com/legitsystems/askari-relay/internal/config"
	"github.com/legitsystems/askari-relay/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing credentials).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"api_url", cfg.APIBaseURL,
		"nlu", cfg.NLUMode,
		"token_store", cfg.TokenStore,
		"static_token", cfg.HasStaticToken(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Build the guard-tour client. A static token skips the token store
	// entirely; otherwise the store backs the sign-in-and-refresh flow.
	var client *guardtour.Client
	if cfg.HasStaticToken() {
		client = guardtour.NewStaticClient(cfg.APIBaseURL, cfg.AuthToken, cfg.HTTPTimeout)
	} else {
		store, closeStore, err := newTokenStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		client = guardtour.NewRefreshClient(cfg.APIBaseURL, cfg.Username, cfg.Password, store, cfg.HTTPTimeout)
	}

	// 4. Pick the intent classifier.
	var classifier driven.Classifier
	switch cfg.NLUMode {
	case config.NLUGemini:
		if cfg.GeminiAPIURL != "" {
			classifier = gemini.NewClassifierWithURL(cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.HTTPTimeout)
		} else {
			classifier = gemini.NewClassifier(cfg.GeminiAPIKey, cfg.HTTPTimeout)
		}
	default:
		classifier = application.NewPatternClassifier()
	}

	// 5. Wire application services and HTTP handler.
	reports := application.NewReportService(client, slog.Default())
	messages := application.NewMessageService(classifier, reports, slog.Default())

	handler := httphandler.NewHandler(messages, reports, slog.Default())
	mux := httphandler.NewServeMux(handler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 6. Probe the upstream service once at startup. Failure is logged, not
	// fatal; the service keeps answering with its fixed error replies.
	probeCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	status := reports.TestConnection(probeCtx)
	cancel()
	if status.Success {
		slog.Info("guard-tour api reachable", "message", status.Message)
	} else {
		slog.Warn("guard-tour api unreachable", "message", status.Message)
	}

	slog.Info("askari-relay started", "listen_addr", cfg.ListenAddr)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newTokenStore builds the configured TokenStore backend plus a cleanup
// function for resources it holds open.
func newTokenStore(cfg *config.Config) (driven.TokenStore, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreSQLite:
		db, err := sqliteadapter.NewDB(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		slog.Info("token database ready", "path", cfg.DBPath)
		closeDB := func() {
			if err := db.Close(); err != nil {
				slog.Error("error closing token database", "error", err)
			}
		}
		return sqliteadapter.NewTokenRepo(db), closeDB, nil
	default:
		store, err := tokenfile.New(cfg.TokenFile)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("token file ready", "path", cfg.TokenFile)
		return store, func() {}, nil
	}
}
