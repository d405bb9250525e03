package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"phishguard/internal/analyze"
	"phishguard/internal/config"
	"phishguard/internal/domainstore"
	"phishguard/internal/enrich"
	"phishguard/internal/logging"
	"phishguard/internal/scoring"
	"phishguard/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found", "err", err)
	}
	logging.Init("phishguard")
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, err := loadModel(ctx, cfg)
	if err != nil {
		slog.Error("model load failed", "err", err)
		os.Exit(1)
	}

	engine, err := analyze.New(model, buildBundle(ctx, cfg))
	if err != nil {
		slog.Error("engine init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           web.New(engine).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

// loadModel builds the scoring model from the configured JSON file (or the
// built-in defaults) and merges in domains from the optional sqlite store.
func loadModel(ctx context.Context, cfg config.Config) (*scoring.Model, error) {
	model := scoring.Default()
	if cfg.ModelPath != "" {
		loaded, err := scoring.LoadFile(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		model = loaded
	}
	if cfg.DomainsDB != "" {
		store, err := domainstore.Open(cfg.DomainsDB)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		domains, err := store.Domains(ctx)
		if err != nil {
			return nil, err
		}
		model.ProtectedDomains = append(model.ProtectedDomains, domains...)
		slog.Info("protected domains merged from store", "count", len(domains))
	}
	return model, model.Validate()
}

// buildBundle wires whichever enrichment collaborators the environment has
// credentials for; the rest stay nil and their signals are skipped.
func buildBundle(ctx context.Context, cfg config.Config) *enrich.Bundle {
	bundle := &enrich.Bundle{
		DomainAge: enrich.NewRDAPDomainAger(cfg.RDAPBaseURL),
		Timeout:   cfg.EnrichTimeout,
	}
	if cfg.SafeBrowsingAPIKey != "" {
		rep, err := enrich.NewSafeBrowsingReputation(ctx, cfg.SafeBrowsingAPIKey)
		if err != nil {
			slog.Warn("safe browsing disabled", "err", err)
		} else {
			bundle.Reputation = rep
		}
	}
	if cfg.OCREnabled {
		bundle.OCR = enrich.NewTesseractOCR()
	}
	if cfg.GeminiAPIKey != "" {
		cls, err := enrich.NewGeminiClassifier(ctx, cfg.GeminiAPIKey)
		if err != nil {
			slog.Warn("gemini classifier disabled", "err", err)
		} else {
			bundle.Classifier = cls
		}
	}
	return bundle
}
