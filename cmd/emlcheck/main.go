// emlcheck analyzes a saved .eml file: it scores the HTML body with the
// engine and checks the sender domain against the protected list (and the
// optional known-domains database).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"phishguard/internal/analyze"
	"phishguard/internal/config"
	"phishguard/internal/domainstore"
	"phishguard/internal/eml"
	"phishguard/internal/enrich"
	"phishguard/internal/logging"
	"phishguard/internal/match"
	"phishguard/internal/scoring"
)

func main() {
	_ = godotenv.Load()
	logging.Init("emlcheck")

	path := flag.String("file", "test.eml", "path to the .eml file")
	flag.Parse()

	if err := run(*path); err != nil {
		slog.Error("emlcheck failed", "err", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg := config.Load()
	ctx := context.Background()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	msg, err := eml.Read(f)
	if err != nil {
		return err
	}

	model := scoring.Default()
	if cfg.ModelPath != "" {
		if model, err = scoring.LoadFile(cfg.ModelPath); err != nil {
			return err
		}
	}
	engine, err := analyze.New(model, &enrich.Bundle{Timeout: cfg.EnrichTimeout})
	if err != nil {
		return err
	}

	fmt.Printf("Subject: %s\nFrom:    %s (domain %s)\n", msg.Subject, msg.From, msg.Domain)
	checkSender(ctx, cfg, model, msg.Domain)

	for _, att := range msg.Attachments {
		if att.Executable {
			fmt.Printf("WARNING: executable attachment %q (%s)\n", att.FileName, att.ContentType)
		}
	}

	content := msg.HTML
	if content == "" {
		content = msg.Text
	}
	report := engine.Analyze(ctx, content)
	fmt.Printf("\nRisk score: %.2f\nRisk level: %s\n", report.TotalScore, report.Tier)
	for _, finding := range report.Findings {
		fmt.Printf("  - [%s] %s (weight %.2f)\n", finding.Kind, finding.Reason, finding.Weight)
	}
	return nil
}

// checkSender mirrors the domain check done for links: exact match against
// the known-domain store wins, otherwise a look-alike in the protected list
// is called out.
func checkSender(ctx context.Context, cfg config.Config, model *scoring.Model, domain string) {
	if domain == "" {
		fmt.Println("Sender domain could not be parsed")
		return
	}
	if cfg.DomainsDB != "" {
		store, err := domainstore.Open(cfg.DomainsDB)
		if err == nil {
			defer func() { _ = store.Close() }()
			if known, err := store.Known(ctx, domain); err == nil && known {
				fmt.Println("Sender domain is in the known database")
				return
			}
		} else {
			slog.Warn("domain store unavailable", "err", err)
		}
	}
	ratio := match.Similarity(domain, model.ProtectedDomains)
	switch {
	case ratio == 1.0:
		fmt.Println("Sender domain matches a protected brand exactly")
	case match.IsSpoof(ratio):
		fmt.Printf("Sender domain resembles a protected brand (similarity %.2f), possible impersonation\n", ratio)
	default:
		fmt.Println("Sender domain shows no similarity to protected brands")
	}
}
