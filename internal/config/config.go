// Package config reads the process configuration from the environment.
// A .env file is honored when present (loaded by the entrypoints).
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Env        string
	ListenAddr string

	// ModelPath optionally points at a JSON scoring model overriding the
	// built-in defaults.
	ModelPath string

	// DomainsDB optionally points at a sqlite database of known-good
	// domains merged into the protected list.
	DomainsDB string

	// Enrichment collaborators; an empty key disables the collaborator.
	GeminiAPIKey       string
	SafeBrowsingAPIKey string
	RDAPBaseURL        string
	OCREnabled         bool

	EnrichTimeout time.Duration
}

func Load() Config {
	return Config{
		Env:                getenv("APP_ENV", "development"),
		ListenAddr:         getenv("LISTEN_ADDR", ":8080"),
		ModelPath:          os.Getenv("MODEL_PATH"),
		DomainsDB:          os.Getenv("DOMAINS_DB"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		SafeBrowsingAPIKey: os.Getenv("SAFEBROWSING_API_KEY"),
		RDAPBaseURL:        os.Getenv("RDAP_BASE_URL"),
		OCREnabled:         getenv("OCR_ENABLED", "") == "1",
		EnrichTimeout:      getenvDuration("ENRICH_TIMEOUT", 5*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "ignoring malformed %s=%q\n", key, v)
	}
	return def
}
