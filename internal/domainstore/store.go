// Package domainstore loads known-good domains from a sqlite database so
// the protected-brand list can be extended without editing the model file.
package domainstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/glebarez/sqlite" // pure Go, no cgo needed
	"golang.org/x/net/idna"
)

// Store wraps the known-domains database.
type Store struct {
	db *sql.DB
}

// Open opens the sqlite file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open domain db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Domains returns every known domain, lowercased, for merging into the
// protected list.
func (s *Store) Domains(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT domain FROM websites`)
	if err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, strings.ToLower(d))
	}
	return out, rows.Err()
}

// Known reports whether the domain (IDN-normalized, lowercased) has an
// exact entry in the database.
func (s *Store) Known(ctx context.Context, domain string) (bool, error) {
	ascii, err := idna.Lookup.ToASCII(strings.ToLower(domain))
	if err != nil {
		ascii = strings.ToLower(domain)
	}
	var cnt int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(domain) FROM websites WHERE domain = ?`, ascii).Scan(&cnt)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
