package domainstore

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.db.Exec(`CREATE TABLE websites (domain TEXT NOT NULL)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, d := range []string{"apple.com", "Garanti.com.tr", "amazon.com"} {
		if _, err := s.db.Exec(`INSERT INTO websites (domain) VALUES (?)`, d); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return s
}

func TestDomains(t *testing.T) {
	s := newTestStore(t)
	domains, err := s.Domains(context.Background())
	if err != nil {
		t.Fatalf("Domains: %v", err)
	}
	if len(domains) != 3 {
		t.Fatalf("domains = %d, want 3", len(domains))
	}
	for _, d := range domains {
		if d != "apple.com" && d != "garanti.com.tr" && d != "amazon.com" {
			t.Errorf("unexpected domain %q (should be lowercased)", d)
		}
	}
}

func TestKnown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	known, err := s.Known(ctx, "apple.com")
	if err != nil || !known {
		t.Errorf("Known(apple.com) = %v, %v; want true", known, err)
	}
	known, err = s.Known(ctx, "APPLE.COM")
	if err != nil || !known {
		t.Errorf("Known(APPLE.COM) = %v, %v; want true (case folds)", known, err)
	}
	known, err = s.Known(ctx, "evil.example.net")
	if err != nil || known {
		t.Errorf("Known(evil.example.net) = %v, %v; want false", known, err)
	}
}
