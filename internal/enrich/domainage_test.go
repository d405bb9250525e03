package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rdapServer(t *testing.T, created time.Time, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.Header().Set("Content-Type", "application/rdap+json")
		fmt.Fprintf(w, `{"events":[{"eventAction":"registration","eventDate":%q},{"eventAction":"expiration","eventDate":"2030-01-01T00:00:00Z"}]}`,
			created.Format(time.RFC3339))
	}))
}

func TestRDAPAgeYears(t *testing.T) {
	var hits int64
	ts := rdapServer(t, time.Now().AddDate(-3, 0, 0), &hits)
	defer ts.Close()

	ager := NewRDAPDomainAger(ts.URL)
	years, err := ager.AgeYears(context.Background(), "newish.example.net")
	if err != nil {
		t.Fatalf("AgeYears: %v", err)
	}
	if years < 2.9 || years > 3.1 {
		t.Errorf("years = %v, want ~3", years)
	}
}

func TestRDAPCachesLookups(t *testing.T) {
	var hits int64
	ts := rdapServer(t, time.Now().AddDate(-10, 0, 0), &hits)
	defer ts.Close()

	ager := NewRDAPDomainAger(ts.URL)
	for i := 0; i < 3; i++ {
		if _, err := ager.AgeYears(context.Background(), "old.example.net"); err != nil {
			t.Fatalf("AgeYears: %v", err)
		}
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("backend hits = %d, want 1 (cached)", got)
	}
}

func TestRDAPErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	ager := NewRDAPDomainAger(ts.URL)
	if _, err := ager.AgeYears(context.Background(), "missing.example.net"); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestRDAPNoRegistrationEvent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events":[]}`)
	}))
	defer ts.Close()

	ager := NewRDAPDomainAger(ts.URL)
	if _, err := ager.AgeYears(context.Background(), "odd.example.net"); err == nil {
		t.Error("expected error when registration event is absent")
	}
}
