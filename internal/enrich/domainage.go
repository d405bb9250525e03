package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// RDAPDomainAger resolves domain registration age through an RDAP endpoint
// (the structured successor to WHOIS). Results are memoized in a bounded
// TTL cache so repeated links to the same domain cost one lookup.
type RDAPDomainAger struct {
	BaseURL string
	Client  *http.Client

	cache *TTLCache[float64]
	now   func() time.Time
}

// NewRDAPDomainAger builds an ager against baseURL (default rdap.org).
func NewRDAPDomainAger(baseURL string) *RDAPDomainAger {
	if baseURL == "" {
		baseURL = "https://rdap.org"
	}
	return &RDAPDomainAger{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: DefaultTimeout},
		cache:   NewTTLCache[float64](4096, 12*time.Hour),
		now:     time.Now,
	}
}

type rdapResponse struct {
	Events []struct {
		EventAction string `json:"eventAction"`
		EventDate   string `json:"eventDate"`
	} `json:"events"`
}

var errNoRegistrationDate = errors.New("no registration event in rdap response")

// AgeYears implements DomainAger.
func (a *RDAPDomainAger) AgeYears(ctx context.Context, domain string) (float64, error) {
	ascii, err := idna.Lookup.ToASCII(strings.ToLower(strings.TrimSpace(domain)))
	if err != nil {
		ascii = strings.ToLower(strings.TrimSpace(domain))
	}
	if ascii == "" {
		return 0, errors.New("empty domain")
	}
	if years, ok := a.cache.Get(ascii); ok {
		return years, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.BaseURL+"/domain/"+url.PathEscape(ascii), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/rdap+json")
	resp, err := a.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rdap lookup for %s: status %d", ascii, resp.StatusCode)
	}

	var body rdapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	for _, ev := range body.Events {
		if ev.EventAction != "registration" {
			continue
		}
		created, err := time.Parse(time.RFC3339, ev.EventDate)
		if err != nil {
			continue
		}
		years := a.now().Sub(created).Hours() / 24 / 365
		a.cache.Set(ascii, years)
		return years, nil
	}
	return 0, errNoRegistrationDate
}
