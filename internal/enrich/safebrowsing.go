package enrich

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	safebrowsing "google.golang.org/api/safebrowsing/v4"
)

// SafeBrowsingReputation answers URL reputation through the Google Safe
// Browsing v4 threatMatches endpoint. No match means Clean; only an API
// failure surfaces as an error (which the caller degrades to no signal).
type SafeBrowsingReputation struct {
	svc *safebrowsing.Service
}

// NewSafeBrowsingReputation builds the collaborator with an API key.
func NewSafeBrowsingReputation(ctx context.Context, apiKey string) (*SafeBrowsingReputation, error) {
	svc, err := safebrowsing.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("safebrowsing service: %w", err)
	}
	return &SafeBrowsingReputation{svc: svc}, nil
}

// Check implements URLReputation.
func (s *SafeBrowsingReputation) Check(ctx context.Context, rawURL string) (Verdict, error) {
	req := &safebrowsing.GoogleSecuritySafebrowsingV4FindThreatMatchesRequest{
		Client: &safebrowsing.GoogleSecuritySafebrowsingV4ClientInfo{
			ClientId:      "phishguard",
			ClientVersion: "1.0",
		},
		ThreatInfo: &safebrowsing.GoogleSecuritySafebrowsingV4ThreatInfo{
			ThreatTypes:      []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"},
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries: []*safebrowsing.GoogleSecuritySafebrowsingV4ThreatEntry{
				{Url: rawURL},
			},
		},
	}
	resp, err := s.svc.ThreatMatches.Find(req).Context(ctx).Do()
	if err != nil {
		return VerdictUnknown, err
	}
	if len(resp.Matches) > 0 {
		return VerdictMalicious, nil
	}
	return VerdictClean, nil
}
