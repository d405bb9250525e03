package analyze

import (
	"context"
	"fmt"
	"strings"

	"phishguard/internal/enrich"
	"phishguard/internal/markup"
	"phishguard/internal/match"
	"phishguard/internal/scoring"
)

// youngDomainYears is the registration-age cutoff below which a linked
// domain counts as suspiciously new.
const youngDomainYears = 5.0

// extractLinks scores every anchor in the document. Each link's findings
// are assembled before any of them is published, so evidence never leaks
// between unrelated elements.
func extractLinks(ctx context.Context, doc *markup.Document, model *scoring.Model, bundle *enrich.Bundle) []scoring.Finding {
	var out []scoring.Finding
	for _, a := range doc.FindAll("a") {
		href, ok := markup.Attr(a, "href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		out = append(out, scoreLink(ctx, strings.TrimSpace(href), model, bundle)...)
	}
	return out
}

func scoreLink(ctx context.Context, href string, model *scoring.Model, bundle *enrich.Bundle) []scoring.Finding {
	host := match.Host(href)
	var found []scoring.Finding

	if match.IsHomograph(href) {
		found = append(found, scoring.Finding{
			Kind:   scoring.HomographLink,
			Weight: model.Weight(scoring.HomographLink),
			Evidence: map[string]string{
				"url":  href,
				"host": host,
			},
			Reason: "link uses punycode or non-ASCII characters",
		})
		ratio := match.Similarity(host, model.ProtectedDomains)
		if match.IsSpoof(ratio) {
			found = append(found, scoring.Finding{
				Kind:   scoring.SpoofedBrandDomain,
				Weight: model.Weight(scoring.SpoofedBrandDomain),
				Evidence: map[string]string{
					"url":        href,
					"host":       host,
					"similarity": fmt.Sprintf("%.2f", ratio),
				},
				Reason: "link host imitates a protected brand domain",
			})
		}
	}

	lower := strings.ToLower(href)
	for _, shortener := range model.URLShorteners {
		if strings.Contains(lower, shortener) {
			found = append(found, scoring.Finding{
				Kind:   scoring.ShortenedURL,
				Weight: model.Weight(scoring.ShortenedURL),
				Evidence: map[string]string{
					"url":       href,
					"shortener": shortener,
				},
				Reason: "link goes through a URL shortener",
			})
			break
		}
	}

	if host != "" {
		if years, ok := bundle.AgeYears(ctx, host); ok && years < youngDomainYears {
			found = append(found, scoring.Finding{
				Kind:   scoring.YoungDomain,
				Weight: model.Weight(scoring.YoungDomain),
				Evidence: map[string]string{
					"url":       href,
					"host":      host,
					"age_years": fmt.Sprintf("%.1f", years),
				},
				Reason: "linked domain was registered recently",
			})
		}
	}

	// Reputation has no kind of its own; a malicious verdict is recorded as
	// evidence on whatever the heuristics already flagged. Links that raised
	// nothing skip the lookup entirely.
	if len(found) > 0 {
		if verdict, ok := bundle.CheckReputation(ctx, href); ok && verdict == enrich.VerdictMalicious {
			for i := range found {
				found[i].Evidence["reputation"] = string(verdict)
			}
		}
	}
	return found
}
