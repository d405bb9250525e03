package analyze

import (
	"context"
	"regexp"
	"strings"

	"phishguard/internal/enrich"
	"phishguard/internal/markup"
	"phishguard/internal/match"
	"phishguard/internal/scoring"
)

var base64ImageRe = regexp.MustCompile(`^data:image/.+;base64,`)

// extractImages flags inline base64 images and suspicious captions, and
// optionally OCRs externally hosted images for threat keywords. OCR failure
// or absence only silences that signal; the rest of the image checks stand.
func extractImages(ctx context.Context, doc *markup.Document, model *scoring.Model, bundle *enrich.Bundle) []scoring.Finding {
	var out []scoring.Finding
	for _, img := range doc.FindAll("img") {
		src, _ := markup.Attr(img, "src")
		src = strings.TrimSpace(src)

		if base64ImageRe.MatchString(src) {
			out = append(out, scoring.Finding{
				Kind:     scoring.Base64Image,
				Weight:   model.Weight(scoring.Base64Image),
				Evidence: map[string]string{"src": truncate(src, 64)},
				Reason:   "image is embedded as a base64 data URI",
			})
		}

		alt, _ := markup.Attr(img, "alt")
		altLower := strings.ToLower(alt)
		if altLower != "" {
			if kw, hit := captionHit(altLower, model.ThreatKeywords); hit {
				out = append(out, scoring.Finding{
					Kind:   scoring.SuspiciousImageCaption,
					Weight: model.Weight(scoring.SuspiciousImageCaption),
					Evidence: map[string]string{
						"alt":     alt,
						"matched": kw,
					},
					Reason: "image caption hints at a scan prompt or threat wording",
				})
			}
		}

		if ocrCandidate(src, model) {
			if text, ok := bundle.ExtractImageText(ctx, src); ok {
				for _, hit := range match.FindThreatWords(text, model.ThreatKeywords) {
					out = append(out, scoring.Finding{
						Kind:   scoring.OcrThreatKeyword,
						Weight: model.Weight(scoring.OcrThreatKeyword),
						Evidence: map[string]string{
							"src":     src,
							"token":   hit.Token,
							"keyword": hit.Keyword,
						},
						Reason: "text inside the image contains a threat keyword",
					})
				}
			}
		}
	}
	return out
}

// captionHit matches the scan/QR hint or any threat keyword in alt text.
func captionHit(altLower string, keywords []string) (string, bool) {
	if strings.Contains(altLower, "scan") {
		return "scan", true
	}
	for _, kw := range keywords {
		if strings.Contains(altLower, kw) {
			return kw, true
		}
	}
	return "", false
}

// ocrCandidate limits OCR to http(s) images that are shortened or hosted
// away from every protected domain. Data URIs are already scored as
// Base64Image and are never fetched.
func ocrCandidate(src string, model *scoring.Model) bool {
	if !strings.HasPrefix(src, "http") {
		return false
	}
	lower := strings.ToLower(src)
	for _, shortener := range model.URLShorteners {
		if strings.Contains(lower, shortener) {
			return true
		}
	}
	for _, protected := range model.ProtectedDomains {
		if strings.Contains(lower, protected) {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
