package analyze

import (
	"context"
	"fmt"

	"phishguard/internal/enrich"
	"phishguard/internal/markup"
	"phishguard/internal/match"
	"phishguard/internal/scoring"
)

// classifierBands splits [0,1] into five non-overlapping confidence bands.
// Band weight grows monotonically: Weights[ClassifierConfidenceBand] is the
// width-one step, band n scores (n+1) steps.
var classifierBands = [5]float64{0.2, 0.4, 0.6, 0.8, 1.0}

// extractBody runs the lexical matchers over the body text and, when a
// classifier is configured, converts its confidence into a banded finding.
// plainText is the html2text rendering of the whole document and is what
// the classifier sees; the keyword and pattern scans use the tree's own
// body text.
func extractBody(ctx context.Context, doc *markup.Document, model *scoring.Model, bundle *enrich.Bundle, plainText string) []scoring.Finding {
	body := doc.Body()
	text := markup.Text(body)
	var out []scoring.Finding

	for _, hit := range match.FindThreatWords(text, model.ThreatKeywords) {
		out = append(out, scoring.Finding{
			Kind:   scoring.ThreatKeyword,
			Weight: model.Weight(scoring.ThreatKeyword),
			Evidence: map[string]string{
				"token":   hit.Token,
				"keyword": hit.Keyword,
			},
			Reason: "body text contains a threat keyword",
		})
	}

	for _, hit := range match.FindSensitivePatterns(text) {
		out = append(out, scoring.Finding{
			Kind:   scoring.SensitiveDataPattern,
			Weight: model.Weight(scoring.SensitiveDataPattern),
			Evidence: map[string]string{
				"pattern": hit.Name,
				"match":   hit.Match,
			},
			Reason: "body text carries structured sensitive data",
		})
	}

	if plainText == "" {
		plainText = text
	}
	if plainText != "" {
		if conf, ok := bundle.ClassifyText(ctx, plainText); ok {
			band := confidenceBand(conf)
			out = append(out, scoring.Finding{
				Kind:   scoring.ClassifierConfidenceBand,
				Weight: model.Weight(scoring.ClassifierConfidenceBand) * float64(band+1),
				Evidence: map[string]string{
					"confidence": fmt.Sprintf("%.2f", conf),
					"band":       fmt.Sprintf("%d", band),
				},
				Reason: "text classifier confidence",
			})
		}
	}
	return out
}

func confidenceBand(conf float64) int {
	for i, upper := range classifierBands {
		if conf < upper || i == len(classifierBands)-1 {
			return i
		}
	}
	return len(classifierBands) - 1
}
