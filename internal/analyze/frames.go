package analyze

import (
	"strings"

	"phishguard/internal/markup"
	"phishguard/internal/scoring"
)

// extractIframes flags iframes fetching external content that does not
// reference any protected domain.
func extractIframes(doc *markup.Document, model *scoring.Model) []scoring.Finding {
	var out []scoring.Finding
	for _, frame := range doc.FindAll("iframe") {
		src, ok := markup.Attr(frame, "src")
		if !ok || !strings.Contains(src, "http") {
			continue
		}
		if referencesProtected(src, model.ProtectedDomains) {
			continue
		}
		out = append(out, scoring.Finding{
			Kind:     scoring.SuspiciousIframe,
			Weight:   model.Weight(scoring.SuspiciousIframe),
			Evidence: map[string]string{"src": src},
			Reason:   "iframe embeds content from an unrecognized external source",
		})
	}
	return out
}

// extractScripts flags inline scripts exfiltrating to external hosts and,
// as a stronger signal, scripts that decode base64 payloads for execution.
func extractScripts(doc *markup.Document, model *scoring.Model) []scoring.Finding {
	var out []scoring.Finding
	for _, script := range doc.FindAll("script") {
		text := markup.Text(script)
		if text == "" {
			continue
		}
		if strings.Contains(text, "fetch") && strings.Contains(text, "http") &&
			!referencesProtected(text, model.ProtectedDomains) {
			out = append(out, scoring.Finding{
				Kind:     scoring.SuspiciousScriptFetch,
				Weight:   model.Weight(scoring.SuspiciousScriptFetch),
				Evidence: map[string]string{"script": truncate(text, 120)},
				Reason:   "inline script sends data to an external host",
			})
		}
		if strings.Contains(text, "atob(") && strings.Contains(text, "eval(") {
			out = append(out, scoring.Finding{
				Kind:     scoring.SuspiciousScriptEval,
				Weight:   model.Weight(scoring.SuspiciousScriptEval),
				Evidence: map[string]string{"script": truncate(text, 120)},
				Reason:   "inline script decodes and executes a base64 payload",
			})
		}
	}
	return out
}

func referencesProtected(s string, protected []string) bool {
	lower := strings.ToLower(s)
	for _, p := range protected {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
