package analyze

import (
	"strings"

	"golang.org/x/net/html"

	"phishguard/internal/markup"
	"phishguard/internal/scoring"
)

// extractForms flags forms posting to external destinations and sensitive
// input fields. Inputs laid out in free-standing tables (a common phishing
// pattern for fake login grids) are treated the same as form inputs.
func extractForms(doc *markup.Document, model *scoring.Model) []scoring.Finding {
	var out []scoring.Finding

	for _, form := range doc.FindAll("form") {
		if action, ok := markup.Attr(form, "action"); ok && strings.Contains(action, "http") {
			out = append(out, scoring.Finding{
				Kind:     scoring.ExternalFormAction,
				Weight:   model.Weight(scoring.ExternalFormAction),
				Evidence: map[string]string{"action": action},
				Reason:   "form posts to an external destination",
			})
		}
		for _, input := range markup.FindAllWithin(form, "input") {
			if f, ok := sensitiveInput(input, model); ok {
				out = append(out, f)
			}
		}
	}

	for _, table := range doc.FindAll("table") {
		if markup.HasAncestor(table, "form") {
			continue
		}
		for _, input := range markup.FindAllWithin(table, "input") {
			if markup.HasAncestor(input, "form") {
				continue
			}
			if f, ok := sensitiveInput(input, model); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

func sensitiveInput(input *html.Node, model *scoring.Model) (scoring.Finding, bool) {
	typ, _ := markup.Attr(input, "type")
	name, _ := markup.Attr(input, "name")
	typ = strings.ToLower(typ)
	name = strings.ToLower(name)
	for _, marker := range model.SensitiveInputMarkers {
		if strings.Contains(typ, marker) || strings.Contains(name, marker) {
			return scoring.Finding{
				Kind:   scoring.SensitiveInputField,
				Weight: model.Weight(scoring.SensitiveInputField),
				Evidence: map[string]string{
					"type":   typ,
					"name":   name,
					"marker": marker,
				},
				Reason: "input field collects sensitive data",
			}, true
		}
	}
	return scoring.Finding{}, false
}
