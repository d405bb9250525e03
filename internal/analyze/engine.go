// Package analyze walks a parsed document with one extractor per element
// category and aggregates their findings into a risk report.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaytaylor/html2text"

	"phishguard/internal/enrich"
	"phishguard/internal/markup"
	"phishguard/internal/scoring"
)

// Engine ties a validated scoring model to an optional enrichment bundle.
// One Engine serves any number of concurrent Analyze calls; all per-call
// state lives on the stack of the call.
type Engine struct {
	model  *scoring.Model
	bundle *enrich.Bundle
}

// New validates the model up front so a malformed configuration fails at
// startup instead of mid-request.
func New(model *scoring.Model, bundle *enrich.Bundle) (*Engine, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &Engine{model: model, bundle: bundle}, nil
}

// Analyze parses the markup, runs every extractor and aggregates their
// findings. Extractors run concurrently but their output is concatenated in
// a fixed order (links, forms, images, iframes, scripts, body) so identical
// input always yields an identically ordered report.
func (e *Engine) Analyze(ctx context.Context, raw string) *scoring.Report {
	doc := markup.Parse(raw)

	plain, err := html2text.FromString(raw, html2text.Options{OmitLinks: true})
	if err != nil {
		slog.Debug("html2text fallback to tree text", "err", err)
		plain = ""
	}

	slots := make([][]scoring.Finding, 6)
	run := func(i int, name string, fn func() []scoring.Finding) {
		// One extractor's internal failure must not abort the others;
		// it just contributes nothing.
		defer func() {
			if r := recover(); r != nil {
				slog.Error("extractor failed", "extractor", name, "panic", fmt.Sprint(r))
			}
		}()
		slots[i] = fn()
	}

	var wg sync.WaitGroup
	wg.Add(6)
	go func() { defer wg.Done(); run(0, "links", func() []scoring.Finding { return extractLinks(ctx, doc, e.model, e.bundle) }) }()
	go func() { defer wg.Done(); run(1, "forms", func() []scoring.Finding { return extractForms(doc, e.model) }) }()
	go func() { defer wg.Done(); run(2, "images", func() []scoring.Finding { return extractImages(ctx, doc, e.model, e.bundle) }) }()
	go func() { defer wg.Done(); run(3, "iframes", func() []scoring.Finding { return extractIframes(doc, e.model) }) }()
	go func() { defer wg.Done(); run(4, "scripts", func() []scoring.Finding { return extractScripts(doc, e.model) }) }()
	go func() { defer wg.Done(); run(5, "body", func() []scoring.Finding { return extractBody(ctx, doc, e.model, e.bundle, plain) }) }()
	wg.Wait()

	var findings []scoring.Finding
	for _, s := range slots {
		findings = append(findings, s...)
	}
	return scoring.Aggregate(e.model, findings)
}

// Model exposes the engine's scoring model for callers that need the
// protected-domain list (the eml CLI compares sender domains against it).
func (e *Engine) Model() *scoring.Model { return e.model }
