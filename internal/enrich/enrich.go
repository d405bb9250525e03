// Package enrich defines the optional external lookups the engine may
// consult (domain age, URL reputation, image OCR, text classification) and
// the call-site discipline around them: every lookup runs under a short
// timeout and any failure degrades to "no signal".
package enrich

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a single collaborator call.
const DefaultTimeout = 5 * time.Second

// Verdict is a URL-reputation answer.
type Verdict string

const (
	VerdictMalicious Verdict = "malicious"
	VerdictClean     Verdict = "clean"
	VerdictUnknown   Verdict = "unknown"
)

// DomainAger looks up how many years ago a domain was registered.
type DomainAger interface {
	AgeYears(ctx context.Context, domain string) (float64, error)
}

// URLReputation answers whether a URL is known bad.
type URLReputation interface {
	Check(ctx context.Context, rawURL string) (Verdict, error)
}

// ImageTextExtractor OCRs a remotely hosted image.
type ImageTextExtractor interface {
	ExtractText(ctx context.Context, imageURL string) (string, error)
}

// TextClassifier maps free text to a phishing confidence in [0,1].
type TextClassifier interface {
	Confidence(ctx context.Context, text string) (float64, error)
}

// Bundle is the capability set handed to the engine. Any member may be nil,
// which disables the corresponding signal without error.
type Bundle struct {
	DomainAge  DomainAger
	Reputation URLReputation
	OCR        ImageTextExtractor
	Classifier TextClassifier

	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

func (b *Bundle) timeout() time.Duration {
	if b != nil && b.Timeout > 0 {
		return b.Timeout
	}
	return DefaultTimeout
}

// AgeYears runs the domain-age lookup under the bundle timeout. The second
// return is false when the collaborator is absent, errored or timed out;
// the caller simply skips the signal. Lookups are never retried.
func (b *Bundle) AgeYears(ctx context.Context, domain string) (float64, bool) {
	if b == nil || b.DomainAge == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	years, err := b.DomainAge.AgeYears(ctx, domain)
	if err != nil {
		slog.Debug("domain age lookup skipped", "domain", domain, "err", err)
		return 0, false
	}
	return years, true
}

// CheckReputation runs the URL-reputation lookup under the bundle timeout.
func (b *Bundle) CheckReputation(ctx context.Context, rawURL string) (Verdict, bool) {
	if b == nil || b.Reputation == nil {
		return VerdictUnknown, false
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	v, err := b.Reputation.Check(ctx, rawURL)
	if err != nil {
		slog.Debug("url reputation lookup skipped", "url", rawURL, "err", err)
		return VerdictUnknown, false
	}
	return v, true
}

// ExtractImageText runs OCR under the bundle timeout.
func (b *Bundle) ExtractImageText(ctx context.Context, imageURL string) (string, bool) {
	if b == nil || b.OCR == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	text, err := b.OCR.ExtractText(ctx, imageURL)
	if err != nil {
		slog.Debug("image ocr skipped", "url", imageURL, "err", err)
		return "", false
	}
	return text, true
}

// ClassifyText runs the text classifier under the bundle timeout.
func (b *Bundle) ClassifyText(ctx context.Context, text string) (float64, bool) {
	if b == nil || b.Classifier == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()
	conf, err := b.Classifier.Confidence(ctx, text)
	if err != nil || conf < 0 || conf > 1 {
		slog.Debug("text classification skipped", "err", err, "confidence", conf)
		return 0, false
	}
	return conf, true
}
