package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// FindingKind identifies one category of suspicious signal.
type FindingKind string

const (
	HomographLink            FindingKind = "homograph_link"
	SpoofedBrandDomain       FindingKind = "spoofed_brand_domain"
	ShortenedURL             FindingKind = "shortened_url"
	YoungDomain              FindingKind = "young_domain"
	ExternalFormAction       FindingKind = "external_form_action"
	SensitiveInputField      FindingKind = "sensitive_input_field"
	Base64Image              FindingKind = "base64_image"
	SuspiciousImageCaption   FindingKind = "suspicious_image_caption"
	ThreatKeyword            FindingKind = "threat_keyword"
	SensitiveDataPattern     FindingKind = "sensitive_data_pattern"
	SuspiciousIframe         FindingKind = "suspicious_iframe"
	SuspiciousScriptFetch    FindingKind = "suspicious_script_fetch"
	SuspiciousScriptEval     FindingKind = "suspicious_script_eval"
	ClassifierConfidenceBand FindingKind = "classifier_confidence_band"
	OcrThreatKeyword         FindingKind = "ocr_threat_keyword"
)

// Finding is one weighted, evidence-bearing detection. Findings are built
// once by an extractor and never mutated afterwards.
type Finding struct {
	Kind     FindingKind       `json:"kind"`
	Weight   float64           `json:"weight"`
	Evidence map[string]string `json:"evidence,omitempty"`
	Reason   string            `json:"reason"`
}

// RiskTier is the discrete classification derived from the total score.
type RiskTier string

const (
	TierVeryLow  RiskTier = "very_low"
	TierMedium   RiskTier = "medium"
	TierHigh     RiskTier = "high"
	TierVeryHigh RiskTier = "very_high"
)

// rank orders tiers so callers can compare severities.
func (t RiskTier) rank() int {
	switch t {
	case TierVeryLow:
		return 0
	case TierMedium:
		return 1
	case TierHigh:
		return 2
	case TierVeryHigh:
		return 3
	}
	return -1
}

// Less reports whether t is a lower risk tier than other.
func (t RiskTier) Less(other RiskTier) bool { return t.rank() < other.rank() }

// TierThreshold maps an inclusive score upper bound to a tier. The last
// entry of a valid table has UpperBound = +Inf.
type TierThreshold struct {
	UpperBound float64  `json:"upper_bound"`
	Tier       RiskTier `json:"tier"`
}

// Report is the engine's output for one analysis call.
type Report struct {
	Findings   []Finding `json:"findings"`
	TotalScore float64   `json:"total_score"`
	Tier       RiskTier  `json:"tier"`
}

// Model is the read-only scoring configuration shared by every extractor.
// It is loaded once at startup and validated before the first request;
// malformed models are a startup failure, never a per-request one.
type Model struct {
	ThreatKeywords        []string                `json:"threat_keywords"`
	SensitiveInputMarkers []string                `json:"sensitive_input_markers"`
	ProtectedDomains      []string                `json:"protected_domains"`
	URLShorteners         []string                `json:"url_shorteners"`
	Weights               map[FindingKind]float64 `json:"weights"`
	TierThresholds        []TierThreshold         `json:"tier_thresholds"`
}

// Weight returns the configured weight for a kind, zero when absent.
func (m *Model) Weight(kind FindingKind) float64 { return m.Weights[kind] }

// Validate checks the model invariants: non-negative weights, a non-empty
// threshold table that is strictly increasing and ends at +Inf.
func (m *Model) Validate() error {
	for kind, w := range m.Weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v for %s", ErrInvalidModel, w, kind)
		}
	}
	if len(m.TierThresholds) == 0 {
		return fmt.Errorf("%w: empty tier threshold table", ErrInvalidModel)
	}
	prev := math.Inf(-1)
	for i, th := range m.TierThresholds {
		if th.UpperBound <= prev {
			return fmt.Errorf("%w: threshold %d (%v) not above previous bound (%v)",
				ErrInvalidModel, i, th.UpperBound, prev)
		}
		if th.Tier.rank() < 0 {
			return fmt.Errorf("%w: unknown tier %q", ErrInvalidModel, th.Tier)
		}
		prev = th.UpperBound
	}
	if last := m.TierThresholds[len(m.TierThresholds)-1]; !math.IsInf(last.UpperBound, 1) {
		return fmt.Errorf("%w: last threshold bound must be +Inf, got %v", ErrInvalidModel, last.UpperBound)
	}
	return nil
}

// Default returns the built-in model: the Turkish-locale lexicon and the
// brand list the heuristics were originally tuned on. Deployments override
// it with a JSON file; the values here are tunable defaults, not contracts.
func Default() *Model {
	return &Model{
		ThreatKeywords: []string{
			"doğrula", "acil", "ziyaret", "hesap", "güvenlik", "giriş",
			"şifre", "güncelle", "onayla", "hemen", "şüpheli", "uyarı",
			"emniyet", "hassas", "korunmuş", "risk", "tehlike", "acilen",
			"derhal", "tehdit", "kredi", "banka", "ödeme", "işlem",
		},
		SensitiveInputMarkers: []string{
			"şifre", "parola", "eposta", "hesap", "kredi", "kart",
			"güvenlik", "email", "password",
		},
		ProtectedDomains: []string{
			"ibankmobil", "akbanknet", "internetsubesi", "garantibankası",
			"yapikredi", "halkbankweb", "finansbank", "teb", "ziraat",
			"trendyol", "hepsiburada", "n11", "yemeksepeti", "apple",
			"amazon", "wellsfargo", "bofa", "jpmorgan", "tesla",
		},
		URLShorteners: []string{
			"bit.ly", "tinyurl.com", "goo.gl", "ow.ly", "buff.ly",
			"short.io", "bl.ink", "is.gd", "replug.io", "cutt.us",
			"rebrandly.com", "wow.link", "innkin.com", "goo.su", "t2m",
			"kisa.link", "ozurl.net", "k.link",
		},
		Weights: map[FindingKind]float64{
			HomographLink:            3,
			SpoofedBrandDomain:       3,
			ShortenedURL:             2,
			YoungDomain:              2,
			ExternalFormAction:       1,
			SensitiveInputField:      1.5,
			Base64Image:              1,
			SuspiciousImageCaption:   0.5,
			ThreatKeyword:            0.5,
			SensitiveDataPattern:     0.5,
			SuspiciousIframe:         1,
			SuspiciousScriptFetch:    1,
			SuspiciousScriptEval:     2,
			ClassifierConfidenceBand: 0.25,
			OcrThreatKeyword:         0.5,
		},
		TierThresholds: []TierThreshold{
			{UpperBound: 1, Tier: TierVeryLow},
			{UpperBound: 2.5, Tier: TierMedium},
			{UpperBound: 3.5, Tier: TierHigh},
			{UpperBound: math.Inf(1), Tier: TierVeryHigh},
		},
	}
}

// LoadFile reads a model from a JSON file and validates it. A threshold
// table omitting the final catch-all entry gets one appended so file-based
// models do not need to spell +Inf in JSON.
func LoadFile(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if n := len(m.TierThresholds); n > 0 && !math.IsInf(m.TierThresholds[n-1].UpperBound, 1) {
		m.TierThresholds = append(m.TierThresholds, TierThreshold{UpperBound: math.Inf(1), Tier: TierVeryHigh})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
