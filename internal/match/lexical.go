package match

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// KeywordHit records one token that matched a threat keyword.
type KeywordHit struct {
	Token   string
	Keyword string
}

// FindThreatWords tokenizes text on whitespace and reports every token
// containing a threat keyword as a substring. Matching is case-sensitive to
// preserve locale casing (Turkish dotted/dotless i does not fold safely).
// One hit is reported per matching token, so repeated keywords compound.
func FindThreatWords(text string, keywords []string) []KeywordHit {
	var hits []KeywordHit
	for _, token := range strings.Fields(text) {
		for _, kw := range keywords {
			if strings.Contains(token, kw) {
				hits = append(hits, KeywordHit{Token: token, Keyword: kw})
				break
			}
		}
	}
	return hits
}

// PatternHit records the first match of one sensitive-data pattern.
type PatternHit struct {
	Name  string
	Match string
}

var sensitivePatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"long_digit_run", regexp.MustCompile(`\b\d{10,}\b`)},
	{"email_address", regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)},
	{"intl_phone", regexp.MustCompile(`\+\d{10,}`)},
	{"iban", regexp.MustCompile(`(?i)\b(IBAN|TR\d{2})\d{16}\b`)},
}

// FindSensitivePatterns tests text for structured sensitive data: a long
// digit run, an email address shape, an international phone shape and an
// IBAN-like shape. Each pattern contributes at most one hit no matter how
// often it occurs.
func FindSensitivePatterns(text string) []PatternHit {
	var hits []PatternHit
	for _, p := range sensitivePatterns {
		m := p.re.FindString(text)
		if m == "" {
			continue
		}
		hit := PatternHit{Name: p.name, Match: m}
		if p.name == "intl_phone" {
			if region := phoneRegion(m); region != "" {
				hit.Match = m + " (" + region + ")"
			}
		}
		hits = append(hits, hit)
	}
	return hits
}

// phoneRegion annotates an international phone match with its region code
// when the number actually parses; the shape match stands either way.
func phoneRegion(candidate string) string {
	num, err := phonenumbers.Parse(candidate, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}
