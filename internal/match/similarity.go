// Package match holds the string-level detectors: brand look-alike scoring,
// punycode/homograph checks and the lexical threat matcher.
package match

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/net/idna"
)

// SpoofThreshold is the inclusive lower bound of the look-alike band.
// Exact matches (ratio 1.0) are legitimate and sit outside the band.
const SpoofThreshold = 0.60

// Ratio computes a normalized edit-distance similarity in [0,1], where 1.0
// means identical. Distance is normalized by the longer string's length.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 1.0
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return 1.0 - float64(d)/float64(longer)
}

// Similarity scores a domain against every protected brand pattern and
// returns the maximum ratio. The domain's Unicode form and each of its
// labels are all candidates, so "ápple.com" scores against "apple" by its
// first label rather than being diluted by the TLD.
func Similarity(domain string, protected []string) float64 {
	best := 0.0
	for _, cand := range candidates(domain) {
		for _, p := range protected {
			if r := Ratio(cand, p); r > best {
				best = r
			}
		}
	}
	return best
}

// IsSpoof reports whether the similarity ratio falls in the look-alike
// band [SpoofThreshold, 1.0). Identical domains are not spoofs.
func IsSpoof(ratio float64) bool {
	return ratio >= SpoofThreshold && ratio < 1.0
}

// IsHomograph reports whether a URL looks like a punycode/homograph spoof:
// either the raw URL carries characters outside printable ASCII anywhere,
// or its host converts to an ASCII-compatible form starting with "xn--".
// Both checks are OR'd since look-alike characters may hide in any part of
// the URL, not only the host. Unencodable hosts are treated as not
// homographs; the anomaly is logged and the analysis carries on.
func IsHomograph(rawURL string) bool {
	for _, r := range rawURL {
		if r < 0x20 || r > 0x7e {
			return true
		}
	}
	host := Host(rawURL)
	if host == "" {
		return false
	}
	ascii, err := idna.Lookup.ToASCII(strings.ToLower(host))
	if err != nil {
		slog.Debug("host not idna-encodable", "host", host, "err", err)
		return false
	}
	return strings.HasPrefix(ascii, "xn--")
}

// Host extracts the hostname of a URL, tolerating scheme-less input.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	if u.Hostname() == "" && !strings.Contains(rawURL, "://") {
		// "example.com/path" parses as a relative path; retry with a scheme.
		if u2, err2 := url.Parse("http://" + strings.TrimSpace(rawURL)); err2 == nil {
			return u2.Hostname()
		}
	}
	return u.Hostname()
}

// candidates lists the comparable forms of a domain: the host as given,
// its Unicode (IDN-decoded) form and the individual labels of both.
func candidates(domain string) []string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(domain)
	uni := domain
	if u, err := idna.Lookup.ToUnicode(domain); err == nil && u != "" {
		uni = u
		add(u)
	}
	for _, form := range []string{domain, uni} {
		for _, label := range strings.Split(form, ".") {
			add(label)
		}
	}
	return out
}
