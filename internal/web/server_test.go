package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"phishguard/internal/analyze"
	"phishguard/internal/scoring"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine, err := analyze.New(scoring.Default(), nil)
	if err != nil {
		t.Fatalf("engine init: %v", err)
	}
	return httptest.NewServer(New(engine).Routes())
}

func TestAnalyzePost(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	body := `{"html_content": "<body><a href=\"https://bit.ly/x\">go</a></body>"}`
	resp, err := http.Post(ts.URL+"/phishing", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		RiskScore float64         `json:"risk_score"`
		RiskLevel string          `json:"risk_level"`
		Details   *scoring.Report `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RiskScore <= 0 {
		t.Errorf("risk_score = %v, want > 0", out.RiskScore)
	}
	if out.RiskLevel == "" {
		t.Error("risk_level missing")
	}
	if out.Details == nil || len(out.Details.Findings) == 0 {
		t.Error("details missing findings")
	}
}

func TestAnalyzePostMissingContent(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	for _, body := range []string{`{}`, `{"html_content": ""}`, `{"html_content": "   "}`} {
		resp, err := http.Post(ts.URL+"/phishing", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestAnalyzePostBadJSON(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/phishing", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var out struct {
		Error      string `json:"error"`
		StatusCode int    `json:"status_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error == "" || out.StatusCode != http.StatusBadRequest {
		t.Errorf("error envelope = %+v", out)
	}
}

func TestAnalyzeGet(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	q := url.Values{"html_content": {`<body>acil acil</body>`}}
	resp, err := http.Get(ts.URL + "/phishing?" + q.Encode())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		RiskScore float64 `json:"risk_score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RiskScore != 1 {
		t.Errorf("risk_score = %v, want 1 (two keyword hits)", out.RiskScore)
	}
}

func TestAnalyzeGetMissingContent(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/phishing")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
