// Package web exposes the engine over HTTP: POST/GET /phishing mirroring
// the original service boundary, plus a health probe.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"phishguard/internal/analyze"
	"phishguard/internal/scoring"
)

// Server carries the handlers' dependencies.
type Server struct {
	engine *analyze.Engine
}

func New(engine *analyze.Engine) *Server {
	return &Server{engine: engine}
}

// Routes builds the router. Panics anywhere below are translated into a
// structured 500 so the service never answers with an uncaught failure.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/phishing", s.handleAnalyzePost)
	r.Get("/phishing", s.handleAnalyzeGet)
	return r
}

type analyzeRequest struct {
	HTMLContent string `json:"html_content"`
}

type analyzeResponse struct {
	RiskScore float64         `json:"risk_score"`
	RiskLevel string          `json:"risk_level"`
	Details   *scoring.Report `json:"details"`
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func (s *Server) handleAnalyzePost(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	s.analyze(w, r, req.HTMLContent)
}

func (s *Server) handleAnalyzeGet(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, r.URL.Query().Get("html_content"))
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, content string) {
	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "html_content is required")
		return
	}
	start := time.Now()
	report := s.engine.Analyze(r.Context(), content)
	slog.Info("analysis served",
		"score", report.TotalScore,
		"tier", report.Tier,
		"findings", len(report.Findings),
		"elapsed", time.Since(start))
	writeJSON(w, http.StatusOK, analyzeResponse{
		RiskScore: report.TotalScore,
		RiskLevel: string(report.Tier),
		Details:   report,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, StatusCode: status})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panic", "path", r.URL.Path, "panic", fmt.Sprint(rec))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
