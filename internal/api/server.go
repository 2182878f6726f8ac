// Package api serves the evaluators over HTTP.
// Scoring endpoints are public and rate limited per IP.
// The purge endpoint requires a bearer token (admin control plane).
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/wellbeing/internal/desire"
	"github.com/talgya/wellbeing/internal/experience"
	"github.com/talgya/wellbeing/internal/needs"
	"github.com/talgya/wellbeing/internal/persistence"
)

const maxBodyBytes = 1 << 20

// Server serves the evaluators over HTTP.
type Server struct {
	DB          *persistence.DB // Optional. Nil = verdicts are not journaled.
	Port        int
	AdminKey    string   // Bearer token for admin endpoints. Empty = admin disabled.
	CORSOrigins []string // Extra allowed origins on top of localhost dev servers.
	RateLimit   int      // Scoring requests per IP per hour.

	once    sync.Once
	handler http.Handler
	limiter *RateLimiter
	srv     *http.Server
}

// Handler returns the routed handler, building it on first use.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() { s.handler = s.routes() })
	return s.handler
}

func (s *Server) routes() http.Handler {
	rate := s.RateLimit
	if rate <= 0 {
		rate = 120
	}
	s.limiter = NewRateLimiter(rate, time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/needs", s.handleNeeds)
	mux.HandleFunc("POST /api/v1/needs/validate", s.handleValidateNeeds)
	mux.HandleFunc("POST /api/v1/wellbeing", RateLimitMiddleware(s.limiter, s.handleWellBeing))
	mux.HandleFunc("POST /api/v1/desire", RateLimitMiddleware(s.limiter, s.handleDesire))
	mux.HandleFunc("POST /api/v1/desires", RateLimitMiddleware(s.limiter, s.handleDesires))
	mux.HandleFunc("GET /api/v1/verdicts", s.handleVerdicts)
	mux.HandleFunc("GET /api/v1/verdicts/{id}", s.handleVerdict)

	mux.HandleFunc("POST /api/v1/verdicts/purge", s.adminOnly(s.handlePurge))

	return corsMiddleware(s.CORSOrigins, mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "journal", s.DB != nil)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Close stops the listener and the rate limiter.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(extra []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range extra {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no WELLBEING_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":        "wellbeing",
		"limit":       experience.Limit,
		"basic_needs": needs.Basic,
		"journal":     s.DB != nil,
	}
	if s.DB != nil {
		counts, err := s.DB.Counts()
		if err != nil {
			slog.Error("journal counts failed", "error", err)
		} else {
			status["verdicts"] = counts
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleNeeds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"basic_needs": needs.Basic,
		"default":     needs.Default(),
		"min":         needs.MinSatisfaction,
		"max":         needs.MaxSatisfaction,
	})
}

func (s *Server) handleValidateNeeds(w http.ResponseWriter, r *http.Request) {
	var m needs.Mapping
	if err := decodeBody(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	valid, err := needs.Validate(m)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"needs":        valid,
		"priority":     valid.Priority(),
		"satisfaction": valid.OverallSatisfaction(),
	})
}

// wellBeingRequest carries either raw magnitudes, clamped through
// experience.New, or a ready experience scored as is.
type wellBeingRequest struct {
	Pain             *float64        `json:"pain"`
	PleasureQuantity *float64        `json:"pleasure_quantity"`
	PleasureQuality  *float64        `json:"pleasure_quality"`
	Experience       json.RawMessage `json:"experience"`
}

func (s *Server) handleWellBeing(w http.ResponseWriter, r *http.Request) {
	var req wellBeingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var exp experience.Experience
	var err error
	switch {
	case len(req.Experience) > 0:
		exp, err = experience.Decode(req.Experience)
	case req.Pain == nil || req.PleasureQuantity == nil || req.PleasureQuality == nil:
		err = fmt.Errorf("%w: pain, pleasure_quantity and pleasure_quality are required", experience.ErrInvalidInput)
	default:
		exp, err = experience.New(*req.Pain, *req.PleasureQuantity, *req.PleasureQuality)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	score, err := experience.WellBeing(exp)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	if s.DB != nil {
		if _, err := s.DB.RecordWellBeing(id, score); err != nil {
			slog.Error("journal well-being failed", "id", id, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         id,
		"experience": exp,
		"wellbeing":  score,
	})
}

type verdictResponse struct {
	ID    string       `json:"id"`
	Stage desire.Stage `json:"stage"`
	desire.Verdict
}

func (s *Server) verdict(d desire.Desire) verdictResponse {
	v := desire.Evaluate(d.Current, d.Wished)
	id := uuid.NewString()
	if s.DB != nil {
		if _, err := s.DB.RecordDesire(id, v); err != nil {
			slog.Error("journal desire failed", "id", id, "error", err)
		}
	}
	slog.Debug("desire evaluated", "id", id, "admitted", v.Admitted, "reason", v.Reason)
	return verdictResponse{ID: id, Stage: v.Stage(), Verdict: v}
}

func (s *Server) handleDesire(w http.ResponseWriter, r *http.Request) {
	var req desire.Desire
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.verdict(req))
}

func (s *Server) handleDesires(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Desires []desire.Desire `json:"desires"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out := make([]verdictResponse, len(req.Desires))
	admitted := 0
	for i, d := range req.Desires {
		out[i] = s.verdict(d)
		if out[i].Admitted {
			admitted++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"verdicts": out,
		"admitted": admitted,
	})
}

func (s *Server) handleVerdicts(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, 500)
	}
	entries, err := s.DB.Recent(limit)
	if err != nil {
		slog.Error("journal read failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleVerdict(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	id := r.PathValue("id")
	e, err := s.DB.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "verdict not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("journal read failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	n, err := s.DB.Purge()
	if err != nil {
		slog.Error("journal purge failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"purged": n})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
