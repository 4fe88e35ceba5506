// Package api exposes the HTTP interface for the audit service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/landalytics/pageaudit/internal/audit"
	"github.com/landalytics/pageaudit/internal/config"
	"github.com/landalytics/pageaudit/internal/extract"
	"github.com/landalytics/pageaudit/internal/narrative"
	"github.com/landalytics/pageaudit/internal/score"
	"github.com/landalytics/pageaudit/internal/stream"
	"github.com/landalytics/pageaudit/internal/telemetry"
)

// Fetcher retrieves raw page representations.
type Fetcher interface {
	Fetch(ctx context.Context, url string) []audit.FetchAttempt
}

// SpeedMeasurer reports a measured mobile performance score, nil when
// unavailable.
type SpeedMeasurer interface {
	MobileScore(ctx context.Context, url string) *int
}

// NarrativeGenerator produces the AI narrative for a scored audit.
type NarrativeGenerator interface {
	Generate(ctx context.Context, in narrative.Input) narrative.Result
}

// RateLimiter admits or rejects a request for a client key.
type RateLimiter interface {
	Admit(key string) (bool, int)
}

// Server wires HTTP handlers to the audit pipeline.
type Server struct {
	router   chi.Router
	limiter  RateLimiter
	fetcher  Fetcher
	speed    SpeedMeasurer
	narrator NarrativeGenerator
	logger   *zap.Logger
	cfg      config.Config
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	limiter RateLimiter,
	fetcher Fetcher,
	speed SpeedMeasurer,
	narrator NarrativeGenerator,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		limiter:  limiter,
		fetcher:  fetcher,
		speed:    speed,
		narrator: narrator,
		logger:   logger,
		cfg:      cfg,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(securityHeadersMiddleware(cfg.Server.AllowedOrigins))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/audit", s.handleAudit)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type auditRequest struct {
	URL  string `json:"url"`
	Goal string `json:"goal"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req auditRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := normalizeURL(req.URL)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	goal, err := normalizeGoal(req.Goal)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if allowed, retryAfter := s.limiter.Admit(clientIP(r)); !allowed {
		telemetry.IncRateLimited()
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, "too many requests, please slow down")
		return
	}

	ctx := r.Context()

	// Fetch and performance measurement are independent; run them
	// together and join before extraction.
	type speedResult struct{ score *int }
	speedCh := make(chan speedResult, 1)
	go func() {
		speedCh <- speedResult{score: s.speed.MobileScore(ctx, target)}
	}()
	attempts := s.fetcher.Fetch(ctx, target)
	pageSpeed := (<-speedCh).score

	signals := extract.Extract(attempts)
	scores := score.Weight(score.All(signals, target, goal, pageSpeed), goal)

	h := w.Header()
	h.Set("Content-Type", "application/x-ndjson")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	out := stream.New(w)
	if err := out.EmitMetrics(scores); err != nil {
		s.logger.Error("metrics emission failed", zap.Error(err))
		telemetry.ObserveAudit(string(goal), "stream_failed")
		return
	}

	result := s.narrator.Generate(ctx, narrative.Input{
		URL:       target,
		Goal:      goal,
		Signals:   signals,
		Scores:    scores,
		PageSpeed: pageSpeed,
	})
	if result.Degraded {
		if err := out.EmitDegraded(); err != nil {
			s.logger.Error("degraded emission failed", zap.Error(err))
		}
		telemetry.ObserveAudit(string(goal), "degraded")
		return
	}
	if err := out.EmitNarrative(result.Narrative); err != nil {
		s.logger.Error("narrative emission failed", zap.Error(err))
		telemetry.ObserveAudit(string(goal), "stream_failed")
		return
	}
	telemetry.ObserveAudit(string(goal), "ok")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
