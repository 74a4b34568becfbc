// Package server exposes the webhook HTTP boundary of the relay.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hkuds/warelay/internal/metrics"
	"github.com/hkuds/warelay/internal/relay"
)

// Server routes webhook traffic into the reply pipeline. The webhook
// contract always answers 200 so the bridge never retry-storms.
type Server struct {
	router   *chi.Mux
	pipeline *relay.Pipeline
	log      zerolog.Logger
	metrics  *metrics.Metrics
	version  string
}

// New creates the webhook server.
func New(pipeline *relay.Pipeline, m *metrics.Metrics, log zerolog.Logger, version string) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		log:      log,
		metrics:  m,
		version:  version,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestLogger)
	s.router.Get("/webhook", s.handleIdentity)
	s.router.Post("/webhook", s.handleWebhook)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusResponse is the webhook acknowledgment body.
type statusResponse struct {
	Status relay.Status `json:"status"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		// Malformed payloads are an admission rejection, not a hard error.
		s.log.Warn().Err(err).Msg("malformed webhook payload")
		s.metrics.WebhookEvents.WithLabelValues(string(relay.StatusIgnoredNoText)).Inc()
		s.writeStatus(w, relay.StatusIgnoredNoText)
		return
	}

	out := s.pipeline.Handle(r.Context(), env.toEvent())
	s.writeStatus(w, out.Status)
}

func (s *Server) handleIdentity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": "warelay",
		"version": s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) writeStatus(w http.ResponseWriter, status relay.Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(statusResponse{Status: status})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
