// Package api provides the HTTP surface for the scheduling engine:
// tasks, schedule items, energy samples and sleep-schedule management
// (spec.md §6).
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/apperrors"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/google/uuid"
)

// Server is the scheduling engine's HTTP API server.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger

	handlers *commands.Handlers
	energy   *energy.Providers

	// tokens is nil when no ORBITA_AUTH_SECRET is configured, in which
	// case every request is attributed to fallbackOwner instead of
	// being authenticated (spec.md §6's bearer-token scheme is opt-in
	// for single-user/local deployments).
	tokens        *tokenIssuer
	fallbackOwner uuid.UUID
	seedRNG       *rand.Rand
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AuthSecret      string
	FallbackOwnerID uuid.UUID
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer wires the scheduling command handlers and energy providers
// into an HTTP server implementing spec.md §6's route table.
func NewServer(cfg ServerConfig, handlers *commands.Handlers, providers *energy.Providers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	var issuer *tokenIssuer
	if cfg.AuthSecret != "" {
		issuer = newTokenIssuer(cfg.AuthSecret)
	}

	s := &Server{
		logger:        logger,
		handlers:      handlers,
		energy:        providers,
		tokens:        issuer,
		fallbackOwner: cfg.FallbackOwnerID,
		seedRNG:       rand.New(rand.NewSource(1)),
	}

	s.mux = http.NewServeMux()
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up spec.md §6's route table. Every route but the
// health check and the token refresh endpoint runs behind authenticate.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /auth/refresh-token", s.handleRefreshToken)

	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return authenticate(s.tokens, s.fallbackOwner, h)
	}

	s.mux.HandleFunc("POST /tasks", auth(s.handleCreateTask))
	s.mux.HandleFunc("GET /tasks", auth(s.handleListTasks))
	s.mux.HandleFunc("GET /tasks/{id}", auth(s.handleGetTask))
	s.mux.HandleFunc("PUT /tasks/{id}", auth(s.handleUpdateTask))
	s.mux.HandleFunc("DELETE /tasks/{id}", auth(s.handleDeleteTask))
	s.mux.HandleFunc("POST /tasks/{id}/reschedule", auth(s.handleRescheduleTask))

	s.mux.HandleFunc("POST /schedule", auth(s.handleCreateScheduleItem))
	s.mux.HandleFunc("GET /schedule", auth(s.handleListScheduleItems))
	s.mux.HandleFunc("DELETE /schedule/{id}", auth(s.handleDeleteScheduleItem))

	s.mux.HandleFunc("POST /energy", auth(s.handleRecordEnergySample))
	s.mux.HandleFunc("GET /energy", auth(s.handleTodayEnergy))
	s.mux.HandleFunc("GET /energy/patterns", auth(s.handleEnergyPatterns))

	s.mux.HandleFunc("PUT /auth/sleep-schedule", auth(s.handleSetSleepSchedule))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting scheduling API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down scheduling API server")
	return s.server.Shutdown(ctx)
}

// withOwnerLock mirrors commands.Handlers' own lock-or-passthrough
// behavior for the one write path (a bare ScheduleItem save) that has
// no dedicated command of its own.
func (s *Server) withOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error {
	if s.handlers.Locker == nil {
		return fn(ctx)
	}
	return s.handlers.Locker.WithLock(ctx, ownerID, fn)
}

// writeCommandError maps an application error to the JSON body and
// status code spec.md §7 assigns its Kind.
func (s *Server) writeCommandError(w http.ResponseWriter, err error) {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		s.logger.Error("unhandled command error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "internal_error",
			"message": "an unexpected error occurred",
		})
		return
	}
	status := apperrors.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("command failed", "kind", kind, "error", err)
		writeJSON(w, status, map[string]string{
			"error":   string(kind),
			"message": err.Error(),
		})
		return
	}
	writeJSONError(w, status, err.Error())
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeJSONError writes the {"error": "..."} shape spec.md §6 defines
// for client errors.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
