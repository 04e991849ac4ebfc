// Package web exposes the duel gateway over HTTP: a websocket endpoint per
// (session, player) pair plus a small JSON API for health, live sessions and
// match history.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/drop-duel/internal/config"
	"github.com/vovakirdan/drop-duel/internal/multiplayer"
	"github.com/vovakirdan/drop-duel/internal/storage"
)

// MatchHistory is the read side of match persistence used by the API.
type MatchHistory interface {
	RecentMatches(limit int) ([]storage.MatchResult, error)
	TopScores(limit int) ([]storage.ScoreEntry, error)
	StatsForPlayer(name string) (*storage.PlayerStats, error)
}

// Server bundles the router, coordinator and optional match history.
type Server struct {
	cfg      config.ServerConfig
	coord    *multiplayer.Coordinator
	history  MatchHistory // Optional, can be nil
	logger   *log.Logger
	r        *chi.Mux
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
// history may be nil, in which case the history endpoints answer 503.
func New(cfg config.ServerConfig, coord *multiplayer.Coordinator, history MatchHistory, logger *log.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		coord:   coord,
		history: history,
		logger:  logger,
		r:       chi.NewRouter(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/ws/{sessionID}/{playerID}", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Get("/health", s.handleHealth)
		r.Get("/api/sessions/{sessionID}", s.handleSession)
		r.Get("/api/matches", s.handleMatches)
		r.Get("/api/scores", s.handleScores)
		r.Get("/api/players/{name}", s.handlePlayer)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the router (useful for tests).
func (s *Server) Router() http.Handler { return s.r }

// ListenAndServe serves on cfg.Address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"sessions":    s.coord.Registry().Count(),
		"connections": s.coord.Hub().Count(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := multiplayer.SessionID(pathParam(r, "sessionID"))
	room, ok := s.coord.Registry().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}
	writeJSON(w, http.StatusOK, room.Snapshot())
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable")
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	matches, err := s.history.RecentMatches(limit)
	if err != nil {
		s.logger.Warn("could not list matches", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error")
		return
	}
	if matches == nil {
		matches = []storage.MatchResult{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable")
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	scores, err := s.history.TopScores(limit)
	if err != nil {
		s.logger.Warn("could not list scores", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error")
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable")
		return
	}
	stats, err := s.history.StatsForPlayer(pathParam(r, "name"))
	if err != nil {
		s.logger.Warn("could not load player stats", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// pathParam returns a decoded URL parameter. chi matches on the raw path when
// the request escapes reserved characters such as "/", leaving them escaped.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// queryLimit parses ?limit=N. Missing means the store's default.
func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// originChecker allows any origin when the allowlist is empty. Requests
// without an Origin header come from non-browser clients and are allowed.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
