// Package web serves levels and results over a small JSON API and lets
// browsers play a level through a websocket session.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

// DefaultPlayer is the player name recorded for web games without one.
const DefaultPlayer = "web"

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// AllowedOrigins lists the Origin values accepted for websocket
	// upgrades. Empty means same origin only, "*" allows any.
	AllowedOrigins []string

	// PingInterval is how often idle websockets are pinged.
	PingInterval time.Duration

	// MaxSessions caps concurrent play sessions, 0 for no limit.
	MaxSessions int

	// StepLimit is the slide step ceiling for every board, 0 for the default.
	StepLimit int
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		PingInterval: 30 * time.Second,
		MaxSessions:  256,
	}
}

// LevelSource provides the levels the server exposes.
type LevelSource interface {
	LoadAll() ([]levels.Level, error)
	LoadByID(id string) (levels.Level, error)
}

// Server is the HTTP and websocket front end.
type Server struct {
	config   Config
	levels   LevelSource
	store    *storage.Store
	logger   *log.Logger
	upgrader websocket.Upgrader
	server   *http.Server

	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates a web server. store may be nil, in which case results
// are not recorded and the results endpoint is empty.
func NewServer(cfg Config, src LevelSource, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "slide-web",
		})
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultConfig().PingInterval
	}

	s := &Server{
		config:   cfg,
		levels:   src,
		store:    store,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin(),
	}
	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes sets up the HTTP routes with their middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/levels", s.handleListLevels)
		r.Get("/levels/{id}", s.handleGetLevel)
		r.Get("/levels/{id}/results", s.handleResults)
	})

	r.Get("/ws/play/{id}", s.handlePlay)

	return r
}

// checkOrigin builds the websocket origin policy. A nil func keeps
// gorilla's same-origin check.
func (s *Server) checkOrigin() func(*http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return nil
	}
	if slices.Contains(s.config.AllowedOrigins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(s.config.AllowedOrigins, origin)
	}
}

// loggingMiddleware logs each request with its request ID.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// LevelSummary describes a level to API clients.
type LevelSummary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Agents      int               `json:"agents"`
	MustFinish  int               `json:"must_finish"`
	Goals       map[string]string `json:"goals"`
}

func summarize(lvl levels.Level) LevelSummary {
	goals := make(map[string]string, len(lvl.Spec.Goals))
	for stat, g := range lvl.Spec.Goals {
		goals[stat] = g.String()
	}
	return LevelSummary{
		ID:          lvl.ID,
		Name:        lvl.Title(),
		Description: lvl.Description,
		Width:       lvl.Spec.Width,
		Height:      lvl.Spec.Height,
		Agents:      lvl.Spec.NumAgents,
		MustFinish:  lvl.Spec.MustFinish,
		Goals:       goals,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.Sessions(),
	})
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	lvls, err := s.levels.LoadAll()
	if err != nil {
		s.logger.Error("could not load levels", "error", err)
		s.writeError(w, http.StatusInternalServerError, "levels are unavailable")
		return
	}
	out := make([]LevelSummary, len(lvls))
	for i, lvl := range lvls {
		out[i] = summarize(lvl)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(lvl))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = min(n, 100)
	}

	results := []storage.Result{}
	if s.store != nil {
		best, err := s.store.BestResults(lvl.ID, limit)
		if err != nil {
			s.logger.Error("could not load results", "level", lvl.ID, "error", err)
			s.writeError(w, http.StatusInternalServerError, "results are unavailable")
			return
		}
		results = append(results, best...)
	}
	s.writeJSON(w, http.StatusOK, results)
}

// level resolves the {id} URL parameter, writing a 404 when it is unknown.
func (s *Server) level(w http.ResponseWriter, r *http.Request) (levels.Level, bool) {
	id := chi.URLParam(r, "id")
	lvl, err := s.levels.LoadByID(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("level %q not found", id))
		return levels.Level{}, false
	}
	return lvl, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("could not encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// Sessions returns the number of live play sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe starts the web server and blocks until an interrupt.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("web: listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until an interrupt.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting web server", "address", ln.Addr().String())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops accepting requests and closes every play session.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)

	s.mu.Lock()
	for _, sess := range s.sessions {
		if sess.conn != nil {
			sess.conn.Close()
		}
	}
	s.mu.Unlock()
	return err
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
