// internal/httpserver/server.go
//
// HTTP wiring for the weight-guessing backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     per-request trace IDs echoed as X-Trace-Id).
//   - Public endpoints: "/", /api/health, /api/prompt.
//   - Game endpoints: GET /api/state, POST /api/start, POST /api/submit,
//     GET /api/leaderboard.
//   - Static mounts for the web client and the item asset directory.
//
// Notes:
//   - The engine is not goroutine-safe; every engine call holds s.mu, so
//     concurrent submissions resolve strictly one at a time.
//   - CORS is origin-aware and credentials-enabled.

package httpserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bribethescale/go-server/internal/game"
	"github.com/bribethescale/go-server/internal/history"
	"github.com/bribethescale/go-server/internal/trace"
)

// Server bundles router, the single game engine, and run history.
type Server struct {
	r       *chi.Mux
	engine  *game.Engine
	history *history.Store

	mu    sync.Mutex // serializes engine access and guards runID
	runID int64      // current history run, 0 when none started
}

// New constructs a Server, installs middleware, and registers routes.
// projectRoot anchors the static web/ and assets/ mounts.
func New(engine *game.Engine, hist *history.Store, projectRoot string) *Server {
	s := &Server{r: chi.NewRouter(), engine: engine, history: hist}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(60 * time.Second)) // submit waits on the judge
	s.r.Use(corsFromEnv)
	s.r.Use(withTraceID)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"bribe-the-scale","endpoints":["/api/health","/api/state","POST /api/start","POST /api/submit","/api/leaderboard"]}`))
	})
	s.r.Get("/api/health", s.handleHealth)
	s.r.Get("/api/prompt", s.handlePrompt)

	// --- game ---
	s.r.Get("/api/state", s.handleState)
	s.r.Post("/api/start", s.handleStart)
	s.r.Post("/api/submit", s.handleSubmit)
	s.r.Get("/api/leaderboard", s.handleLeaderboard)

	// --- static ---
	mountStatic(s.r, "/assets", filepath.Join(projectRoot, "assets"))
	mountStatic(s.r, "/web", filepath.Join(projectRoot, "web"))

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// withTraceID threads a trace ID through the request context and echoes it.
// A caller-supplied X-Trace-Id is honored so upstream services keep their
// correlation; otherwise a fresh ID is minted.
func withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Trace-Id"))
		if id == "" {
			id = trace.NewID()
		}
		w.Header().Set("X-Trace-Id", id)
		next.ServeHTTP(w, r.WithContext(trace.WithID(r.Context(), id)))
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// mountStatic serves dir under prefix when it exists; a missing directory is
// fine in API-only deployments.
func mountStatic(r chi.Router, prefix, dir string) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.Get(prefix+"/*", fs.ServeHTTP)
}
