package server

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/engine"
	"github.com/lazypower/bangapda/internal/metrics"
	"github.com/lazypower/bangapda/internal/store"
)

// Options configures a Server.
type Options struct {
	Version     string
	CORSOrigins []string
	WebClient   fs.FS // served under / when set
}

// Server is the bangapda HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	log     *zap.Logger
	metrics *metrics.Collector
	router  chi.Router
	opts    Options
	started time.Time
}

// New creates a new Server around eng. The engine's logger and metrics
// collector are shared with the HTTP layer.
func New(eng *engine.Engine, opts Options) *Server {
	s := &Server{
		db:      eng.DB,
		engine:  eng,
		log:     eng.Log.Named("http"),
		metrics: eng.Metrics,
		opts:    opts,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/periods", s.handlePeriods)
		r.Get("/candidates", s.handleCandidates)
		r.Post("/search", s.handleSearch)
		r.Get("/matches", s.handleMatches)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handlePutProfile)

			r.Post("/requests", s.handleSendRequest)
			r.Get("/requests/sent", s.handleSentRequests)
			r.Get("/requests/received", s.handleReceivedRequests)
			r.Post("/requests/{id}/accept", s.handleAcceptRequest)
			r.Post("/requests/{id}/block", s.handleBlockRequest)
			r.Post("/requests/{id}/skip", s.handleSkipRequest)

			r.Get("/chats/{id}/messages", s.handleGetMessages)
			r.Post("/chats/{id}/messages", s.handleSendMessage)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		})
	})

	r.Get("/*", webClient(s.opts.WebClient))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}
	candidates, _ := s.db.CountCandidates()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.opts.Version,
		"uptime":     time.Since(s.started).Seconds(),
		"db":         dbOK,
		"db_path":    s.db.Path,
		"candidates": candidates,
	})
}
