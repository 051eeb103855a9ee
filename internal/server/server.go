package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-portal/internal/config"
	"github.com/jonathan/job-portal/internal/db"
	"github.com/jonathan/job-portal/internal/embedding"
	"github.com/jonathan/job-portal/internal/engine"
	"github.com/jonathan/job-portal/internal/lexical"
	"github.com/jonathan/job-portal/internal/ranking"
	"github.com/jonathan/job-portal/internal/server/middleware"
	"github.com/jonathan/job-portal/internal/server/ratelimit"
	"github.com/jonathan/job-portal/internal/types"
)

// Store is the persistence surface the server needs. *db.DB satisfies it;
// tests substitute an in-memory implementation.
type Store interface {
	ListActiveJobs(ctx context.Context) ([]types.Job, error)
	GetJob(ctx context.Context, jobID string) (*types.Job, error)
	CreateJob(ctx context.Context, job *types.Job) error
	ArchiveJob(ctx context.Context, jobID string) (bool, error)
	CountJobs(ctx context.Context) (map[string]int, error)
	GetSeekerProfile(ctx context.Context, userID string) (*types.SeekerProfile, error)
	UpsertSeekerProfile(ctx context.Context, profile *types.SeekerProfile) error
	CreateUser(ctx context.Context, name, email, role, passwordHash string) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*db.UserRecord, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	engine      *engine.Engine
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	passwords   *config.PasswordConfig

	closeStore      func()
	closeEmbedder   func() error
	shutdownTimeout time.Duration
}

// New creates a new server instance: database pool, embedding provider,
// ranking engine, and routes. The catalog is indexed on startup unless
// disabled; an empty catalog is logged and the ranking endpoints serve 503
// until the first successful reindex.
func New(cfg *config.ServerConfig) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	engineConfig, err := config.NewEngineConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create engine config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	embedder, closeEmbedder, err := newEmbedder(engineConfig)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	eng := engine.NewWithTimeout(embedder, engineConfig.EmbedTimeout, engine.Options{
		Weights: ranking.Weights{
			Lexical: engineConfig.LexicalWeight,
			Vector:  engineConfig.VectorWeight,
		},
		BM25:            lexical.Params{K1: engineConfig.BM25K1, B: engineConfig.BM25B},
		VectorFloor:     engineConfig.VectorFloor,
		MaxExplanations: engineConfig.MaxExplanations,
		RecommendLimit:  engineConfig.RecommendLimit,
	})

	s := newServer(database, eng, NewJWTService(jwtConfig), passwordConfig, ratelimit.NewLimiter(ratelimit.LoadConfig()))
	s.httpServer.Addr = fmt.Sprintf(":%d", cfg.Port)
	s.shutdownTimeout = cfg.ShutdownTimeout
	s.closeStore = database.Close
	s.closeEmbedder = closeEmbedder

	if engineConfig.ReindexOnStartup {
		if err := s.reindexFromStore(context.Background()); err != nil {
			// Serve anyway; ranking endpoints return 503 until indexed.
			log.Printf("Startup index build failed: %v", err)
		}
	}

	return s, nil
}

// newServer wires an already-constructed store and engine into a Server.
func newServer(store Store, eng *engine.Engine, jwtService *JWTService, passwords *config.PasswordConfig, limiter *ratelimit.Limiter) *Server {
	s := &Server{
		store:           store,
		engine:          eng,
		jwtService:      jwtService,
		passwords:       passwords,
		rateLimiter:     limiter,
		shutdownTimeout: 30 * time.Second,
	}

	mux := http.NewServeMux()

	// Public catalog surface
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /jobs/search", s.handleSearchJobs)
	mux.HandleFunc("GET /jobs/filter-options", s.handleFilterOptions)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)

	// Employer surface
	mux.Handle("POST /jobs", s.requireRole(middleware.RoleEmployer, s.handleCreateJob))
	mux.Handle("DELETE /jobs/{id}", s.requireRole(middleware.RoleEmployer, s.handleArchiveJob))
	mux.Handle("POST /recommendations/index", s.requireRole(middleware.RoleEmployer, s.handleReindex))

	// Seeker surface
	mux.Handle("GET /recommendations", s.requireRole(middleware.RoleSeeker, s.handleRecommendations))
	mux.Handle("GET /recommendations/profile", s.requireRole(middleware.RoleSeeker, s.handleGetProfile))
	mux.Handle("PUT /recommendations/profile", s.requireRole(middleware.RoleSeeker, s.handlePutProfile))

	s.httpServer = &http.Server{
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// newEmbedder selects the embedding provider: Gemini when an API key is
// configured, the deterministic local provider otherwise.
func newEmbedder(cfg *config.EngineConfig) (embedding.Embedder, func() error, error) {
	if cfg.GeminiAPIKey != "" {
		gemini, err := embedding.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return gemini, gemini.Close, nil
	}
	return embedding.NewLocal(cfg.EmbedDimensions), nil, nil
}

// reindexFromStore loads the active catalog and rebuilds the index.
func (s *Server) reindexFromStore(ctx context.Context) error {
	jobs, err := s.store.ListActiveJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active jobs: %w", err)
	}

	start := time.Now()
	if err := s.engine.Reindex(ctx, jobs); err != nil {
		return err
	}

	stats := s.engine.Stats()
	log.Printf("Index built: %d jobs, %d terms, %d vectors in %v",
		stats.Jobs, stats.Terms, stats.Vectors, time.Since(start))
	return nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeEmbedder != nil {
		if err := s.closeEmbedder(); err != nil {
			log.Printf("Error closing embedder: %v", err)
		}
	}
	if s.closeStore != nil {
		s.closeStore()
	}

	log.Println("Server stopped")
	return nil
}

// requireRole wraps a handler with JWT auth restricted to one role.
func (s *Server) requireRole(role string, handler http.HandlerFunc) http.Handler {
	return middleware.Auth(s.jwtService.AsTokenValidator(), role)(handler)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status, including whether the index is
// serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":      "ok",
		"index_ready": s.engine.Ready(),
	}
	if err := s.store.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
