// Package api provides the HTTP API server for the construction cost
// estimation engine.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"construction-cost/estimation"
	"construction-cost/pkg/platform"
	"construction-cost/storage"
)

// Server is the HTTP API server
type Server struct {
	httpServer *http.Server
	engine     *estimation.Engine
	estimates  storage.Store
	config     *Config
}

// Config holds server configuration
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int64
	CORSOrigins    []string
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxRequestSize: 1 * 1024 * 1024, // 1MB
		CORSOrigins:    []string{"*"},
	}
}

// NewServer creates a new API server. The estimate store may be nil, in
// which case the save/load/saved endpoints report the feature as disabled.
func NewServer(engine *estimation.Engine, estimates storage.Store, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{
		engine:    engine,
		estimates: estimates,
		config:    config,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/api/v1/estimate", platform.APIKeyMiddleware(s.handleEstimate))
	mux.HandleFunc("/api/v1/estimate/detailed", platform.APIKeyMiddleware(s.handleDetailedEstimate))
	mux.HandleFunc("/api/v1/validate", platform.APIKeyMiddleware(s.handleValidate))
	mux.HandleFunc("/api/v1/tiers", platform.APIKeyMiddleware(s.handleTiers))
	mux.HandleFunc("/api/v1/estimates", platform.APIKeyMiddleware(s.handleListEstimates))
	mux.HandleFunc("/api/v1/estimates/", platform.APIKeyMiddleware(s.handleSavedEstimate))

	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	fmt.Printf("🚀 Costimate API server starting on port %d\n", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown starts server with graceful shutdown handling
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		fmt.Println("\n📴 Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		fmt.Printf("%s %s %s %s\n", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		allowed := false
		for _, o := range s.config.CORSOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HEALTH ENDPOINTS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.engine.Catalog().Len() == 0 {
		s.jsonError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":        "ready",
		"catalog_items": s.engine.Catalog().Len(),
	})
}

// =============================================================================
// ESTIMATION ENDPOINTS
// =============================================================================

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}

	result := s.engine.Estimate(r.Context(), spec)
	status := http.StatusOK
	if result.Status == estimation.RunStatusValidationError {
		status = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, status, result)
}

func (s *Server) handleDetailedEstimate(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}

	result := s.engine.DetailedEstimate(r.Context(), spec)
	status := http.StatusOK
	if result.Status == estimation.RunStatusValidationError {
		status = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, status, result)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.decodeSpec(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.engine.Validate(spec))
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type tierInfo struct {
		Tier  string   `json:"tier"`
		MinSF float64  `json:"min_sf"`
		MaxSF *float64 `json:"max_sf,omitempty"`
	}
	tiers := []tierInfo{}
	for _, band := range s.engine.Config().Estimation.Tiers {
		tiers = append(tiers, tierInfo{Tier: band.Tier, MinSF: band.MinSF, MaxSF: band.MaxSF})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"tiers":        tiers,
		"default_tier": s.engine.Config().Estimation.DefaultTier,
	})
}

// =============================================================================
// SAVED ESTIMATE ENDPOINTS
// =============================================================================

func (s *Server) handleListEstimates(w http.ResponseWriter, r *http.Request) {
	if s.estimates == nil {
		s.jsonError(w, http.StatusNotImplemented, "estimate persistence is not configured")
		return
	}
	if r.Method != http.MethodGet {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	saved, err := s.estimates.List(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list estimates: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"estimates": saved,
		"count":     len(saved),
	})
}

// handleSavedEstimate serves /api/v1/estimates/{name}: POST saves a fresh
// estimate for the posted project under that name, GET loads it.
func (s *Server) handleSavedEstimate(w http.ResponseWriter, r *http.Request) {
	if s.estimates == nil {
		s.jsonError(w, http.StatusNotImplemented, "estimate persistence is not configured")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/estimates/")
	if err := storage.ValidateName(name); err != nil {
		s.jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		spec, ok := s.decodeSpec(w, r)
		if !ok {
			return
		}
		result := s.engine.Estimate(r.Context(), spec)
		if result.Status == estimation.RunStatusValidationError {
			s.jsonResponse(w, http.StatusUnprocessableEntity, result)
			return
		}
		if err := s.estimates.Save(r.Context(), name, result); err != nil {
			s.jsonError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save estimate: %v", err))
			return
		}
		s.jsonResponse(w, http.StatusCreated, result)

	case http.MethodGet:
		result, err := s.estimates.Load(r.Context(), name)
		if err != nil {
			s.jsonError(w, http.StatusNotFound, fmt.Sprintf("estimate %q not found: %v", name, err))
			return
		}
		s.jsonResponse(w, http.StatusOK, result)

	default:
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) decodeSpec(w http.ResponseWriter, r *http.Request) (estimation.ProjectSpec, bool) {
	var spec estimation.ProjectSpec
	if r.Method != http.MethodPost {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return spec, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return spec, false
	}
	return spec, true
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}
