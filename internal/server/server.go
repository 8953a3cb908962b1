// Package server provides the HTTP API for the background check service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"backgrounder/internal/config"
	"backgrounder/internal/pipeline"
	"backgrounder/internal/server/middleware"
	"backgrounder/internal/store"
	"backgrounder/internal/types"
)

// CheckRunner is the aggregation core as the server consumes it.
type CheckRunner interface {
	Stream(ctx context.Context, in pipeline.RunInput) <-chan pipeline.Event
}

// ResumeExtractor turns extracted resume text into structured fields.
type ResumeExtractor interface {
	Extract(ctx context.Context, rawText string) *types.ResumeData
}

// PhotoUploader hosts raw photo bytes and returns a public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, photo []byte) (string, error)
}

// ReportArchive persists finished reports. Optional: a nil archive disables
// the /reports endpoints.
type ReportArchive interface {
	SaveReport(ctx context.Context, report *types.Report) (uuid.UUID, error)
	GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error)
	ListReports(ctx context.Context, limit int) ([]store.ReportSummary, error)
}

// Server is the HTTP front end over the aggregation pipeline.
type Server struct {
	httpServer *http.Server
	runner     CheckRunner
	resume     ResumeExtractor
	photos     PhotoUploader
	archive    ReportArchive
	metrics    *Metrics
}

// Config holds server wiring. Runner and Resume are required; Photos and
// Archive degrade gracefully when nil.
type Config struct {
	Port    int
	Runner  CheckRunner
	Resume  ResumeExtractor
	Photos  PhotoUploader
	Archive ReportArchive
	JWT     *config.JWTConfig
}

// New assembles the server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		runner:  cfg.Runner,
		resume:  cfg.Resume,
		photos:  cfg.Photos,
		archive: cfg.Archive,
		metrics: NewMetrics(),
	}

	var validator middleware.TokenValidator
	if cfg.JWT != nil {
		validator = NewJWTService(cfg.JWT)
		log.Printf("[SERVER] bearer auth enabled")
	}
	requireAuth := middleware.RequireAuth(validator)

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/check", requireAuth(http.HandlerFunc(s.handleCheck)))
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/reports", s.handleListReports)
	mux.HandleFunc("GET /api/v1/reports/{id}", s.handleGetReport)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.withLogging(s.withCORS(mux)),
		// No WriteTimeout: check runs stream SSE for minutes.
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Start listens until SIGINT/SIGTERM, then drains in-flight runs.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[SERVER] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[SERVER] error: %v", err)
		}
	}()

	<-stop
	log.Println("[SERVER] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[SERVER] stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[SERVER] %s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[SERVER] %s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[SERVER] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
