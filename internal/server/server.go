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

	"github.com/bch0w/misfitlens/internal/inspector"
)

// Server exposes read-only statistics over a loaded index snapshot.
type Server struct {
	insp       *inspector.Inspector
	httpServer *http.Server
	mux        *http.ServeMux
	port       int
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance over an already-populated Inspector.
// The server never mutates the index; it is the single owner while serving.
func New(insp *inspector.Inspector, cfg Config) *Server {
	s := &Server{
		insp: insp,
		port: cfg.Port,
	}

	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/summary", s.corsMiddleware(s.handleSummary))
	mux.HandleFunc("/api/events", s.corsMiddleware(s.handleEvents))
	mux.HandleFunc("/api/misfit", s.corsMiddleware(s.handleMisfit))
	mux.HandleFunc("/api/measurements", s.corsMiddleware(s.handleMeasurements))
	mux.HandleFunc("/api/values", s.corsMiddleware(s.handleValues))

	// Health check
	mux.HandleFunc("/api/health", s.corsMiddleware(s.handleHealth))

	s.mux = mux
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the route handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start() error {
	// Setup graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on http://localhost:%d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// corsMiddleware adds CORS headers for local development.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSummary handles GET /api/summary: axis counts and step lists.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ax, err := s.insp.Axes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := struct {
		Events     int                 `json:"events"`
		Stations   int                 `json:"stations"`
		Models     []string            `json:"models"`
		Steps      map[string][]string `json:"steps"`
		Iterations int                 `json:"iterations"`
	}{
		Events:     len(ax.Events),
		Stations:   len(ax.Stations),
		Models:     ax.Models,
		Steps:      ax.Steps,
		Iterations: ax.Iterations,
	}

	writeJSON(w, http.StatusOK, response)
}

// handleEvents handles GET /api/events?choice=mag|depth_m|lat|lon|utm_x|utm_y
// Without a choice it returns origin times.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	choice := r.URL.Query().Get("choice")
	if choice == "" || choice == "time" {
		writeJSON(w, http.StatusOK, s.insp.Times())
		return
	}

	info, err := s.insp.EventInfo(choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleMisfit handles GET /api/misfit: the aggregate misfit per model/step.
func (s *Server) handleMisfit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	misfit, err := s.insp.SumMisfits()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, misfit)
}

// handleMeasurements handles GET /api/measurements?choice=cum_win_len|num_windows
func (s *Server) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	choice := r.URL.Query().Get("choice")
	if choice == "" {
		choice = inspector.MeasurementNumWindows
	}

	out, err := s.insp.Measurements(choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleValues handles GET /api/values?model=&step=&choice=
// returning the flat window measurement values for distribution analysis.
func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	model := r.URL.Query().Get("model")
	step := r.URL.Query().Get("step")
	choice := r.URL.Query().Get("choice")
	if model == "" || step == "" || choice == "" {
		writeError(w, http.StatusBadRequest, "model, step and choice parameters required")
		return
	}

	values, err := s.insp.WindowValues(model, step, choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := struct {
		Model  string    `json:"model"`
		Step   string    `json:"step"`
		Choice string    `json:"choice"`
		Count  int       `json:"count"`
		Values []float64 `json:"values"`
	}{model, step, choice, len(values), values}

	writeJSON(w, http.StatusOK, response)
}
