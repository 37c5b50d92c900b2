package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/leoorbiters/leoorbiters/internal/generator"
	"github.com/leoorbiters/leoorbiters/internal/metrics"
	"github.com/leoorbiters/leoorbiters/internal/middleware"
	"github.com/leoorbiters/leoorbiters/internal/types"
	"github.com/leoorbiters/leoorbiters/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Server provides the alert generator HTTP API
type Server struct {
	generator  *generator.Generator
	logger     zerolog.Logger
	addr       string
	corsOrigin string
	startTime  time.Time
	now        func() time.Time
	version    version.Info
	registry   *prometheus.Registry
	metrics    *metrics.Generator
	served     atomic.Int64
	httpServer *http.Server
}

// NewServer creates a new API server listening on addr
func NewServer(gen *generator.Generator, logger zerolog.Logger, addr string) *Server {
	reg := metrics.NewRegistry()
	return &Server{
		generator:  gen,
		logger:     logger,
		addr:       addr,
		corsOrigin: "*",
		startTime:  time.Now(),
		now:        time.Now,
		version:    version.Get(),
		registry:   reg,
		metrics:    metrics.NewGenerator(reg),
	}
}

// SetCORSOrigin sets the Access-Control-Allow-Origin value
func (s *Server) SetCORSOrigin(origin string) {
	s.corsOrigin = origin
}

// SetClock overrides the time source used for undated requests
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// Handler builds the routed, wrapped handler
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/api/alerts", s.handleAlerts)
	router.GET("/api/alerts/:date", s.handleAlertsAt)
	router.GET("/health", s.handleHealth)
	router.GET("/status", s.handleStatus)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler(s.registry))
	router.NotFound = http.HandlerFunc(s.handleNotFound)

	return middleware.Chain(router,
		middleware.Recovery(s.logger),
		middleware.RequestLog(s.logger),
		middleware.CORS(s.corsOrigin),
	)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().
		Str("address", s.addr).
		Msg("Starting alert generator API")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleAlerts returns a batch for the current server time
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.respondBatch(w, "/api/alerts", s.now())
}

// handleAlertsAt returns a batch for the date path segment
func (s *Server) handleAlertsAt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw := ps.ByName("date")
	at, err := generator.ParseDate(raw)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("date", raw).
			Msg("Rejected alert request with invalid date")
		s.writeJSON(w, "/api/alerts/:date", http.StatusBadRequest, types.ErrorResponse{Error: "Invalid date format"})
		return
	}
	s.respondBatch(w, "/api/alerts/:date", at)
}

func (s *Server) respondBatch(w http.ResponseWriter, route string, at time.Time) {
	resp := s.generator.Generate(at)

	s.metrics.BatchSize.Observe(float64(len(resp.Alerts)))
	for _, a := range resp.Alerts {
		s.metrics.AlertsGenerated.WithLabelValues(string(a.FIR)).Inc()
	}

	s.logger.Debug().
		Int("alert_count", len(resp.Alerts)).
		Str("last_update", resp.LastUpdate).
		Msg("Generated alert batch")

	s.writeJSON(w, route, http.StatusOK, resp)
}

// handleHealth returns service health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.writeJSON(w, "/health", http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus returns version and uptime
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.writeJSON(w, "/status", http.StatusOK, map[string]interface{}{
		"time":            time.Now().UTC().Format(time.RFC3339),
		"uptime":          time.Since(s.startTime).Round(time.Second).String(),
		"version":         s.version.Version,
		"commit":          s.version.Commit,
		"build_date":      s.version.BuildDate,
		"requests_served": s.served.Load(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "not_found", http.StatusNotFound, types.ErrorResponse{Error: "endpoint not found"})
}

func (s *Server) writeJSON(w http.ResponseWriter, route string, status int, body interface{}) {
	s.served.Add(1)
	s.metrics.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Str("route", route).Msg("Failed to encode response")
	}
}
