package webui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/dashboard"
	"github.com/leoorbiters/leoorbiters/internal/fir"
	"github.com/leoorbiters/leoorbiters/internal/metrics"
	"github.com/leoorbiters/leoorbiters/internal/middleware"
	"github.com/leoorbiters/leoorbiters/internal/types"
	"github.com/leoorbiters/leoorbiters/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	pageTitle      = "LEO Orbiters"
	refreshSeconds = 5
	pageLogLines   = 100
	apiLogLines    = 200
)

// Server renders the dashboard and accepts its form posts
type Server struct {
	state     *dashboard.State
	logger    zerolog.Logger
	addr      string
	registry  *prometheus.Registry
	logBuffer *LogBuffer
	health    *dashboard.Health
	startTime time.Time
	version   version.Info

	httpServer *http.Server
}

// NewServer creates the dashboard web server. reg is exposed on /metrics.
func NewServer(state *dashboard.State, logger zerolog.Logger, addr string, reg *prometheus.Registry) *Server {
	return &Server{
		state:     state,
		logger:    logger,
		addr:      addr,
		registry:  reg,
		startTime: time.Now(),
		version:   version.Get(),
	}
}

// SetLogBuffer sets the buffer shown in the log panel
func (s *Server) SetLogBuffer(lb *LogBuffer) {
	s.logBuffer = lb
}

// SetHealth sets the upstream tracker reported on /health
func (s *Server) SetHealth(h *dashboard.Health) {
	s.health = h
}

// Handler builds the routed, wrapped handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /view/fir", s.handleSetFIR)
	mux.HandleFunc("POST /view/select", s.handleSelect)
	mux.HandleFunc("POST /view/clear", s.handleClear)
	mux.HandleFunc("POST /view/mode", s.handleMapMode)
	mux.HandleFunc("POST /view/date", s.handleStepDate)
	mux.HandleFunc("GET /api/view", s.handleViewAPI)
	mux.HandleFunc("GET /api/logs", s.handleLogsAPI)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.registry != nil {
		mux.Handle("GET /metrics", metrics.Handler(s.registry))
	}

	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.RequestLog(s.logger),
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
		Msg("Starting dashboard web UI")

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

// PageData holds data for the dashboard template
type PageData struct {
	Title          string
	View           dashboard.View
	Regions        []RegionInfo
	MapModes       []types.MapMode
	Logs           []LogEntry
	Version        string
	Uptime         string
	Upstream       string
	RefreshSeconds int
}

// RegionInfo describes a FIR button and its map rectangle
type RegionInfo struct {
	Name        types.FIR      `json:"name"`
	DisplayName string         `json:"displayName"`
	Description string         `json:"description"`
	Country     string         `json:"country"`
	Center      types.Location `json:"center"`
	Count       int            `json:"count"`
	Active      bool           `json:"active"`
	Bounds      [2][2]float64  `json:"bounds"`
}

func regionInfos(v dashboard.View) []RegionInfo {
	regions := fir.All()
	out := make([]RegionInfo, 0, len(regions))
	for _, r := range regions {
		latLo, latHi, lonLo, lonHi := r.Bounds()
		out = append(out, RegionInfo{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Description: r.Description,
			Country:     r.Country,
			Center:      r.Center(),
			Count:       v.FIRCounts[r.Name],
			Active:      v.Filter == types.FIRFilter(r.Name),
			Bounds:      [2][2]float64{{latLo, lonLo}, {latHi, lonHi}},
		})
	}
	return out
}

// handleIndex renders the dashboard
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := s.state.Snapshot()
	data := PageData{
		Title:          pageTitle,
		View:           v,
		Regions:        regionInfos(v),
		MapModes:       types.MapModes,
		Version:        s.version.String(),
		Uptime:         formatDuration(time.Since(s.startTime)),
		RefreshSeconds: refreshSeconds,
	}
	if s.logBuffer != nil {
		data.Logs = s.logBuffer.Recent(pageLogLines)
	}
	if s.health != nil {
		data.Upstream = s.health.Status().Status
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Templates.ExecuteTemplate(w, "base", data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleSetFIR(w http.ResponseWriter, r *http.Request) {
	filter := types.FIRFilter(r.FormValue("fir"))
	if err := s.state.SetFIR(filter); err != nil {
		s.rejectForm(w, err, http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("fir", string(filter)).Msg("FIR filter changed")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	if id == "" {
		s.rejectForm(w, errors.New("missing alert id"), http.StatusBadRequest)
		return
	}
	if err := s.state.SelectAlert(id); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dashboard.ErrAlertNotFound) {
			status = http.StatusNotFound
		}
		s.rejectForm(w, err, status)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.state.ClearSelection()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMapMode(w http.ResponseWriter, r *http.Request) {
	if err := s.state.SetMapMode(types.MapMode(r.FormValue("mode"))); err != nil {
		s.rejectForm(w, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleStepDate(w http.ResponseWriter, r *http.Request) {
	if err := s.state.StepDate(dashboard.Direction(r.FormValue("dir"))); err != nil {
		s.rejectForm(w, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) rejectForm(w http.ResponseWriter, err error, status int) {
	s.logger.Warn().Err(err).Int("status", status).Msg("Rejected dashboard action")
	http.Error(w, err.Error(), status)
}

// handleViewAPI returns the current snapshot
func (s *Server) handleViewAPI(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, "/api/view", http.StatusOK, s.state.Snapshot())
}

// handleLogsAPI returns recent log entries
func (s *Server) handleLogsAPI(w http.ResponseWriter, r *http.Request) {
	var entries []LogEntry
	if s.logBuffer != nil {
		entries = s.logBuffer.Recent(apiLogLines)
	}
	s.writeJSON(w, "/api/logs", http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleHealth returns service health and the age of the current batch
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	v := s.state.Snapshot()
	body := map[string]interface{}{
		"status":      "healthy",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"last_update": v.LastUpdate,
		"alerts":      v.TotalAlerts,
	}
	if s.health != nil {
		body["upstream"] = s.health.Status()
	}
	s.writeJSON(w, "/health", http.StatusOK, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, route string, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Str("route", route).Msg("Failed to encode response")
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	if d < 24*time.Hour {
		return d.Round(time.Minute).String()
	}
	hours := int(d.Hours())
	days := hours / 24
	hours = hours % 24
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd %dh", days, hours)
}
