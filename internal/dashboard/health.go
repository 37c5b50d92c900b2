package dashboard

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Upstream status values reported by Health
const (
	UpstreamStarting = "starting"
	UpstreamOK       = "ok"
	UpstreamDegraded = "degraded"
	UpstreamDown     = "down"
)

// Health tracks the alert API's availability as seen by the poller and
// flags it as flapping when it goes up and down too often.
type Health struct {
	log       zerolog.Logger
	threshold int           // availability changes that count as flapping
	window    time.Duration // period the threshold applies to
	now       func() time.Time

	mu                  sync.Mutex
	known               bool
	up                  bool
	changes             []time.Time
	flapping            bool
	consecutiveFailures int
	lastError           string
	lastSuccess         time.Time
	lastFailure         time.Time
}

// HealthStatus is a point-in-time copy of Health
type HealthStatus struct {
	Status              string    `json:"status"`
	Flapping            bool      `json:"flapping"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	LastSuccess         time.Time `json:"last_success"`
	LastFailure         time.Time `json:"last_failure"`
}

// NewHealth creates a tracker
func NewHealth(log zerolog.Logger, threshold int, window time.Duration) *Health {
	return &Health{
		log:       log.With().Str("component", "upstream-health").Logger(),
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
}

// RecordSuccess notes a completed fetch
func (h *Health) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if h.known && !h.up {
		h.log.Info().
			Int("failed_fetches", h.consecutiveFailures).
			Msg("Alert API reachable again")
	}
	h.record(true, now)
	h.consecutiveFailures = 0
	h.lastError = ""
	h.lastSuccess = now
}

// RecordFailure notes a failed fetch
func (h *Health) RecordFailure(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.record(false, now)
	h.consecutiveFailures++
	if err != nil {
		h.lastError = err.Error()
	}
	h.lastFailure = now
}

// record must be called with mu held
func (h *Health) record(up bool, now time.Time) {
	cutoff := now.Add(-h.window)
	pruned := h.changes[:0]
	for _, ts := range h.changes {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}
	if h.known && h.up != up {
		pruned = append(pruned, now)
	}
	h.changes = pruned
	h.known = true
	h.up = up

	switch {
	case len(h.changes) >= h.threshold && !h.flapping:
		h.flapping = true
		h.log.Warn().
			Int("changes", len(h.changes)).
			Dur("window", h.window).
			Msg("Alert API availability flapping")
	case len(h.changes) < h.threshold && h.flapping:
		h.flapping = false
		h.log.Info().Msg("Alert API availability stable")
	}
}

// Status summarises the tracker
func (h *Health) Status() HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := HealthStatus{
		Flapping:            h.flapping,
		ConsecutiveFailures: h.consecutiveFailures,
		LastError:           h.lastError,
		LastSuccess:         h.lastSuccess,
		LastFailure:         h.lastFailure,
	}
	switch {
	case !h.known:
		st.Status = UpstreamStarting
	case !h.up:
		st.Status = UpstreamDown
	case h.flapping:
		st.Status = UpstreamDegraded
	default:
		st.Status = UpstreamOK
	}
	return st
}
