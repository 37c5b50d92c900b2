package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/metrics"
	"github.com/leoorbiters/leoorbiters/internal/types"
	"github.com/rs/zerolog"
)

// Fetcher retrieves the latest alert batch
type Fetcher interface {
	FetchAlerts(ctx context.Context) (*types.AlertsResponse, error)
}

// Poller feeds State from a Fetcher on a fixed interval
type Poller struct {
	fetcher  Fetcher
	state    *State
	interval time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Dashboard
	health   *Health
	wg       sync.WaitGroup
}

// NewPoller creates a poller; m may be nil
func NewPoller(fetcher Fetcher, state *State, interval time.Duration, logger zerolog.Logger, m *metrics.Dashboard) *Poller {
	return &Poller{
		fetcher:  fetcher,
		state:    state,
		interval: interval,
		logger:   logger.With().Str("component", "poller").Logger(),
		metrics:  m,
	}
}

// SetHealth attaches an availability tracker
func (p *Poller) SetHealth(h *Health) {
	p.health = h
}

// Run fetches immediately and then on every tick until ctx is cancelled.
// Each fetch runs on its own goroutine and a slow one is not cancelled by
// the next tick, so the last fetch to complete wins. Run returns once every
// in-flight fetch has finished.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("interval", p.interval).
		Msg("Starting alert poller")

	p.spawn(ctx)
	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			p.logger.Info().Msg("Alert poller stopped")
			return
		case <-ticker.C:
			p.spawn(ctx)
		}
	}
}

func (p *Poller) spawn(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Poll(ctx)
	}()
}

// Poll performs one fetch. Failures are logged and leave State untouched.
func (p *Poller) Poll(ctx context.Context) {
	resp, err := p.fetcher.FetchAlerts(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error().
			Err(err).
			Msg("Failed to fetch alerts")
		if p.metrics != nil {
			p.metrics.Fetches.WithLabelValues("error").Inc()
		}
		if p.health != nil {
			p.health.RecordFailure(err)
		}
		return
	}

	p.state.ApplyBatch(resp)

	p.logger.Info().
		Int("alert_count", len(resp.Alerts)).
		Str("last_update", resp.LastUpdate).
		Msg("Alert batch updated")
	if p.metrics != nil {
		p.metrics.Fetches.WithLabelValues("success").Inc()
		p.metrics.LastSuccess.SetToCurrentTime()
		p.metrics.AlertsShown.Set(float64(len(resp.Alerts)))
	}
	if p.health != nil {
		p.health.RecordSuccess()
	}
}
