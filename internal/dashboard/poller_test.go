package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/metrics"
	"github.com/leoorbiters/leoorbiters/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
)

type stubFetcher struct {
	mu    sync.Mutex
	resp  *types.AlertsResponse
	err   error
	calls atomic.Int32
}

func (f *stubFetcher) FetchAlerts(ctx context.Context) (*types.AlertsResponse, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resp, f.err
}

func (f *stubFetcher) set(resp *types.AlertsResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp, f.err = resp, err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func metricValue(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to read metric: %v", err)
	}
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	}
	return 0
}

func TestPollerFetchesImmediately(t *testing.T) {
	fetcher := &stubFetcher{resp: testBatch()}
	state := NewState(today, 7)
	p := NewPoller(fetcher, state, time.Hour, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return len(state.Filtered()) == 4 })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("expected a single fetch with an hour interval, got %d", got)
	}
}

func TestPollerKeepsBatchOnFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewDashboard(reg)

	fetcher := &stubFetcher{resp: testBatch()}
	state := NewState(today, 7)
	p := NewPoller(fetcher, state, time.Hour, zerolog.Nop(), m)
	health := NewHealth(zerolog.Nop(), 4, time.Minute)
	p.SetHealth(health)

	p.Poll(context.Background())
	if got := state.Snapshot().LastUpdate; got != "2025-12-29 09:00" {
		t.Fatalf("lastUpdate after success %q", got)
	}

	fetcher.set(nil, errors.New("connection refused"))
	p.Poll(context.Background())

	v := state.Snapshot()
	if v.LastUpdate != "2025-12-29 09:00" || v.TotalAlerts != 4 {
		t.Errorf("failed fetch altered state: lastUpdate=%q total=%d", v.LastUpdate, v.TotalAlerts)
	}
	if got := metricValue(t, m.Fetches.WithLabelValues("success")); got != 1 {
		t.Errorf("success count %v", got)
	}
	if got := metricValue(t, m.Fetches.WithLabelValues("error")); got != 1 {
		t.Errorf("error count %v", got)
	}
	if got := metricValue(t, m.AlertsShown); got != 4 {
		t.Errorf("alerts gauge %v", got)
	}
	if st := health.Status(); st.Status != UpstreamDown || st.LastError != "connection refused" {
		t.Errorf("unexpected upstream status %+v", st)
	}
}

func TestPollerTicks(t *testing.T) {
	fetcher := &stubFetcher{resp: testBatch()}
	state := NewState(today, 7)
	p := NewPoller(fetcher, state, 10*time.Millisecond, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	waitFor(t, func() bool { return fetcher.calls.Load() >= 3 })
}

func TestPollerNewBatchReplacesOld(t *testing.T) {
	fetcher := &stubFetcher{resp: testBatch()}
	state := NewState(today, 7)
	p := NewPoller(fetcher, state, time.Hour, zerolog.Nop(), nil)

	p.Poll(context.Background())
	fetcher.set(testBatchWithRisk(0.9), nil)
	p.Poll(context.Background())

	got := state.Filtered()
	if len(got) != 1 || got[0].Risk != 0.9 {
		t.Errorf("expected the newer batch, got %+v", got)
	}
}

// sequenceFetcher answers each call with the step at that index; calls past
// the end block until their context is cancelled.
type sequenceFetcher struct {
	steps []func(ctx context.Context) (*types.AlertsResponse, error)
	calls atomic.Int32
}

func (f *sequenceFetcher) FetchAlerts(ctx context.Context) (*types.AlertsResponse, error) {
	i := int(f.calls.Add(1)) - 1
	if i < len(f.steps) {
		return f.steps[i](ctx)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func batchAt(lastUpdate string) *types.AlertsResponse {
	resp := testBatch()
	resp.LastUpdate = lastUpdate
	return resp
}

func TestPollerSlowFetchCompletingLastWins(t *testing.T) {
	releaseSlow := make(chan struct{})
	fetcher := &sequenceFetcher{steps: []func(ctx context.Context) (*types.AlertsResponse, error){
		func(ctx context.Context) (*types.AlertsResponse, error) {
			<-releaseSlow
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return batchAt("2025-12-29 09:00"), nil
		},
		func(ctx context.Context) (*types.AlertsResponse, error) {
			return batchAt("2025-12-29 09:01"), nil
		},
	}}
	state := NewState(today, 7)
	p := NewPoller(fetcher, state, 10*time.Millisecond, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// The second tick completes while the first fetch is still in flight
	waitFor(t, func() bool { return state.Snapshot().LastUpdate == "2025-12-29 09:01" })

	close(releaseSlow)
	waitFor(t, func() bool { return state.Snapshot().LastUpdate == "2025-12-29 09:00" })
}

func TestPollerRunWaitsForInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := &sequenceFetcher{steps: []func(ctx context.Context) (*types.AlertsResponse, error){
		func(ctx context.Context) (*types.AlertsResponse, error) {
			close(started)
			<-release
			return batchAt("2025-12-29 09:05"), nil
		},
	}}
	state := NewState(today, 7)
	p := NewPoller(fetcher, state, time.Hour, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("Run returned while a fetch was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the fetch completed")
	}

	if got := state.Snapshot().LastUpdate; got != "2025-12-29 09:05" {
		t.Errorf("in-flight fetch result not applied, lastUpdate %q", got)
	}
}
