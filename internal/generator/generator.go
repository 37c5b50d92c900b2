// Package generator fabricates synthetic conjunction alert batches.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/fir"
	"github.com/leoorbiters/leoorbiters/internal/types"
)

const (
	minAlerts    = 8
	alertsSpread = 5 // N = minAlerts + [0, alertsSpread)

	// TimestampLayout matches the ISO-8601 form with milliseconds and a Z suffix
	TimestampLayout = "2006-01-02T15:04:05.000Z"
	// LastUpdateLayout is the ISO timestamp with the T dropped, truncated to minutes
	LastUpdateLayout = "2006-01-02 15:04"
)

// Generator builds alert batches from an injected random source
type Generator struct {
	rng        *rand.Rand
	mu         sync.Mutex
	satellites []string
	regions    []fir.Region
}

// New creates a generator drawing from src
func New(src rand.Source) *Generator {
	return &Generator{
		rng:        rand.New(src),
		satellites: Satellites(),
		regions:    fir.All(),
	}
}

// NewFromTime creates a generator seeded from the wall clock
func NewFromTime() *Generator {
	return New(rand.NewSource(time.Now().UnixNano()))
}

// Generate returns a fresh batch stamped with at
func (g *Generator) Generate(at time.Time) types.AlertsResponse {
	at = at.UTC()
	return types.AlertsResponse{
		LastUpdate: at.Format(LastUpdateLayout),
		Alerts:     g.Alerts(at),
	}
}

// Alerts builds between 8 and 12 alerts sorted by descending risk
func (g *Generator) Alerts(at time.Time) []types.Alert {
	// rand.Rand is not safe for concurrent use
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := at.UTC().Format(TimestampLayout)
	n := minAlerts + g.rng.Intn(alertsSpread)
	alerts := make([]types.Alert, 0, n)

	for i := 0; i < n; i++ {
		satA := g.satellites[g.rng.Intn(len(g.satellites))]
		satB := g.satellites[g.rng.Intn(len(g.satellites))]
		for satB == satA {
			satB = g.satellites[g.rng.Intn(len(g.satellites))]
		}

		risk := round2(g.rng.Float64())
		region := g.regions[g.rng.Intn(len(g.regions))]
		latLo, latHi, lonLo, lonHi := region.Bounds()
		lat := latLo + g.rng.Float64()*(latHi-latLo)
		lon := lonLo + g.rng.Float64()*(lonHi-lonLo)

		alerts = append(alerts, types.Alert{
			ID:        fmt.Sprintf("alert-%d", i),
			SatA:      satA,
			SatB:      satB,
			Risk:      risk,
			Location:  types.Location{round2(lat), round2(lon)},
			FIR:       region.Name,
			Timestamp: timestamp,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Risk > alerts[j].Risk
	})
	return alerts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
