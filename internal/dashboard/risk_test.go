package dashboard

import (
	"testing"

	"github.com/leoorbiters/leoorbiters/internal/types"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		risk float64
		want Tier
	}{
		{1.0, TierHigh},
		{0.71, TierHigh},
		{0.7, TierMedium},
		{0.5, TierMedium},
		{0.31, TierMedium},
		{0.3, TierLow},
		{0.2, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		if got := TierFor(tt.risk); got != tt.want {
			t.Errorf("TierFor(%v) = %s, want %s", tt.risk, got, tt.want)
		}
	}
}

func TestTierListAndMapAgree(t *testing.T) {
	// The list badge and the map marker both come from the same AlertView
	for _, risk := range []float64{0.71, 0.5, 0.2} {
		s := NewState(today, 1)
		s.ApplyBatch(testBatchWithRisk(risk))
		v := s.Snapshot().Alerts[0]
		if v.Tier != TierFor(risk) || v.Color != TierFor(risk).Color() {
			t.Errorf("risk %v: tier %s colour %s", risk, v.Tier, v.Color)
		}
	}
}

func TestTierPresentation(t *testing.T) {
	if TierHigh.Color() != "#ef4444" || TierMedium.Color() != "#eab308" || TierLow.Color() != "#22c55e" {
		t.Error("unexpected tier colours")
	}
	if TierHigh.Label() != "Danger" || TierMedium.Label() != "Attention" || TierLow.Label() != "Safe" {
		t.Error("unexpected tier labels")
	}
}

func TestMarkerRadius(t *testing.T) {
	if got := MarkerRadius(0); got != 10 {
		t.Errorf("MarkerRadius(0) = %v", got)
	}
	if got := MarkerRadius(1); got != 30 {
		t.Errorf("MarkerRadius(1) = %v", got)
	}
	if got := MarkerRadius(0.5); got != 20 {
		t.Errorf("MarkerRadius(0.5) = %v", got)
	}
}

func testBatchWithRisk(risk float64) *types.AlertsResponse {
	return &types.AlertsResponse{
		LastUpdate: "2025-12-29 09:00",
		Alerts: []types.Alert{
			{ID: "alert-0", SatA: "STARLINK 12", SatB: "QZS-1", Risk: risk, Location: types.Location{34.0, 128.0}, FIR: types.FIRFukuoka},
		},
	}
}
