package dashboard

// Tier is the presentation bucket for a risk score
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

const (
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.3

	markerBaseRadius = 10
	markerRiskRadius = 20
)

// TierFor buckets a risk score. The list panel and the map both use it.
func TierFor(risk float64) Tier {
	switch {
	case risk > highRiskThreshold:
		return TierHigh
	case risk > mediumRiskThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Color is the marker stroke and fill colour
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "#ef4444"
	case TierMedium:
		return "#eab308"
	default:
		return "#22c55e"
	}
}

// Label is the category name shown next to the score
func (t Tier) Label() string {
	switch t {
	case TierHigh:
		return "Danger"
	case TierMedium:
		return "Attention"
	default:
		return "Safe"
	}
}

// MarkerRadius grows linearly with risk
func MarkerRadius(risk float64) float64 {
	return markerBaseRadius + risk*markerRiskRadius
}
