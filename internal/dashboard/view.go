package dashboard

import (
	"time"

	"github.com/leoorbiters/leoorbiters/internal/generator"
	"github.com/leoorbiters/leoorbiters/internal/types"
)

// View is an immutable copy of State for rendering
type View struct {
	LastUpdate   string            `json:"lastUpdate"`
	ReceivedAt   time.Time         `json:"receivedAt"`
	Filter       types.FIRFilter   `json:"filter"`
	MapMode      types.MapMode     `json:"mapMode"`
	Dates        []string          `json:"dates"`
	SelectedDate string            `json:"selectedDate"`
	Carousel     []string          `json:"carousel"`
	CanPrev      bool              `json:"canPrev"`
	CanNext      bool              `json:"canNext"`
	TotalAlerts  int               `json:"totalAlerts"`
	FIRCounts    map[types.FIR]int `json:"firCounts"`
	Alerts       []AlertView       `json:"alerts"`
	Selected     *AlertView        `json:"selected,omitempty"`
}

// AlertView decorates an alert with its presentation attributes
type AlertView struct {
	types.Alert
	Tier     Tier    `json:"tier"`
	Color    string  `json:"color"`
	Label    string  `json:"label"`
	Radius   float64 `json:"radius"`
	OwnerA   string  `json:"ownerA"`
	OwnerB   string  `json:"ownerB"`
	Selected bool    `json:"selected"`
}

func newAlertView(a types.Alert, selected *types.Alert) AlertView {
	tier := TierFor(a.Risk)
	return AlertView{
		Alert:    a,
		Tier:     tier,
		Color:    tier.Color(),
		Label:    tier.Label(),
		Radius:   MarkerRadius(a.Risk),
		OwnerA:   generator.Owner(a.SatA),
		OwnerB:   generator.Owner(a.SatB),
		Selected: selected != nil && *selected == a,
	}
}
