// Package dashboard holds the dashboard's view state and the poller that
// keeps it fed.
package dashboard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/fir"
	"github.com/leoorbiters/leoorbiters/internal/types"
)

var (
	ErrUnknownFilter    = errors.New("unknown FIR filter")
	ErrUnknownMapMode   = errors.New("unknown map mode")
	ErrUnknownDirection = errors.New("unknown date direction")
	ErrAlertNotFound    = errors.New("alert not found")
)

// Direction steps through the date window
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// State is the dashboard's single view: the current batch plus the user's
// filter, selection, map mode and date choices.
type State struct {
	mu sync.RWMutex

	alerts     []types.Alert
	lastUpdate string
	received   time.Time
	filter     types.FIRFilter
	selected   *types.Alert
	mapMode    types.MapMode
	dates      []string
	dateIndex  int
}

// NewState computes the date window once and starts with no alerts,
// filter "all", 2D map mode and the first date selected.
func NewState(today time.Time, days int) *State {
	return &State{
		filter:  types.FilterAll,
		mapMode: types.MapMode2D,
		dates:   DateWindow(today, days),
	}
}

// ApplyBatch replaces the current batch. The selection is left alone.
func (s *State) ApplyBatch(resp *types.AlertsResponse) {
	alerts := make([]types.Alert, len(resp.Alerts))
	copy(alerts, resp.Alerts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = alerts
	s.lastUpdate = resp.LastUpdate
	s.received = time.Now()
}

// Filtered returns the alerts visible under the current filter, in batch order
func (s *State) Filtered() []types.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterAlerts(s.alerts, s.filter)
}

// FilterAlerts keeps alerts tagged with filter; FilterAll keeps everything
func FilterAlerts(alerts []types.Alert, filter types.FIRFilter) []types.Alert {
	out := make([]types.Alert, 0, len(alerts))
	for _, a := range alerts {
		if filter == types.FilterAll || types.FIRFilter(a.FIR) == filter {
			out = append(out, a)
		}
	}
	return out
}

// SetFIR changes the filter and always clears the selection
func (s *State) SetFIR(filter types.FIRFilter) error {
	if filter != types.FilterAll {
		if _, err := fir.Lookup(types.FIR(filter)); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.selected = nil
	return nil
}

// SelectAlert focuses an alert from the filtered view. A copy is kept so the
// focus stays put when the next batch reuses the id.
func (s *State) SelectAlert(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range FilterAlerts(s.alerts, s.filter) {
		if a.ID == id {
			focused := a
			s.selected = &focused
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrAlertNotFound, id)
}

// ClearSelection drops the focused alert
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns the focused alert, or nil
func (s *State) Selected() *types.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	a := *s.selected
	return &a
}

// SetMapMode switches the map toggle
func (s *State) SetMapMode(mode types.MapMode) error {
	valid := false
	for _, m := range types.MapModes {
		if m == mode {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q", ErrUnknownMapMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapMode = mode
	return nil
}

// StepDate moves one date forward or back, clamped to the window
func (s *State) StepDate(dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch dir {
	case DirectionPrev:
		if s.dateIndex > 0 {
			s.dateIndex--
		}
	case DirectionNext:
		if s.dateIndex < len(s.dates)-1 {
			s.dateIndex++
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}
	return nil
}

// SelectedDate returns the current date label
func (s *State) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.dates) == 0 {
		return ""
	}
	return s.dates[s.dateIndex]
}

// Snapshot captures everything a render needs
func (s *State) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := FilterAlerts(s.alerts, s.filter)
	v := View{
		LastUpdate:  s.lastUpdate,
		ReceivedAt:  s.received,
		Filter:      s.filter,
		MapMode:     s.mapMode,
		Dates:       append([]string(nil), s.dates...),
		Carousel:    carousel(s.dates, s.dateIndex),
		CanPrev:     s.dateIndex > 0,
		CanNext:     s.dateIndex < len(s.dates)-1,
		TotalAlerts: len(s.alerts),
		FIRCounts:   make(map[types.FIR]int),
		Alerts:      make([]AlertView, 0, len(filtered)),
	}
	if len(s.dates) > 0 {
		v.SelectedDate = s.dates[s.dateIndex]
	}
	for _, a := range s.alerts {
		v.FIRCounts[a.FIR]++
	}
	for _, a := range filtered {
		v.Alerts = append(v.Alerts, newAlertView(a, s.selected))
	}
	if s.selected != nil {
		sel := newAlertView(*s.selected, s.selected)
		v.Selected = &sel
	}
	return v
}
