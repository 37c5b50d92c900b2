package types

// FIR identifies a flight information region
type FIR string

const (
	FIRIncheon   FIR = "incheon"
	FIRFukuoka   FIR = "fukuoka"
	FIRPyongyang FIR = "pyongyang"
)

// FIRFilter is the dashboard's region filter: one FIR or FilterAll
type FIRFilter string

// FilterAll passes every alert through the filter
const FilterAll FIRFilter = "all"

// MapMode is the map display toggle
type MapMode string

const (
	MapModeFIR MapMode = "FIR"
	MapMode2D  MapMode = "2D"
	MapMode3D  MapMode = "3D"
)

// MapModes lists the toggles in button order
var MapModes = []MapMode{MapModeFIR, MapMode2D, MapMode3D}

// Location is a [lat, lon] pair; it marshals as a two-element JSON array
type Location [2]float64

// Lat returns the latitude in degrees
func (l Location) Lat() float64 { return l[0] }

// Lon returns the longitude in degrees
func (l Location) Lon() float64 { return l[1] }

// Alert represents a predicted close approach between two satellites
type Alert struct {
	ID        string   `json:"id"`
	SatA      string   `json:"satA"`
	SatB      string   `json:"satB"`
	Risk      float64  `json:"risk"`
	Location  Location `json:"location"`
	FIR       FIR      `json:"fir"`
	Timestamp string   `json:"timestamp"`
}

// AlertsResponse is one generated batch
type AlertsResponse struct {
	LastUpdate string  `json:"lastUpdate"`
	Alerts     []Alert `json:"alerts"`
}

// ErrorResponse is the body of every non-2xx API reply
type ErrorResponse struct {
	Error string `json:"error"`
}
