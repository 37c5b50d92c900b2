package api

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/generator"
	"github.com/leoorbiters/leoorbiters/internal/types"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(generator.New(rand.NewSource(1)), zerolog.New(io.Discard), ":0")
	s.SetClock(func() time.Time {
		return time.Date(2025, 10, 4, 12, 34, 56, 0, time.UTC)
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Invalid JSON from %s: %v", url, err)
	}
	return resp
}

func TestAlertsNow(t *testing.T) {
	ts := newTestServer(t)

	var body types.AlertsResponse
	resp := getJSON(t, ts.URL+"/api/alerts", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("unexpected content type %q", ct)
	}
	if body.LastUpdate != "2025-10-04 12:34" {
		t.Errorf("unexpected lastUpdate %q", body.LastUpdate)
	}
	if n := len(body.Alerts); n < 8 || n > 12 {
		t.Errorf("expected 8..12 alerts, got %d", n)
	}
	for i := 1; i < len(body.Alerts); i++ {
		if body.Alerts[i-1].Risk < body.Alerts[i].Risk {
			t.Fatalf("alerts not sorted at %d", i)
		}
	}
}

func TestAlertsAtDate(t *testing.T) {
	ts := newTestServer(t)

	var body types.AlertsResponse
	resp := getJSON(t, ts.URL+"/api/alerts/2025-10-05", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body.LastUpdate != "2025-10-05 00:00" {
		t.Errorf("unexpected lastUpdate %q", body.LastUpdate)
	}
	for _, a := range body.Alerts {
		if a.Timestamp != "2025-10-05T00:00:00.000Z" {
			t.Errorf("unexpected timestamp %q", a.Timestamp)
		}
	}
}

func TestAlertsAtLooseDateForms(t *testing.T) {
	ts := newTestServer(t)

	tests := map[string]string{
		"2025-10-05%2010:00":           "2025-10-05 10:00",
		"2025-10-05T19:00:00.000+0900": "2025-10-05 10:00",
		"Oct%205%202025":               "2025-10-05 00:00",
		"2025-10-05T10:00:00.123Z":     "2025-10-05 10:00",
	}
	for path, want := range tests {
		var body types.AlertsResponse
		resp := getJSON(t, ts.URL+"/api/alerts/"+path, &body)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
			continue
		}
		if body.LastUpdate != want {
			t.Errorf("%s: lastUpdate %q, want %q", path, body.LastUpdate, want)
		}
	}
}

func TestAlertsInvalidDate(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]interface{}
	resp := getJSON(t, ts.URL+"/api/alerts/not-a-date", &body)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Invalid date format" {
		t.Errorf("unexpected error body %v", body)
	}
	if _, ok := body["alerts"]; ok {
		t.Error("error response must not carry alerts")
	}
}

func TestAlertJSONShape(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Alerts []map[string]json.RawMessage `json:"alerts"`
	}
	getJSON(t, ts.URL+"/api/alerts", &body)

	for _, key := range []string{"id", "satA", "satB", "risk", "location", "fir", "timestamp"} {
		if _, ok := body.Alerts[0][key]; !ok {
			t.Errorf("alert JSON missing %q", key)
		}
	}
	var loc []float64
	if err := json.Unmarshal(body.Alerts[0]["location"], &loc); err != nil || len(loc) != 2 {
		t.Errorf("location should be a [lat, lon] array, got %s", body.Alerts[0]["location"])
	}
}

func TestCORSHeader(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/alerts")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}

func TestUnknownEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/api/satellites", &body)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
	if body["error"] == "" {
		t.Error("expected error body")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	var health map[string]string
	getJSON(t, ts.URL+"/health", &health)
	if health["status"] != "healthy" {
		t.Errorf("unexpected health %v", health)
	}

	// Generate one batch so the counters have samples
	var batch types.AlertsResponse
	getJSON(t, ts.URL+"/api/alerts", &batch)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"leo_alertgen_requests_total", "leo_alertgen_alerts_generated_total", "leo_alertgen_batch_size"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
