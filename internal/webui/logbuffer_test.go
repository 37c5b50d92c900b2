package webui

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLogBufferWrapsAround(t *testing.T) {
	lb := NewLogBuffer(3)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(lb, `{"level":"info","message":"line %d"}`+"\n", i)
	}

	entries := lb.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"line 2", "line 3", "line 4"} {
		if entries[i].Message != want {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Message, want)
		}
	}

	recent := lb.Recent(2)
	if len(recent) != 2 || recent[1].Message != "line 4" {
		t.Errorf("unexpected recent entries %+v", recent)
	}
}

func TestLogBufferParsesZerolog(t *testing.T) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lb := NewLogBuffer(10)
	logger := zerolog.New(lb).With().Timestamp().Str("component", "poller").Logger()

	logger.Warn().Err(fmt.Errorf("connection refused")).Msg("Failed to fetch alerts")

	entries := lb.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != "warn" {
		t.Errorf("level %q", e.Level)
	}
	if e.Component != "poller" {
		t.Errorf("component %q", e.Component)
	}
	if e.Message != "Failed to fetch alerts: connection refused" {
		t.Errorf("message %q", e.Message)
	}
	if time.Since(e.Timestamp) > time.Minute {
		t.Errorf("timestamp %v not taken from the line", e.Timestamp)
	}
}

func TestLogBufferPlainText(t *testing.T) {
	lb := NewLogBuffer(0)
	lb.Write([]byte("not json\n"))

	e := lb.Entries()[0]
	if e.Level != "info" || e.Message != "not json" {
		t.Errorf("unexpected entry %+v", e)
	}
	if lb.Len() != 1 {
		t.Errorf("Len() = %d", lb.Len())
	}
}
