package webui

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const defaultLogBufferSize = 1000

// LogEntry is one captured zerolog line
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
	Raw       string    `json:"raw"`
}

// LogBuffer keeps the most recent log lines for the dashboard panel.
// It is an io.Writer so it can sit behind io.MultiWriter next to stdout.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int
}

// NewLogBuffer creates a ring buffer holding up to size entries
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = defaultLogBufferSize
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

// Write stores one log line. zerolog issues one Write per event.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	entry := parseEntry(strings.TrimSpace(string(p)))

	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.entries[lb.head] = entry
	lb.head = (lb.head + 1) % len(lb.entries)
	if lb.count < len(lb.entries) {
		lb.count++
	}
	return len(p), nil
}

// Entries returns the buffered lines oldest first
func (lb *LogBuffer) Entries() []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make([]LogEntry, lb.count)
	start := 0
	if lb.count == len(lb.entries) {
		start = lb.head
	}
	for i := range out {
		out[i] = lb.entries[(start+i)%len(lb.entries)]
	}
	return out
}

// Recent returns at most n of the newest lines, oldest first
func (lb *LogBuffer) Recent(n int) []LogEntry {
	entries := lb.Entries()
	if n < 0 || len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// Len reports how many lines are buffered
func (lb *LogBuffer) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.count
}

// zerologLine mirrors the fields logging.New always emits
type zerologLine struct {
	Level     string   `json:"level"`
	Message   string   `json:"message"`
	Component string   `json:"component"`
	Error     string   `json:"error"`
	Time      *float64 `json:"time"`
}

// parseEntry decodes a zerolog JSON line. Anything that is not JSON is kept
// verbatim as an info message.
func parseEntry(raw string) LogEntry {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "info",
		Message:   raw,
		Raw:       raw,
	}

	var line zerologLine
	if !strings.HasPrefix(raw, "{") || json.Unmarshal([]byte(raw), &line) != nil {
		return entry
	}

	if line.Level != "" {
		entry.Level = strings.ToLower(line.Level)
	}
	entry.Component = line.Component
	if line.Message != "" {
		entry.Message = line.Message
	}
	if line.Error != "" {
		entry.Message += ": " + line.Error
	}
	if line.Time != nil {
		sec := int64(*line.Time)
		entry.Timestamp = time.Unix(sec, 0)
	}
	return entry
}
