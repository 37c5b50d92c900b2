// Package logging builds the zerolog logger shared by both binaries.
package logging

import (
	"io"
	"os"

	"github.com/leoorbiters/leoorbiters/internal/version"
	"github.com/rs/zerolog"
)

// New creates a JSON logger writing to stdout and any extra sinks.
// Unknown levels fall back to info.
func New(level, component string, extra ...io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	writers := append([]io.Writer{os.Stdout}, extra...)
	info := version.Get()
	return zerolog.New(io.MultiWriter(writers...)).With().
		Timestamp().
		Str("component", component).
		Str("version", info.Version).
		Str("commit", info.Commit).
		Logger()
}
