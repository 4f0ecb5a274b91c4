// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stdout, tagged with the service name.
// MEMOIRLY_LOG_LEVEL overrides the default info level when it parses.
func New(serviceName string) zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("MEMOIRLY_LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(s); err == nil {
			level = l
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
