// Package logger provides the zerolog constructor shared by all
// commands. Output is JSON to stdout with a role field for filtering
// logs from different components.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func New(role, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()
}
