// Package logger builds the service's zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       string
	Format      string
	Output      io.Writer
}

// New returns a logger tagged with the service name. Format "console" switches to a
// human-readable writer; anything else logs JSON. The level is set process-wide so DebugSwitch
// can change it at runtime.
func New(opts Options) zerolog.Logger {
	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))

	return zerolog.New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()
}

// DebugSwitch returns a func that lowers the process level to debug when on and restores base
// when off. A base already at debug or below is left alone.
func DebugSwitch(base zerolog.Level) func(on bool) {
	return func(on bool) {
		if on && base > zerolog.DebugLevel {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
			return
		}
		zerolog.SetGlobalLevel(base)
	}
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(value); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}
