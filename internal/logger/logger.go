package logger

import (
	"io"
	"strings"
	"time"

	"github.com/bilal/mgenstat/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger to write to out. The CLI passes stderr;
// stdout is reserved for reports.
func Init(lcfg config.LoggingConfig, out io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(lcfg.Level))

	// format
	if strings.ToLower(lcfg.Format) == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		// default json
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
}

// ParseLevel maps debug/info/warn/error to a zerolog level. Unknown values are info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
