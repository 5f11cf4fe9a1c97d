// Package logger configures the process-wide zerolog output. Packages log
// through the zerolog/log global; this package decides where it writes and
// at what level.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the process-wide logger. The zerolog/log global is kept in sync
// with it so both entry points reach the same writer.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}

	Log = zerolog.New(console).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Log
}

// SetLevel adjusts the global level. It accepts a zerolog level name or the
// server mode from config, so "release" maps to info instead of tripping
// the parser.
func SetLevel(mode string) {
	level := zerolog.InfoLevel
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "debug":
		level = zerolog.DebugLevel
	case "release", "":
		level = zerolog.InfoLevel
	case "test":
		level = zerolog.WarnLevel
	default:
		parsed, err := zerolog.ParseLevel(mode)
		if err != nil {
			Log.Warn().Str("level", mode).Msg("unknown log level, keeping info")
			break
		}
		level = parsed
	}

	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}
